package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Cool Project!":    "my-cool-project",
		"  --Hello__World--  ": "hello-world",
		"Go 1.23":             "go-1-23",
		"日本語":                 "project",
		"":                    "project",
		"Проект X":            "x",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestNewProjectID_Pattern(t *testing.T) {
	pattern := regexp.MustCompile(`^demo-[a-z0-9]{5}$`)
	for i := 0; i < 20; i++ {
		id, err := NewProjectID("Demo")
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
	}
}

func TestNewProjectID_EmptyName(t *testing.T) {
	id, err := NewProjectID("")
	require.NoError(t, err)
	assert.Regexp(t, `^project-[a-z0-9]{5}$`, id)
}
