package models

import (
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	idSuffixLength = 5
	fallbackSlug   = "project"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of non [a-z0-9] characters into one hyphen.
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// NewProjectID derives a new project id from the English name plus a random suffix.
func NewProjectID(name string) (string, error) {
	suffix, err := gonanoid.Generate(idAlphabet, idSuffixLength)
	if err != nil {
		return "", err
	}
	return Slugify(name) + "-" + suffix, nil
}
