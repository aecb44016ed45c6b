package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{"N": "12", "BAD": "x", "B": "true", "L": " a, ,b ,", "EMPTY": ""}

	assert.Equal(t, 12, GetInt(c, "N", 1))
	assert.Equal(t, 1, GetInt(c, "BAD", 1))
	assert.True(t, GetBool(c, "B", false))
	assert.True(t, GetBool(c, "BAD", true))
	assert.Equal(t, []string{"a", "b"}, GetStrings(c, "L"))
	assert.Equal(t, "d", GetString(c, "EMPTY", "d"))
	assert.Equal(t, "d", GetString(nil, "N", "d"))
}

func TestLoad_Defaults(t *testing.T) {
	s := Load(map[string]string{})

	assert.Equal(t, "8080", s.Server.Port)
	assert.Equal(t, 180*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, DefaultBucket, s.Storage.Bucket)
	assert.Equal(t, "none", s.Storage.Driver)
	assert.Empty(t, s.Database.DSN)
}

func TestLoad_SupabaseDSN(t *testing.T) {
	s := Load(map[string]string{
		"DB_TYPE":              "supa",
		"SUPABASE_DB_HOST":     "db.example.co",
		"SUPABASE_DB_USER":     "postgres",
		"SUPABASE_DB_PASSWORD": "pw",
	})

	assert.Equal(t, "host=db.example.co user=postgres password=pw dbname=postgres port=5432 sslmode=require", s.Database.DSN)
}

type fakeParameters struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
}

func (f *fakeParameters) GetParametersByPath(_ context.Context, _ *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestLoadSSM_Pages(t *testing.T) {
	client := &fakeParameters{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []types.Parameter{{Name: aws.String("/portfolio/AUTH_JWT_SECRET"), Value: aws.String("s3cr3t")}},
			NextToken:  aws.String("next"),
		},
		{
			Parameters: []types.Parameter{{Name: aws.String("/portfolio/PORT"), Value: aws.String("9000")}},
		},
	}}
	c := map[string]string{"PORT": "8080"}

	require.NoError(t, LoadSSM(context.Background(), client, "/portfolio", c))

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "s3cr3t", c["AUTH_JWT_SECRET"])
	assert.Equal(t, "9000", c["PORT"])
}
