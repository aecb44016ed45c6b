package config

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterReader is the subset of the SSM client used to load overrides.
type ParameterReader interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMClient builds a Parameter Store client from the default AWS credential chain.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadSSM overlays every parameter under prefix onto c, keyed by the last path element.
// "/portfolio/prod/AUTH_JWT_SECRET" becomes c["AUTH_JWT_SECRET"].
func LoadSSM(ctx context.Context, client ParameterReader, prefix string, c map[string]string) error {
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}
	for {
		out, err := client.GetParametersByPath(ctx, input)
		if err != nil {
			return err
		}
		for _, p := range out.Parameters {
			name := strings.TrimSpace(path.Base(aws.ToString(p.Name)))
			if name == "" || name == "/" {
				continue
			}
			c[name] = aws.ToString(p.Value)
		}
		if out.NextToken == nil {
			return nil
		}
		input.NextToken = out.NextToken
	}
}
