// Package awsutil loads AWS SDK configuration, honoring a custom endpoint
// for local development against LocalStack.
package awsutil

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
)

// Load builds the AWS configuration for the given region. When
// AWS_ENDPOINT_URL is set (e.g. http://localstack:4566) the endpoint is
// returned so callers can point individual clients at it.
func Load(ctx context.Context, region string) (aws.Config, string, error) {
	cfg, err := awsCfg.LoadDefaultConfig(ctx, awsCfg.WithRegion(region))
	if err != nil {
		return aws.Config{}, "", err
	}
	return cfg, os.Getenv("AWS_ENDPOINT_URL"), nil
}
