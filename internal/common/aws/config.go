// internal/common/aws/config.go
package aws

import (
	"context"
	"fmt"

	appconfig "kondate-planner/internal/common/config"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// LoadConfig resolves credentials the usual SDK way (env, shared files,
// Lambda role) pinned to the configured region.
func LoadConfig(ctx context.Context, cfg appconfig.AWSConfig) (awssdk.Config, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewDynamoDB builds a DynamoDB client, pointed at cfg.Endpoint when one is
// set (DynamoDB Local in development).
func NewDynamoDB(awsCfg awssdk.Config, cfg appconfig.AWSConfig) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = awssdk.String(cfg.Endpoint)
		}
	})
}
