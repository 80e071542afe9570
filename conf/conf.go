// Package conf loads ledger configuration from the environment.
package conf

import (
	"context"
	"fmt"
	"os"

	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/ledger"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

// Environment variables read by FromEnv.
const (
	EnvDatabase   = "BILLING_DATABASE"
	EnvClusterARN = "BILLING_CLUSTER_ARN"
	EnvSecretARN  = "BILLING_SECRET_ARN"
	EnvSecretName = "BILLING_SECRET_NAME"
	EnvRegion     = "AWS_REGION"
)

// Settings for one invocation.
type Settings struct {
	Region string
	Ledger ledger.Config
}

// FromEnv reads the configuration from the environment. One of
// BILLING_SECRET_ARN or BILLING_SECRET_NAME must be set; a name is resolved
// to its ARN through Secrets Manager.
func FromEnv(ctx context.Context) (Settings, error) {
	s := Settings{
		Region: os.Getenv(EnvRegion),
		Ledger: ledger.Config{
			Database:   os.Getenv(EnvDatabase),
			ClusterARN: os.Getenv(EnvClusterARN),
			SecretARN:  os.Getenv(EnvSecretARN),
		},
	}
	if s.Ledger.Database == "" {
		return s, fmt.Errorf("conf: %s is not set", EnvDatabase)
	}
	if s.Ledger.ClusterARN == "" {
		return s, fmt.Errorf("conf: %s is not set", EnvClusterARN)
	}
	if s.Ledger.SecretARN == "" {
		name := os.Getenv(EnvSecretName)
		if name == "" {
			return s, fmt.Errorf("conf: set %s or %s", EnvSecretARN, EnvSecretName)
		}
		arn, err := ResolveSecretARN(ctx, s.Region, name)
		if err != nil {
			return s, err
		}
		s.Ledger.SecretARN = arn
	}
	return s, nil
}

// ResolveSecretARN looks up the ARN of a named Secrets Manager secret. The
// secret's value is never read; the RDS Data API consumes the ARN directly.
func ResolveSecretARN(ctx context.Context, region, name string) (string, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return "", fmt.Errorf("conf: %w", err)
	}
	svc := secretsmanager.New(sess)
	dso, err := svc.DescribeSecretWithContext(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("conf: failed to resolve secret %q: %w", name, err)
	}
	return aws.StringValue(dso.ARN), nil
}
