package conf

import (
	"context"
	"strings"
	"testing"
)

func TestFromEnv(t *testing.T) {
	t.Run("a full configuration is read", func(t *testing.T) {
		t.Setenv(EnvRegion, "us-east-1")
		t.Setenv(EnvDatabase, "billing")
		t.Setenv(EnvClusterARN, "arn:aws:rds:us-east-1:000000000000:cluster:aurora-billing-cluster")
		t.Setenv(EnvSecretARN, "arn:aws:secretsmanager:us-east-1:000000000000:secret:aurora_billing_db_secret")
		t.Setenv(EnvSecretName, "")

		s, err := FromEnv(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Region != "us-east-1" {
			t.Errorf("unexpected region %q", s.Region)
		}
		if s.Ledger.Database != "billing" {
			t.Errorf("unexpected database %q", s.Ledger.Database)
		}
		if !strings.HasPrefix(s.Ledger.ClusterARN, "arn:aws:rds:") {
			t.Errorf("unexpected cluster ARN %q", s.Ledger.ClusterARN)
		}
		if !strings.HasPrefix(s.Ledger.SecretARN, "arn:aws:secretsmanager:") {
			t.Errorf("unexpected secret ARN %q", s.Ledger.SecretARN)
		}
	})

	t.Run("a missing database is an error", func(t *testing.T) {
		t.Setenv(EnvDatabase, "")
		t.Setenv(EnvClusterARN, "arn:aws:rds:us-east-1:000000000000:cluster:aurora-billing-cluster")
		t.Setenv(EnvSecretARN, "arn:aws:secretsmanager:us-east-1:000000000000:secret:s")

		if _, err := FromEnv(context.Background()); err == nil || !strings.Contains(err.Error(), EnvDatabase) {
			t.Errorf("expected an error naming %s, got %v", EnvDatabase, err)
		}
	})

	t.Run("a missing cluster ARN is an error", func(t *testing.T) {
		t.Setenv(EnvDatabase, "billing")
		t.Setenv(EnvClusterARN, "")
		t.Setenv(EnvSecretARN, "arn:aws:secretsmanager:us-east-1:000000000000:secret:s")

		if _, err := FromEnv(context.Background()); err == nil || !strings.Contains(err.Error(), EnvClusterARN) {
			t.Errorf("expected an error naming %s, got %v", EnvClusterARN, err)
		}
	})

	t.Run("a missing secret is an error naming both variables", func(t *testing.T) {
		t.Setenv(EnvDatabase, "billing")
		t.Setenv(EnvClusterARN, "arn:aws:rds:us-east-1:000000000000:cluster:aurora-billing-cluster")
		t.Setenv(EnvSecretARN, "")
		t.Setenv(EnvSecretName, "")

		_, err := FromEnv(context.Background())
		if err == nil || !strings.Contains(err.Error(), EnvSecretARN) || !strings.Contains(err.Error(), EnvSecretName) {
			t.Errorf("expected an error naming %s and %s, got %v", EnvSecretARN, EnvSecretName, err)
		}
	})
}
