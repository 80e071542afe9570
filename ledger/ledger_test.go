package ledger

import (
	"strings"
	"testing"

	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/billing"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/rdsdataservice"
	"github.com/google/go-cmp/cmp"
)

func TestExecuteInput(t *testing.T) {
	conf := Config{
		Database:   "billing",
		ClusterARN: "arn:aws:rds:us-east-1:000000000000:cluster:aurora-billing-cluster",
		SecretARN:  "arn:aws:secretsmanager:us-east-1:000000000000:secret:aurora_billing_db_secret",
	}
	r := billing.Record{
		ID:            "id1",
		CompanyName:   "Acme Ltd",
		Country:       "USA",
		City:          "Dallas",
		ProductLine:   "Hardware",
		Item:          "Widget",
		BillDate:      "2024-01-15",
		Currency:      "CAD",
		BillAmount:    100.00,
		BillAmountUSD: 79.00,
	}

	input := executeInput(conf, r)

	if aws.StringValue(input.Database) != conf.Database {
		t.Errorf("expected database %q, got %q", conf.Database, aws.StringValue(input.Database))
	}
	if aws.StringValue(input.ResourceArn) != conf.ClusterARN {
		t.Errorf("expected resource ARN %q, got %q", conf.ClusterARN, aws.StringValue(input.ResourceArn))
	}
	if aws.StringValue(input.SecretArn) != conf.SecretARN {
		t.Errorf("expected secret ARN %q, got %q", conf.SecretARN, aws.StringValue(input.SecretArn))
	}
	if !strings.HasPrefix(aws.StringValue(input.Sql), "INSERT IGNORE INTO billing_data") {
		t.Errorf("expected an insert-or-ignore statement, got %q", aws.StringValue(input.Sql))
	}

	expected := []*rdsdataservice.SqlParameter{
		stringParam("id", "id1"),
		stringParam("company_name", "Acme Ltd"),
		stringParam("country", "USA"),
		stringParam("city", "Dallas"),
		stringParam("product_line", "Hardware"),
		stringParam("item", "Widget"),
		stringParam("bill_date", "2024-01-15"),
		stringParam("currency", "CAD"),
		doubleParam("bill_amount", 100.00),
		doubleParam("bill_amount_usd", 79.00),
	}
	if diff := cmp.Diff(expected, input.Parameters); diff != "" {
		t.Error("unexpected parameters")
		t.Error(diff)
	}
}
