// Package ledger writes normalized billing records to the billing_data
// table in Aurora Serverless through the RDS Data API.
package ledger

import (
	"context"
	"fmt"

	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/billing"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rdsdataservice"
)

// insertSQL ignores rows whose id already exists, so reprocessing the same
// file does not create duplicate ledger entries.
const insertSQL = `INSERT IGNORE INTO billing_data
(id, company_name, country, city, product_line, item, bill_date, currency, bill_amount, bill_amount_usd)
VALUES (:id, :company_name, :country, :city, :product_line, :item, :bill_date, :currency, :bill_amount, :bill_amount_usd)`

// Config locates the Aurora cluster and the Secrets Manager secret holding
// its credentials.
type Config struct {
	Database   string
	ClusterARN string
	SecretARN  string
}

// New creates a Ledger writing to Aurora Serverless via the Data API.
func New(region string, conf Config) (Ledger, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return Ledger{}, err
	}
	return Ledger{
		client: rdsdataservice.New(sess),
		conf:   conf,
	}, nil
}

// Ledger executes parameterized inserts against the billing database.
type Ledger struct {
	client *rdsdataservice.RDSDataService
	conf   Config
}

// Store inserts one record, ignoring duplicates by id.
func (l Ledger) Store(ctx context.Context, r billing.Record) error {
	_, err := l.client.ExecuteStatementWithContext(ctx, executeInput(l.conf, r))
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	return nil
}

func executeInput(conf Config, r billing.Record) *rdsdataservice.ExecuteStatementInput {
	return &rdsdataservice.ExecuteStatementInput{
		Database:    aws.String(conf.Database),
		ResourceArn: aws.String(conf.ClusterARN),
		SecretArn:   aws.String(conf.SecretARN),
		Sql:         aws.String(insertSQL),
		Parameters: []*rdsdataservice.SqlParameter{
			stringParam("id", r.ID),
			stringParam("company_name", r.CompanyName),
			stringParam("country", r.Country),
			stringParam("city", r.City),
			stringParam("product_line", r.ProductLine),
			stringParam("item", r.Item),
			stringParam("bill_date", r.BillDate),
			stringParam("currency", r.Currency),
			doubleParam("bill_amount", r.BillAmount),
			doubleParam("bill_amount_usd", r.BillAmountUSD),
		},
	}
}

func stringParam(name, value string) *rdsdataservice.SqlParameter {
	return &rdsdataservice.SqlParameter{
		Name:  aws.String(name),
		Value: &rdsdataservice.Field{StringValue: aws.String(value)},
	}
}

func doubleParam(name string, value float64) *rdsdataservice.SqlParameter {
	return &rdsdataservice.SqlParameter{
		Name:  aws.String(name),
		Value: &rdsdataservice.Field{DoubleValue: aws.Float64(value)},
	}
}
