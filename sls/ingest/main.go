package main

import (
	"context"
	"net/url"
	"time"

	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/blobstore"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/conf"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/ingest"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/ledger"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/log"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/rates"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Response from the Lambda.
type Response struct {
	ProcessedCount int   `json:"processedCount"`
	SkippedCount   int   `json:"skippedCount"`
	DurationMS     int64 `json:"durationMs"`
}

// Handler ingests every object named in the S3 event. A fatal error on one
// object does not stop the remaining objects from being attempted, but is
// returned so the platform can redeliver the event; the ledger's
// insert-or-ignore keyed on id makes redelivery safe.
func Handler(ctx context.Context, event events.S3Event) (resp Response, err error) {
	start := time.Now()
	logger := log.Default.With(zap.String("invocationId", uuid.New().String()))

	settings, err := conf.FromEnv(ctx)
	if err != nil {
		logger.Error("configuration error", zap.Error(err))
		return
	}
	source, err := blobstore.New(settings.Region)
	if err != nil {
		logger.Error("failed to create blob source", zap.Error(err))
		return
	}
	store, err := ledger.New(settings.Region, settings.Ledger)
	if err != nil {
		logger.Error("failed to create ledger", zap.Error(err))
		return
	}
	ing := ingest.New(source, store, rates.Default, logger)

	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.Key
		// S3 event notifications URL-encode object keys.
		if unescaped, uerr := url.QueryUnescape(key); uerr == nil {
			key = unescaped
		}
		outcome, ierr := ing.Ingest(ctx, bucket, key)
		if ierr != nil {
			logger.Error("ingestion failed",
				zap.String("bucket", bucket),
				zap.String("key", key),
				zap.Error(ierr))
			err = ierr
			continue
		}
		resp.ProcessedCount += outcome.Stored
		resp.SkippedCount += len(outcome.Skipped)
	}

	resp.DurationMS = time.Since(start).Milliseconds()
	logger.Info("complete",
		zap.Int("processed", resp.ProcessedCount),
		zap.Int("skipped", resp.SkippedCount),
		zap.Int64("durationMs", resp.DurationMS))
	return
}

func main() {
	lambda.Start(Handler)
}
