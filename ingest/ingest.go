// Package ingest orchestrates one billing file import: fetch the file from
// the blob store, convert each row, and write it to the ledger.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/billing"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/csvtobilling"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/rates"
	"go.uber.org/zap"
)

// BlobSource fetches the raw bytes of an object from a bucket.
type BlobSource interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// Ledger durably stores normalized billing records. Implementations are
// expected to insert-or-ignore on the record id, so reprocessing a file does
// not create duplicate entries.
type Ledger interface {
	Store(ctx context.Context, r billing.Record) error
}

// SkipReason classifies why a row was not written to the ledger.
type SkipReason string

// Skip reasons.
const (
	SkipFieldCount          SkipReason = "field_count"
	SkipBadAmount           SkipReason = "bad_amount"
	SkipUnsupportedCurrency SkipReason = "unsupported_currency"
	SkipStoreFailed         SkipReason = "store_failed"
)

// Skip records one skipped row. Row is 1-based and counts data rows, with
// the header excluded.
type Skip struct {
	Row    int
	Reason SkipReason
}

// Outcome summarizes one ingestion. An ingestion completes normally even
// when every row was skipped; only an unusable payload is fatal.
type Outcome struct {
	Stored  int
	Skipped []Skip
}

// Ingestor imports billing files into the ledger.
type Ingestor struct {
	source BlobSource
	ledger Ledger
	rates  rates.Table
	log    *zap.Logger
}

// New creates an Ingestor.
func New(source BlobSource, ledger Ledger, t rates.Table, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		source: source,
		ledger: ledger,
		rates:  t,
		log:    logger,
	}
}

// Ingest processes one billing file. Each data row is an independent insert
// attempt: a row that cannot be converted or stored is logged, counted in
// the Outcome, and skipped, and iteration continues with the next row. A
// non-nil error is returned only for fatal conditions - a missing bucket or
// key, or a payload that could not be fetched - in which case no rows were
// processed beyond the point of failure.
func (i *Ingestor) Ingest(ctx context.Context, bucket, key string) (Outcome, error) {
	var outcome Outcome
	if bucket == "" || key == "" {
		return outcome, fmt.Errorf("ingest: missing bucket or key in event")
	}
	logger := i.log.With(zap.String("bucket", bucket), zap.String("key", key))

	data, err := i.source.Fetch(ctx, bucket, key)
	if err != nil {
		return outcome, fmt.Errorf("ingest: failed to fetch %s/%s: %w", bucket, key, err)
	}

	conv, err := csvtobilling.NewConverter(csv.NewReader(bytes.NewReader(data)), i.rates)
	if err != nil {
		return outcome, fmt.Errorf("ingest: failed to read header: %w", err)
	}

	for row := 1; ; row++ {
		record, err := conv.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			reason, ok := classify(err)
			if !ok {
				return outcome, fmt.Errorf("ingest: row %d: %w", row, err)
			}
			logger.Warn("skipping row",
				zap.Int("row", row),
				zap.String("reason", string(reason)),
				zap.Error(err))
			outcome.Skipped = append(outcome.Skipped, Skip{Row: row, Reason: reason})
			continue
		}
		if err := i.ledger.Store(ctx, record); err != nil {
			logger.Error("failed to store record",
				zap.Int("row", row),
				zap.String("id", record.ID),
				zap.Error(err))
			outcome.Skipped = append(outcome.Skipped, Skip{Row: row, Reason: SkipStoreFailed})
			continue
		}
		outcome.Stored++
	}

	logger.Info("ingestion complete",
		zap.Int("stored", outcome.Stored),
		zap.Int("skipped", len(outcome.Skipped)))
	return outcome, nil
}

// classify maps a row conversion error to its skip reason. ok is false for
// errors that are not row-level, which abort the ingestion.
func classify(err error) (reason SkipReason, ok bool) {
	switch {
	case errors.Is(err, csv.ErrFieldCount):
		return SkipFieldCount, true
	case errors.Is(err, csvtobilling.ErrBadAmount):
		return SkipBadAmount, true
	case errors.Is(err, csvtobilling.ErrUnsupportedCurrency):
		return SkipUnsupportedCurrency, true
	}
	return "", false
}
