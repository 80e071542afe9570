// Package csvtobilling converts billing CSV rows to ledger records.
package csvtobilling

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/billing"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/rates"
)

// ErrBadAmount is returned when the bill amount field of a row is not
// numeric.
var ErrBadAmount = errors.New("csvtobilling: bill amount is not numeric")

// ErrUnsupportedCurrency is returned when a row's currency code has no entry
// in the rate table. Rows in unsupported currencies are never written to the
// ledger.
var ErrUnsupportedCurrency = errors.New("csvtobilling: unsupported currency")

// Converter converts billing CSV rows to normalized records.
type Converter struct {
	r     *csv.Reader
	rates rates.Table
}

// NewConverter creates a CSV to billing record converter. The first row of
// the input is a header and is discarded whatever it contains. An input with
// no rows at all is valid and yields io.EOF from the first Read.
func NewConverter(r *csv.Reader, t rates.Table) (*Converter, error) {
	c := &Converter{
		r:     r,
		rates: t,
	}
	err := c.init()
	return c, err
}

func (c *Converter) init() error {
	// The header's own width must not constrain data rows.
	c.r.FieldsPerRecord = -1
	if _, err := c.r.Read(); err != nil {
		// io.EOF here means a completely empty file, which is handled by
		// the first Read rather than treated as a setup failure.
		c.r.FieldsPerRecord = billing.FieldCount
		return nil
	}
	c.r.FieldsPerRecord = billing.FieldCount
	return nil
}

// Read converts the next data row. It returns io.EOF at the end of input.
// Row-level problems are reported as errors scoped to that row only and do
// not invalidate the Converter: a csv.ErrFieldCount parse error for a row
// without exactly 9 fields, ErrBadAmount, or ErrUnsupportedCurrency.
func (c *Converter) Read() (billing.Record, error) {
	row, err := c.r.Read()
	if err != nil {
		return billing.Record{}, err
	}
	return c.convert(row)
}

func (c *Converter) convert(row []string) (billing.Record, error) {
	amount, err := strconv.ParseFloat(row[8], 64)
	if err != nil {
		return billing.Record{}, fmt.Errorf("%w: %q", ErrBadAmount, row[8])
	}
	currency := row[7]
	usd, ok := c.rates.Convert(amount, currency)
	if !ok {
		return billing.Record{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
	return billing.Record{
		ID:            row[0],
		CompanyName:   row[1],
		Country:       row[2],
		City:          row[3],
		ProductLine:   row[4],
		Item:          row[5],
		BillDate:      row[6],
		Currency:      currency,
		BillAmount:    amount,
		BillAmountUSD: usd,
	}, nil
}
