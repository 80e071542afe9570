// Package billing defines the normalized billing record written to the
// ledger.
package billing

// FieldCount is the number of fields in a billing CSV data row. The fields
// are, in order: id, company name, country, city, product line, item, bill
// date, currency code, bill amount.
const FieldCount = 9

// Record is one normalized billing row. BillAmount is in the row's original
// currency, BillAmountUSD is the amount converted to USD. BillDate is
// ISO-8601 date text, passed through from the file unvalidated.
type Record struct {
	ID            string  `json:"id"`
	CompanyName   string  `json:"company_name"`
	Country       string  `json:"country"`
	City          string  `json:"city"`
	ProductLine   string  `json:"product_line"`
	Item          string  `json:"item"`
	BillDate      string  `json:"bill_date"`
	Currency      string  `json:"currency"`
	BillAmount    float64 `json:"bill_amount"`
	BillAmountUSD float64 `json:"bill_amount_usd"`
}
