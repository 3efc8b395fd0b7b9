package normalizer

import "strconv"

// Record is one normalized statement line in the canonical six-column
// schema. Amount is nil when no amount could be resolved for the row.
type Record struct {
	Date     string // YYYY-MM-DD, or empty
	Amount   *float64
	Payer    string
	INN      string // digits only
	Purpose  string
	Receiver string
}

// AmountString renders the amount in plain decimal form, empty when absent.
func (r Record) AmountString() string {
	if r.Amount == nil {
		return ""
	}
	return strconv.FormatFloat(*r.Amount, 'f', -1, 64)
}

// Fields returns the record values in canonical column order.
func (r Record) Fields() []string {
	return []string{r.Date, r.AmountString(), r.Payer, r.INN, r.Purpose, r.Receiver}
}
