// Package normalizer turns a raw bank-statement cell matrix into the
// canonical six-column record stream: date, amount, payer, inn, purpose,
// receiver. It locates the real header row inside noisy sheet content,
// maps arbitrary multi-language column labels onto the canonical schema,
// and reconciles the two common amount conventions (single signed column
// vs. paired debit/credit columns).
package normalizer

import "regexp"

// Key identifies one detection key recognized during header matching.
// Six keys are canonical output fields; debit and credit are intermediate
// keys used only for amount derivation.
type Key string

const (
	KeyDate     Key = "date"
	KeyAmount   Key = "amount"
	KeyDebit    Key = "debit"
	KeyCredit   Key = "credit"
	KeyPayer    Key = "payer"
	KeyINN      Key = "inn"
	KeyPurpose  Key = "purpose"
	KeyReceiver Key = "receiver"
)

// CanonicalFields is the fixed output column order.
var CanonicalFields = []string{"date", "amount", "payer", "inn", "purpose", "receiver"}

// aliasRule ties a detection key to the pattern that recognizes its
// header labels across the supported languages (Russian, English, Kazakh).
type aliasRule struct {
	key     Key
	pattern *regexp.Regexp
}

// vocabulary is evaluated in declaration order. When a label matches
// several keys, each matching key that is still unassigned takes the
// column, so declaration order decides overlaps. Keep this order stable.
var vocabulary = []aliasRule{
	{KeyDate, regexp.MustCompile(`(?i)(дата|date|валютир|операц|к?үні)`)},
	{KeyAmount, regexp.MustCompile(`(?i)(сумм|amount|итого|total)`)},
	{KeyDebit, regexp.MustCompile(`(?i)(дебет|приход|debet|debit|incoming)`)},
	{KeyCredit, regexp.MustCompile(`(?i)(кредит|расход|credit|outgoing)`)},
	{KeyPayer, regexp.MustCompile(`(?i)(плательщ|отправител|контрагент|sender|жөнелтуш|payer)`)},
	// Go's \b is ASCII-only and never fires between Cyrillic letters, so
	// the whole-word requirement is spelled out with explicit boundaries.
	{KeyINN, regexp.MustCompile(`(?i)(^|[^\pL\pN])(инн|бин|inn|iin|tin|vat|tax)([^\pL\pN]|$)`)},
	{KeyPurpose, regexp.MustCompile(`(?i)(назнач|purpose|описан|comment|коммент|төлем|details|reference)`)},
	{KeyReceiver, regexp.MustCompile(`(?i)(получател|receiver|beneficiar|наш.?счет|account name)`)},
}
