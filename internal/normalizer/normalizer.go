package normalizer

import "strings"

// Normalize turns a raw row/column matrix into the canonical record
// sequence: locate the header row, map its labels onto detection keys,
// then decode every row below it. The matrix must contain all source
// rows, banner rows included. Rows where date, purpose and amount all
// come out empty are dropped; everything else is emitted in source order.
//
// No failure in here is fatal: unparseable cells become empty fields,
// unmapped keys leave their column empty, and an empty matrix yields an
// empty sequence.
func Normalize(matrix [][]string) []Record {
	return NormalizeWithScanLimit(matrix, DefaultScanLimit)
}

// NormalizeWithScanLimit is Normalize with an explicit header scan bound.
func NormalizeWithScanLimit(matrix [][]string, scanLimit int) []Record {
	if len(matrix) == 0 {
		return nil
	}
	headerRow := LocateHeader(matrix, scanLimit)
	cols := MapColumns(matrix[headerRow])

	data := matrix[headerRow+1:]
	records := make([]Record, 0, len(data))
	for _, row := range data {
		rec, ok := normalizeRow(row, cols)
		if ok {
			records = append(records, rec)
		}
	}
	return records
}

func normalizeRow(row []string, cols ColumnMap) (Record, bool) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	// Amount comes from the single signed column when present, otherwise
	// from debit minus credit. The fallback also covers a mapped amount
	// column whose cell failed to decode.
	var amount *float64
	if v, ok := DecodeAmount(get(cols[KeyAmount])); ok {
		amount = &v
	}
	if amount == nil {
		debit, dok := DecodeAmount(get(cols[KeyDebit]))
		credit, cok := DecodeAmount(get(cols[KeyCredit]))
		if dok || cok {
			v := debit - credit
			amount = &v
		}
	}

	rec := Record{
		Date:     DecodeDate(get(cols[KeyDate])),
		Amount:   amount,
		Payer:    get(cols[KeyPayer]),
		INN:      digitsOnly(get(cols[KeyINN])),
		Purpose:  get(cols[KeyPurpose]),
		Receiver: get(cols[KeyReceiver]),
	}
	if rec.Date == "" && rec.Purpose == "" && rec.Amount == nil {
		return Record{}, false
	}
	return rec, true
}
