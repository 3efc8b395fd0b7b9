package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// delimiterCandidates, most common first. The comma default survives a
// tie.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// readDelimited parses delimited text into a string matrix. Encodings
// seen in the wild are UTF-8 (optionally with BOM) and Windows-1251;
// bytes that are not valid UTF-8 are re-decoded as cp1251 before
// parsing.
func readDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("readDelimited: decode cp1251: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // banner rows are ragged

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("readDelimited: parse: %w", err)
	}
	return rows, nil
}

// sniffDelimiter counts candidate delimiters over the leading lines and
// picks the most frequent one.
func sniffDelimiter(data []byte) rune {
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	lines := strings.SplitN(string(sample), "\n", 11)
	if len(lines) > 10 {
		lines = lines[:10]
	}
	head := strings.Join(lines, "\n")

	best, bestCount := ',', 0
	for _, c := range delimiterCandidates {
		if n := strings.Count(head, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
