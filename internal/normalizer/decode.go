package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonAmountChars = regexp.MustCompile(`[^0-9.+\-]`)
	nonDigits      = regexp.MustCompile(`\D+`)
)

// dateLayouts is tried in order. Day-first layouts come before ISO and
// month-first ones, matching the locale convention of the supported
// exports: an ambiguous 05/06/2023 reads as the 5th of June.
var dateLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/1/2",
	"1/2/2006",
	"2.1.06",
	"2/1/06",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// DecodeAmount converts locale-punctuated money text into a number.
// Non-breaking and plain spaces are stripped; a single comma with no
// period is treated as the decimal separator; everything outside digits,
// period and sign is discarded before parsing. Returns false for input
// with no parseable amount. This is a lossy best-effort conversion, not
// a validator.
func DecodeAmount(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = nonAmountChars.ReplaceAllString(s, "")
	switch s {
	case "", ".", "-", "+":
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// DecodeDate parses calendar-date text with day-before-month precedence
// and formats it as YYYY-MM-DD. Blank or unparseable input yields the
// empty string; a bad date never fails the record.
func DecodeDate(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// digitsOnly strips every non-digit character, tolerating embedded
// separators or labels around tax numbers.
func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
