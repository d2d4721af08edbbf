// Package normalize cleans raw statement cell values into typed fields.
// Malformed amounts become zero and malformed dates become nil rather than
// errors, so one bad cell never aborts an ingestion run.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bcnw/spendboard/pkg/models"
)

// cleanAmount strips whitespace, thousands separators and currency glyphs,
// leaving only the sign and digits for parsing.
func cleanAmount(raw string) string {
	s := strings.TrimSpace(raw)
	for _, glyph := range []string{",", "₦", "$", "€", "£", " "} {
		s = strings.ReplaceAll(s, glyph, "")
	}
	return s
}

// ExtractDebit returns the magnitude of a "-"-prefixed amount string. Any
// other value, including unsigned and unparseable ones, yields zero.
func ExtractDebit(raw string) decimal.Decimal {
	v := cleanAmount(raw)
	if !strings.HasPrefix(v, "-") {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// ExtractCredit returns the magnitude of a "+"-prefixed amount string. Any
// other value, including unsigned and unparseable ones, yields zero.
func ExtractCredit(raw string) decimal.Decimal {
	v := cleanAmount(raw)
	if !strings.HasPrefix(v, "+") {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(v, "+"))
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// Amount parses a cell from a dedicated debit or credit column, where the
// sign carries no meaning. Unparseable values yield zero.
func Amount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(cleanAmount(raw))
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// Balance parses a running-balance cell into a nullable decimal.
func Balance(raw string) decimal.NullDecimal {
	v := cleanAmount(raw)
	if v == "" || strings.EqualFold(v, "nan") {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// dateLayouts lists the representations seen across export versions, tried
// in order. ISO first since that is what current exports produce.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2-Jan-06",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// excelEpoch is day zero of the 1900 date system used by numeric serial
// cells (1899-12-30 accounts for the Lotus leap-year bug).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Date parses a date cell in any accepted representation, including Excel
// numeric serials. Failure is recorded as nil, not an error, since
// historical exports contain rows with missing dates.
func Date(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 400000 {
		t := excelEpoch.AddDate(0, 0, int(serial))
		return &t
	}
	return nil
}

// Channel uppercases and trims a channel cell. Empty cells and the string
// "NAN" that spreadsheet readers emit for missing values become UNKNOWN.
func Channel(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" || c == "NAN" {
		return models.ChannelUnknown
	}
	return c
}
