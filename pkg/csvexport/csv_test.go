package csvexport

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bcnw/spendboard/pkg/models"
)

func TestBytes(t *testing.T) {
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	ref := "REF001"
	txs := []models.Transaction{
		{
			TransDate:   &day,
			Description: "POS Purchase, with comma",
			Debit:       decimal.RequireFromString("1234.56"),
			Balance:     decimal.NullDecimal{Decimal: decimal.RequireFromString("10000"), Valid: true},
			Channel:     "POS",
			Reference:   &ref,
			Category:    "Cash Withdrawal",
		},
		{
			Description: "dateless and nulls",
			Channel:     "UNKNOWN",
			Category:    "Other",
		},
	}

	data, err := Bytes(txs)
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	first := records[1]
	if first[0] != "2025-10-01" || first[2] != "POS Purchase, with comma" || first[3] != "1234.56" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[9] != "Cash Withdrawal" {
		t.Errorf("expected category column, got %q", first[9])
	}

	second := records[2]
	if second[0] != "" || second[1] != "" || second[5] != "" || second[7] != "" {
		t.Errorf("null fields should render empty, got %v", second)
	}
	if second[3] != "0" || second[4] != "0" {
		t.Errorf("zero amounts should render as 0, got debit=%q credit=%q", second[3], second[4])
	}
}
