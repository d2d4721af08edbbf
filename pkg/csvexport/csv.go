// Package csvexport renders a transaction set as CSV for the dashboard's
// download button.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/bcnw/spendboard/pkg/models"
)

var header = []string{
	"trans_date", "value_date", "description", "debit", "credit",
	"balance", "channel", "transaction_reference", "counterparty", "category",
}

// Write streams the transactions as CSV. Null fields render as empty
// strings and dates as YYYY-MM-DD.
func Write(w io.Writer, transactions []models.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}

	for i := range transactions {
		t := &transactions[i]
		balance := ""
		if t.Balance.Valid {
			balance = t.Balance.Decimal.String()
		}
		record := []string{
			formatDate(t.TransDate),
			formatDate(t.ValueDate),
			t.Description,
			t.Debit.String(),
			t.Credit.String(),
			balance,
			t.Channel,
			deref(t.Reference),
			deref(t.Counterparty),
			t.Category,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing transaction: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Bytes renders the transactions to an in-memory CSV document.
func Bytes(transactions []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, transactions); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
