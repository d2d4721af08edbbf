package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChannelUnknown is the normalized channel for rows whose channel column is
// missing or unreadable.
const ChannelUnknown = "UNKNOWN"

// Transaction is the canonical, normalized record for a single bank
// statement row. It is created once per ingestion run and never mutated
// afterwards; Category is derived from the description at read time and is
// not part of the persisted relation.
type Transaction struct {
	TransDate    *time.Time          `json:"trans_date"`
	ValueDate    *time.Time          `json:"value_date"`
	Description  string              `json:"description"`
	Debit        decimal.Decimal     `json:"debit"`
	Credit       decimal.Decimal     `json:"credit"`
	Balance      decimal.NullDecimal `json:"balance"`
	Channel      string              `json:"channel"`
	Reference    *string             `json:"transaction_reference"`
	Counterparty *string             `json:"counterparty"`
	Category     string              `json:"category,omitempty"`
}

// MonthKey buckets the transaction by its trans_date as a YYYY-MM string.
// Rows without a parseable trans_date return the empty string and are left
// out of month-based aggregations.
func (t *Transaction) MonthKey() string {
	if t.TransDate == nil {
		return ""
	}
	return t.TransDate.Format("2006-01")
}
