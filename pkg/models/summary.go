package models

import "github.com/shopspring/decimal"

// CategorySummary is the aggregated debit total for one spending category.
type CategorySummary struct {
	Category   string          `json:"category"`
	TotalDebit decimal.Decimal `json:"total_debit"`
}

// ChannelSummary is the aggregated debit total for one transaction channel.
type ChannelSummary struct {
	Channel    string          `json:"channel"`
	TotalDebit decimal.Decimal `json:"total_debit"`
}

// TrendPoint is one month-year bucket of the monthly debit/credit trend.
type TrendPoint struct {
	Month  string          `json:"month"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// KPI carries the headline numbers for the dashboard. TotalSaved is an
// all-time figure, the rest respect the active month filter.
type KPI struct {
	TotalSpent  decimal.Decimal `json:"total_spent"`
	TotalIncome decimal.Decimal `json:"total_income"`
	NetFlow     decimal.Decimal `json:"net_flow"`
	TotalSaved  decimal.Decimal `json:"total_saved"`
}

// SavingsSummary describes all savings activity over the whole dataset:
// money moved into savings (debits), money withdrawn back (credits), and
// the net of the two.
type SavingsSummary struct {
	MovedIn      decimal.Decimal `json:"moved_in"`
	Withdrawn    decimal.Decimal `json:"withdrawn"`
	Net          decimal.Decimal `json:"net"`
	Transactions []Transaction   `json:"transactions"`
}
