// Package dataset holds the immutable in-process snapshot of the persisted
// dataset. A snapshot is built once after ingestion (or on explicit reload),
// categorized and sorted at construction, and then shared by reference: all
// aggregation methods are read-only and safe to call concurrently.
package dataset

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bcnw/spendboard/pkg/categorize"
	"github.com/bcnw/spendboard/pkg/models"
)

// MonthAll is the sentinel filter value selecting the whole dataset.
const MonthAll = "All"

type Snapshot struct {
	transactions []models.Transaction
	loadedAt     time.Time
}

// New builds a snapshot from the persisted record set: every transaction is
// categorized from its description and the set is re-sorted by trans_date
// (stably, so same-day rows keep their statement order; dateless rows sink
// to the end).
func New(transactions []models.Transaction, categorizer *categorize.Categorizer) *Snapshot {
	txs := make([]models.Transaction, len(transactions))
	copy(txs, transactions)

	for i := range txs {
		txs[i].Category = categorizer.Categorize(txs[i].Description)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i].TransDate, txs[j].TransDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return &Snapshot{transactions: txs, loadedAt: time.Now()}
}

func (s *Snapshot) Len() int            { return len(s.transactions) }
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

func monthMatches(t *models.Transaction, month string) bool {
	return month == "" || month == MonthAll || t.MonthKey() == month
}

// Transactions returns the rows for the given month filter, in date order.
func (s *Snapshot) Transactions(month string) []models.Transaction {
	out := make([]models.Transaction, 0, len(s.transactions))
	for i := range s.transactions {
		if monthMatches(&s.transactions[i], month) {
			out = append(out, s.transactions[i])
		}
	}
	return out
}

// Months lists the distinct month-year keys present in the data, newest
// first, for the dashboard's filter selector.
func (s *Snapshot) Months() []string {
	seen := make(map[string]struct{})
	var months []string
	for i := range s.transactions {
		key := s.transactions[i].MonthKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			months = append(months, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// CategoryTotals sums debits per category for the filtered set, descending
// by total.
func (s *Snapshot) CategoryTotals(month string) []models.CategorySummary {
	totals := make(map[string]decimal.Decimal)
	for i := range s.transactions {
		t := &s.transactions[i]
		if monthMatches(t, month) {
			totals[t.Category] = totals[t.Category].Add(t.Debit)
		}
	}

	out := make([]models.CategorySummary, 0, len(totals))
	for category, total := range totals {
		out = append(out, models.CategorySummary{Category: category, TotalDebit: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalDebit.Cmp(out[j].TotalDebit); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ChannelTotals sums debits per channel for the filtered set, descending by
// total.
func (s *Snapshot) ChannelTotals(month string) []models.ChannelSummary {
	totals := make(map[string]decimal.Decimal)
	for i := range s.transactions {
		t := &s.transactions[i]
		if monthMatches(t, month) {
			totals[t.Channel] = totals[t.Channel].Add(t.Debit)
		}
	}

	out := make([]models.ChannelSummary, 0, len(totals))
	for channel, total := range totals {
		out = append(out, models.ChannelSummary{Channel: channel, TotalDebit: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalDebit.Cmp(out[j].TotalDebit); c != 0 {
			return c > 0
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

// MonthlyTrend sums debits and credits per month-year over the whole
// dataset, ascending by key. Rows without a trans_date are excluded.
func (s *Snapshot) MonthlyTrend() []models.TrendPoint {
	byMonth := make(map[string]*models.TrendPoint)
	for i := range s.transactions {
		t := &s.transactions[i]
		key := t.MonthKey()
		if key == "" {
			continue
		}
		point, ok := byMonth[key]
		if !ok {
			point = &models.TrendPoint{Month: key}
			byMonth[key] = point
		}
		point.Debit = point.Debit.Add(t.Debit)
		point.Credit = point.Credit.Add(t.Credit)
	}

	out := make([]models.TrendPoint, 0, len(byMonth))
	for _, point := range byMonth {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// SavingsNet reports all savings activity. It is always computed over the
// entire dataset, independent of any month filter: total saved is an
// all-time metric.
func (s *Snapshot) SavingsNet() models.SavingsSummary {
	summary := models.SavingsSummary{}
	for i := range s.transactions {
		t := &s.transactions[i]
		if t.Category != categorize.Savings {
			continue
		}
		summary.MovedIn = summary.MovedIn.Add(t.Debit)
		summary.Withdrawn = summary.Withdrawn.Add(t.Credit)
		summary.Transactions = append(summary.Transactions, *t)
	}
	summary.Net = summary.MovedIn.Sub(summary.Withdrawn)
	return summary
}

// KPIs computes the dashboard headline numbers for the given month filter.
// TotalSaved ignores the filter by design.
func (s *Snapshot) KPIs(month string) models.KPI {
	kpi := models.KPI{}
	for i := range s.transactions {
		t := &s.transactions[i]
		if monthMatches(t, month) {
			kpi.TotalSpent = kpi.TotalSpent.Add(t.Debit)
			kpi.TotalIncome = kpi.TotalIncome.Add(t.Credit)
		}
	}
	kpi.NetFlow = kpi.TotalIncome.Sub(kpi.TotalSpent)
	kpi.TotalSaved = s.SavingsNet().Net
	return kpi
}
