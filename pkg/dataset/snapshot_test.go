package dataset

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bcnw/spendboard/pkg/categorize"
	"github.com/bcnw/spendboard/pkg/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testSnapshot() *Snapshot {
	txs := []models.Transaction{
		{TransDate: date(2025, 9, 3), Description: "Transfer to John", Debit: amount("300"), Channel: "TRANSFER"},
		{TransDate: date(2025, 9, 1), Description: "POS Purchase at Shoprite", Debit: amount("100"), Channel: "POS"},
		{TransDate: date(2025, 10, 2), Description: "Monthly Auto-Save to PiggyVest", Debit: amount("100"), Channel: "TRANSFER"},
		{TransDate: date(2025, 10, 5), Description: "PiggyVest withdrawal to wallet", Credit: amount("40"), Channel: "TRANSFER"},
		{TransDate: date(2025, 10, 9), Description: "Salary", Credit: amount("1000"), Channel: "TRANSFER"},
		{TransDate: nil, Description: "dateless row", Debit: amount("5"), Channel: "UNKNOWN"},
	}
	return New(txs, categorize.New())
}

func TestNewSortsAndCategorizes(t *testing.T) {
	s := testSnapshot()

	all := s.Transactions(MonthAll)
	if len(all) != 6 {
		t.Fatalf("expected 6 transactions, got %d", len(all))
	}
	if all[0].Description != "POS Purchase at Shoprite" {
		t.Errorf("expected earliest transaction first, got %q", all[0].Description)
	}
	if all[len(all)-1].TransDate != nil {
		t.Errorf("expected dateless rows last")
	}
	if all[0].Category != "Cash Withdrawal" {
		t.Errorf("expected categorized rows, got %q", all[0].Category)
	}
}

func TestMonths(t *testing.T) {
	months := testSnapshot().Months()
	want := []string{"2025-10", "2025-09"}
	if len(months) != len(want) {
		t.Fatalf("expected %v, got %v", want, months)
	}
	for i := range want {
		if months[i] != want[i] {
			t.Errorf("expected months %v (newest first), got %v", want, months)
			break
		}
	}
}

func TestTransactionsMonthFilter(t *testing.T) {
	s := testSnapshot()
	if got := len(s.Transactions("2025-09")); got != 2 {
		t.Errorf("expected 2 transactions in 2025-09, got %d", got)
	}
	if got := len(s.Transactions("")); got != 6 {
		t.Errorf("empty filter should select everything, got %d", got)
	}
	if got := len(s.Transactions("2024-01")); got != 0 {
		t.Errorf("expected no transactions in 2024-01, got %d", got)
	}
}

func TestCategoryTotalsDescending(t *testing.T) {
	totals := testSnapshot().CategoryTotals(MonthAll)
	if len(totals) == 0 {
		t.Fatal("expected category totals")
	}
	for i := 1; i < len(totals); i++ {
		if totals[i].TotalDebit.GreaterThan(totals[i-1].TotalDebit) {
			t.Errorf("totals not descending: %s=%s after %s=%s",
				totals[i].Category, totals[i].TotalDebit,
				totals[i-1].Category, totals[i-1].TotalDebit)
		}
	}
	if totals[0].Category != "Transfers" || !totals[0].TotalDebit.Equal(amount("300")) {
		t.Errorf("expected Transfers=300 on top, got %s=%s", totals[0].Category, totals[0].TotalDebit)
	}
}

func TestChannelTotals(t *testing.T) {
	totals := testSnapshot().ChannelTotals("2025-09")
	byChannel := make(map[string]decimal.Decimal)
	for _, c := range totals {
		byChannel[c.Channel] = c.TotalDebit
	}
	if !byChannel["TRANSFER"].Equal(amount("300")) {
		t.Errorf("TRANSFER total = %s, want 300", byChannel["TRANSFER"])
	}
	if !byChannel["POS"].Equal(amount("100")) {
		t.Errorf("POS total = %s, want 100", byChannel["POS"])
	}
}

func TestMonthlyTrendAscending(t *testing.T) {
	trend := testSnapshot().MonthlyTrend()
	if len(trend) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(trend))
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].Month <= trend[i-1].Month {
			t.Errorf("trend keys not strictly ascending: %s after %s", trend[i].Month, trend[i-1].Month)
		}
	}
	if trend[0].Month != "2025-09" || !trend[0].Debit.Equal(amount("400")) {
		t.Errorf("unexpected first trend point: %+v", trend[0])
	}
	if !trend[1].Credit.Equal(amount("1040")) {
		t.Errorf("2025-10 credit = %s, want 1040", trend[1].Credit)
	}
}

func TestSavingsNet(t *testing.T) {
	savings := testSnapshot().SavingsNet()
	if !savings.MovedIn.Equal(amount("100")) {
		t.Errorf("moved in = %s, want 100", savings.MovedIn)
	}
	if !savings.Withdrawn.Equal(amount("40")) {
		t.Errorf("withdrawn = %s, want 40", savings.Withdrawn)
	}
	if !savings.Net.Equal(amount("60")) {
		t.Errorf("net = %s, want 60", savings.Net)
	}
	if len(savings.Transactions) != 2 {
		t.Errorf("expected 2 savings transactions, got %d", len(savings.Transactions))
	}
}

// Total saved stays an all-time figure even when the KPI set is filtered to
// a month with no savings activity.
func TestKPIs(t *testing.T) {
	s := testSnapshot()

	september := s.KPIs("2025-09")
	if !september.TotalSpent.Equal(amount("400")) {
		t.Errorf("september spent = %s, want 400", september.TotalSpent)
	}
	if !september.TotalIncome.IsZero() {
		t.Errorf("september income = %s, want 0", september.TotalIncome)
	}
	if !september.NetFlow.Equal(amount("-400")) {
		t.Errorf("september net flow = %s, want -400", september.NetFlow)
	}
	if !september.TotalSaved.Equal(amount("60")) {
		t.Errorf("september total saved = %s, want all-time 60", september.TotalSaved)
	}

	all := s.KPIs(MonthAll)
	if !all.TotalSpent.Equal(amount("505")) {
		t.Errorf("all-time spent = %s, want 505", all.TotalSpent)
	}
	if !all.TotalIncome.Equal(amount("1040")) {
		t.Errorf("all-time income = %s, want 1040", all.TotalIncome)
	}
}

func TestEmptySnapshot(t *testing.T) {
	s := New(nil, categorize.New())
	if s.Len() != 0 {
		t.Errorf("expected empty snapshot")
	}
	if months := s.Months(); len(months) != 0 {
		t.Errorf("expected no months, got %v", months)
	}
	savings := s.SavingsNet()
	if !savings.Net.IsZero() || len(savings.Transactions) != 0 {
		t.Errorf("expected zero savings summary, got %+v", savings)
	}
}
