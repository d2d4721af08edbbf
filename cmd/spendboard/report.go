package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bcnw/spendboard/pkg/dataset"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	spentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// printReport renders the dashboard KPIs and category breakdown as a
// terminal report.
func printReport(snap *dataset.Snapshot, month string) {
	if snap.Len() == 0 {
		fmt.Println(mutedStyle.Render("No transactions ingested yet."))
		return
	}

	kpi := snap.KPIs(month)
	fmt.Println(headingStyle.Render(fmt.Sprintf("Spending summary (%s)", month)))
	fmt.Printf("  %s ₦%s\n", spentStyle.Render("Total spent: "), kpi.TotalSpent.StringFixed(2))
	fmt.Printf("  %s ₦%s\n", incomeStyle.Render("Total income:"), kpi.TotalIncome.StringFixed(2))
	fmt.Printf("  Net flow:      ₦%s\n", kpi.NetFlow.StringFixed(2))
	fmt.Printf("  Saved all-time: ₦%s\n", kpi.TotalSaved.StringFixed(2))

	fmt.Println()
	fmt.Println(headingStyle.Render("Spending by category"))
	for _, c := range snap.CategoryTotals(month) {
		fmt.Printf("  %-20s ₦%s\n", c.Category, c.TotalDebit.StringFixed(2))
	}

	savings := snap.SavingsNet()
	fmt.Println()
	if len(savings.Transactions) == 0 {
		fmt.Println(mutedStyle.Render("No savings transactions found yet."))
		return
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf(
		"Moved ₦%s into savings, withdrew ₦%s (%d transactions)",
		savings.MovedIn.StringFixed(2), savings.Withdrawn.StringFixed(2), len(savings.Transactions))))
}
