package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const topCategories = 3

// Summary 月度文字报告
func Summary(agg *Aggregate, cmp Comparison, currency string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📅 Report for %s\n\n", agg.Period))
	sb.WriteString(fmt.Sprintf("💰 Income: %s %s\n", agg.TotalIncome.StringFixed(2), currency))
	sb.WriteString(fmt.Sprintf("💸 Expenses: %s %s\n", agg.TotalExpense.StringFixed(2), currency))
	sb.WriteString(fmt.Sprintf("💵 Balance: %s %s\n", agg.Balance().StringFixed(2), currency))
	sb.WriteString(fmt.Sprintf("🏦 Savings: %.1f%%\n\n", agg.SavingsPercent()))

	sb.WriteString(cmp.Text(currency))
	sb.WriteString("\n\n")

	writeTop(&sb, "🔝 Top expenses:", agg.CategoryExpenses, agg.TotalExpense, currency)
	writeTop(&sb, "🔝 Top incomes:", agg.CategoryIncomes, agg.TotalIncome, currency)

	sb.WriteString(fmt.Sprintf("📉 Avg daily expense: %s %s\n", agg.AvgDailyExpense().StringFixed(2), currency))
	sb.WriteString(fmt.Sprintf("💱 Avg USD: %.2f, avg EUR: %.2f", agg.AvgUSD, agg.AvgEUR))

	return sb.String()
}

func writeTop(sb *strings.Builder, title string, amounts map[string]decimal.Decimal, total decimal.Decimal, currency string) {
	sb.WriteString(title)
	sb.WriteString("\n")

	top := TopN(amounts, total, topCategories)
	if len(top) == 0 {
		sb.WriteString("  none\n\n")
		return
	}

	for i, share := range top {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s %s (%.1f%%)\n", i+1, share.Name, share.Amount.StringFixed(2), currency, share.Percent))
	}
	sb.WriteString("\n")
}

// Totals 区间汇总报告使用的简短文字
func Totals(agg *Aggregate, currency string) string {
	return fmt.Sprintf("📑 Summary for %s\n💰 Income: %s %s\n💸 Expenses: %s %s\n💵 Balance: %s %s",
		agg.Period,
		agg.TotalIncome.StringFixed(2), currency,
		agg.TotalExpense.StringFixed(2), currency,
		agg.Balance().StringFixed(2), currency)
}
