package report

import (
	"fmt"
	"strings"

	"github.com/qx/budget_robot/api/internal/model"
	"github.com/shopspring/decimal"
)

const NoPriorData = "ℹ️ No data for the previous month to compare with."

const (
	arrowUp   = "🔺"
	arrowDown = "🔻"
)

// Delta 当前值相对上月的变化
type Delta struct {
	Current  decimal.Decimal
	Previous decimal.Decimal
	Absolute decimal.Decimal
	Percent  float64
}

func NewDelta(current, previous decimal.Decimal) Delta {
	diff := current.Sub(previous)
	return Delta{
		Current:  current,
		Previous: previous,
		Absolute: diff,
		Percent:  Percent(diff, previous),
	}
}

func (d Delta) Up() bool {
	return d.Absolute.Sign() >= 0
}

func (d Delta) Arrow() string {
	if d.Up() {
		return arrowUp
	}
	return arrowDown
}

// Comparison 当前区间与上月快照的对比结果
type Comparison struct {
	HasPrior bool

	Income   Delta
	Expense  Delta
	AvgDaily Delta

	CurrentTop     CategoryShare
	HasCurrentTop  bool
	PreviousTop    string
	PreviousTopPct float64
}

// Compare prev 为 nil 表示没有上月数据，此时不计算任何差值
func Compare(cur *Aggregate, prev *model.MonthlySnapshot) Comparison {
	if prev == nil {
		return Comparison{}
	}

	c := Comparison{
		HasPrior: true,
		Income:   NewDelta(cur.TotalIncome, prev.TotalIncome),
		Expense:  NewDelta(cur.TotalExpense, prev.TotalExpense),
		AvgDaily: NewDelta(cur.AvgDailyExpense(), prev.AvgDailyExpense),
	}
	c.CurrentTop, c.HasCurrentTop = cur.TopExpense()
	if prev.TopCategory.Valid {
		c.PreviousTop = prev.TopCategory.String
	}
	c.PreviousTopPct = prev.TopCategoryPct

	return c
}

// TopChanged 上月最大支出分类为空或与本月不同
func (c Comparison) TopChanged() bool {
	return c.PreviousTop == "" || c.PreviousTop != c.CurrentTop.Name
}

func (c Comparison) Text(currency string) string {
	if !c.HasPrior {
		return NoPriorData
	}

	var sb strings.Builder
	sb.WriteString("📊 Compared with the previous month:\n")
	sb.WriteString(deltaLine("Income", c.Income, currency))
	sb.WriteString(deltaLine("Expenses", c.Expense, currency))
	sb.WriteString(deltaLine("Avg daily expense", c.AvgDaily, currency))

	switch {
	case !c.HasCurrentTop && c.PreviousTop == "":
		sb.WriteString("🏷️ Top category: none\n")
	case !c.HasCurrentTop:
		sb.WriteString(fmt.Sprintf("🏷️ Top category: none (previously %s, %.1f%%)\n", c.PreviousTop, c.PreviousTopPct))
	case c.TopChanged():
		previous := "none"
		if c.PreviousTop != "" {
			previous = fmt.Sprintf("%s, %.1f%%", c.PreviousTop, c.PreviousTopPct)
		}
		sb.WriteString(fmt.Sprintf("🏷️ Top category: %s %s %s (%.1f%%), previously %s\n",
			c.CurrentTop.Name, c.CurrentTop.Amount.StringFixed(2), currency, c.CurrentTop.Percent, previous))
	default:
		sb.WriteString(fmt.Sprintf("🏷️ Top category unchanged: %s (previously %.1f%%)\n", c.PreviousTop, c.PreviousTopPct))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func deltaLine(label string, d Delta, currency string) string {
	return fmt.Sprintf("%s: %s %s %s (%+.1f%%)\n", label, d.Arrow(), signed(d.Absolute), currency, d.Percent)
}

func signed(d decimal.Decimal) string {
	if d.Sign() >= 0 {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
