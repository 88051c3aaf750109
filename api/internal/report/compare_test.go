package report

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/qx/budget_robot/api/internal/model"
	"github.com/shopspring/decimal"
)

func aggregateWith(income, expense string, categories map[string]string) *Aggregate {
	agg := NewAggregate(may2025())
	agg.TotalIncome = dec(income)
	agg.TotalExpense = dec(expense)
	for name, amount := range categories {
		agg.CategoryExpenses[name] = dec(amount)
	}
	return agg
}

func TestCompareWithoutPrior(t *testing.T) {
	c := Compare(aggregateWith("10", "5", nil), nil)

	if c.HasPrior {
		t.Fatalf("expected no prior data")
	}
	if got := c.Text("UAH"); got != NoPriorData {
		t.Fatalf("Text() = %q, want sentinel", got)
	}
	if !c.Income.Absolute.IsZero() || c.Income.Percent != 0 {
		t.Fatalf("deltas must not be computed: %+v", c.Income)
	}
}

func TestCompareZeroPrevious(t *testing.T) {
	prev := &model.MonthlySnapshot{YearMonth: "2025-04"}
	c := Compare(aggregateWith("5", "0", nil), prev)

	if !c.Income.Absolute.Equal(dec("5")) {
		t.Fatalf("delta = %v, want 5", c.Income.Absolute)
	}
	if c.Income.Percent != 0 {
		t.Fatalf("percent = %v, want 0", c.Income.Percent)
	}
	if !c.Income.Up() {
		t.Fatalf("positive delta must point up")
	}
}

func TestCompareDeltas(t *testing.T) {
	prev := &model.MonthlySnapshot{
		TotalIncome:     dec("800"),
		TotalExpense:    dec("300"),
		AvgDailyExpense: dec("10"),
		TopCategory:     sql.NullString{String: "Food", Valid: true},
		TopCategoryPct:  55.5,
	}
	c := Compare(aggregateWith("1000", "150", map[string]string{"Food": "150"}), prev)

	if !c.Income.Absolute.Equal(dec("200")) || c.Income.Percent != 25 || c.Income.Arrow() != arrowUp {
		t.Fatalf("unexpected income delta %+v", c.Income)
	}
	if !c.Expense.Absolute.Equal(dec("-150")) || c.Expense.Percent != -50 || c.Expense.Arrow() != arrowDown {
		t.Fatalf("unexpected expense delta %+v", c.Expense)
	}
	if !c.AvgDaily.Current.Equal(dec("4.84")) {
		t.Fatalf("unexpected avg daily %+v", c.AvgDaily)
	}
	if c.TopChanged() {
		t.Fatalf("top category did not change")
	}

	text := c.Text("UAH")
	for _, want := range []string{
		"Income: 🔺 +200.00 UAH (+25.0%)",
		"Expenses: 🔻 -150.00 UAH (-50.0%)",
		"Top category unchanged: Food (previously 55.5%)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text %q does not contain %q", text, want)
		}
	}
}

func TestCompareTopChanged(t *testing.T) {
	tests := []struct {
		name string
		prev sql.NullString
		want string
	}{
		{
			name: "different",
			prev: sql.NullString{String: "Transport", Valid: true},
			want: "Top category: Food 120.00 UAH (80.0%), previously Transport, 40.0%",
		},
		{
			name: "unset",
			want: "Top category: Food 120.00 UAH (80.0%), previously none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := &model.MonthlySnapshot{TopCategory: tt.prev, TopCategoryPct: 40}
			c := Compare(aggregateWith("0", "150", map[string]string{"Food": "120", "Books": "30"}), prev)

			if !c.TopChanged() {
				t.Fatalf("expected changed top category")
			}
			if text := c.Text("UAH"); !strings.Contains(text, tt.want) {
				t.Fatalf("text %q does not contain %q", text, tt.want)
			}
		})
	}
}

func TestDeltaEqualIsUp(t *testing.T) {
	d := NewDelta(dec("10"), dec("10"))
	if !d.Up() || d.Percent != 0 || !d.Absolute.Equal(decimal.Zero) {
		t.Fatalf("unexpected delta %+v", d)
	}
}
