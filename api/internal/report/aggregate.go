package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/qx/budget_robot/api/internal/model"
	"github.com/shopspring/decimal"
)

type (
	TransactionFinder interface {
		FindByUserInRange(ctx context.Context, userId int64, from, to time.Time) ([]*model.Transaction, error)
	}

	CategoryFinder interface {
		FindByUser(ctx context.Context, userId int64) ([]*model.Category, error)
	}
)

// Aggregate 一个区间内的汇总结果
type Aggregate struct {
	Period           Period
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	DailyExpenses    map[time.Time]decimal.Decimal
	DailyIncomes     map[time.Time]decimal.Decimal
	CategoryExpenses map[string]decimal.Decimal
	CategoryIncomes  map[string]decimal.Decimal
	AvgUSD           float64
	AvgEUR           float64
}

// CategoryShare 分类金额及其占比
type CategoryShare struct {
	Name    string
	Amount  decimal.Decimal
	Percent float64
}

func NewAggregate(p Period) *Aggregate {
	agg := &Aggregate{
		Period:           p,
		DailyExpenses:    make(map[time.Time]decimal.Decimal, p.Days()),
		DailyIncomes:     make(map[time.Time]decimal.Decimal, p.Days()),
		CategoryExpenses: make(map[string]decimal.Decimal),
		CategoryIncomes:  make(map[string]decimal.Decimal),
	}
	for _, d := range p.DayKeys() {
		agg.DailyExpenses[d] = decimal.Zero
		agg.DailyIncomes[d] = decimal.Zero
	}

	return agg
}

func (a *Aggregate) Balance() decimal.Decimal {
	return a.TotalIncome.Sub(a.TotalExpense)
}

// SavingsPercent 结余占收入的百分比，无收入时为 0
func (a *Aggregate) SavingsPercent() float64 {
	return Percent(a.Balance(), a.TotalIncome)
}

// AvgDailyExpense 总支出除以区间天数，保留两位小数
func (a *Aggregate) AvgDailyExpense() decimal.Decimal {
	days := a.Period.Days()
	if days <= 0 {
		return decimal.Zero
	}

	return a.TotalExpense.Div(decimal.NewFromInt(int64(days))).Round(2)
}

// TopExpense 金额最大的支出分类，金额相同按名称排序
func (a *Aggregate) TopExpense() (CategoryShare, bool) {
	if a.TotalExpense.IsZero() {
		return CategoryShare{}, false
	}

	top := TopN(a.CategoryExpenses, a.TotalExpense, 1)
	if len(top) == 0 {
		return CategoryShare{}, false
	}

	return top[0], true
}

// TopN 按金额降序取前 n 个分类，占比相对 total 计算
func TopN(amounts map[string]decimal.Decimal, total decimal.Decimal, n int) []CategoryShare {
	shares := make([]CategoryShare, 0, len(amounts))
	for name, amount := range amounts {
		shares = append(shares, CategoryShare{
			Name:    name,
			Amount:  amount,
			Percent: Percent(amount, total),
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if c := shares[i].Amount.Cmp(shares[j].Amount); c != 0 {
			return c > 0
		}
		return shares[i].Name < shares[j].Name
	})

	if n >= 0 && len(shares) > n {
		shares = shares[:n]
	}

	return shares
}

// Percent part/whole*100，whole 为 0 时返回 0
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}

	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

type Aggregator struct {
	transactions TransactionFinder
	categories   CategoryFinder
	loc          *time.Location
}

func NewAggregator(transactions TransactionFinder, categories CategoryFinder, loc *time.Location) *Aggregator {
	return &Aggregator{
		transactions: transactions,
		categories:   categories,
		loc:          loc,
	}
}

// Aggregate 汇总用户在区间内的交易。分类已被删除的交易计入总额，但不计入分类明细
func (a *Aggregator) Aggregate(ctx context.Context, userID int64, p Period) (*Aggregate, error) {
	agg := NewAggregate(p)

	from, to := p.Bounds(a.loc)
	txs, err := a.transactions.FindByUserInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	if len(txs) == 0 {
		return agg, nil
	}

	categories, err := a.categories.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.Id] = c.Name
	}

	for _, tx := range txs {
		day := Day(tx.OccurredAt, a.loc)
		name, known := names[tx.CategoryId]

		switch tx.Kind {
		case model.KindExpense:
			agg.TotalExpense = agg.TotalExpense.Add(tx.Amount)
			if v, ok := agg.DailyExpenses[day]; ok {
				agg.DailyExpenses[day] = v.Add(tx.Amount)
			}
			if known {
				agg.CategoryExpenses[name] = agg.CategoryExpenses[name].Add(tx.Amount)
			}
		case model.KindIncome:
			agg.TotalIncome = agg.TotalIncome.Add(tx.Amount)
			if v, ok := agg.DailyIncomes[day]; ok {
				agg.DailyIncomes[day] = v.Add(tx.Amount)
			}
			if known {
				agg.CategoryIncomes[name] = agg.CategoryIncomes[name].Add(tx.Amount)
			}
		}
	}

	return agg, nil
}
