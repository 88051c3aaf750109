package report

import (
	"context"
	"time"

	"github.com/qx/budget_robot/api/internal/model"
	"github.com/shopspring/decimal"
)

type fakeTransactions struct {
	items []*model.Transaction
	from  time.Time
	to    time.Time
}

func (f *fakeTransactions) FindByUserInRange(_ context.Context, userId int64, from, to time.Time) ([]*model.Transaction, error) {
	f.from, f.to = from, to

	var out []*model.Transaction
	for _, tx := range f.items {
		if tx.UserId == userId && !tx.OccurredAt.Before(from) && tx.OccurredAt.Before(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeCategories []*model.Category

func (f fakeCategories) FindByUser(_ context.Context, userId int64) ([]*model.Category, error) {
	var out []*model.Category
	for _, c := range f {
		if c.UserId == userId {
			out = append(out, c)
		}
	}
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(userID, categoryID int64, kind model.Kind, amount string, at time.Time) *model.Transaction {
	return &model.Transaction{
		UserId:     userID,
		CategoryId: categoryID,
		Kind:       kind,
		Amount:     dec(amount),
		OccurredAt: at,
	}
}

var mayCategories = fakeCategories{
	{Id: 1, UserId: 1, Name: "Food", Kind: model.KindExpense},
	{Id: 2, UserId: 1, Name: "Salary", Kind: model.KindIncome},
	{Id: 3, UserId: 1, Name: "Transport", Kind: model.KindExpense},
}

func may2025() Period {
	return Period{Start: date(2025, 5, 1), End: date(2025, 5, 31)}
}
