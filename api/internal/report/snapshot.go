package report

import (
	"database/sql"

	"github.com/qx/budget_robot/api/internal/model"
)

// NewSnapshot 由汇总结果生成月度快照
func NewSnapshot(userID int64, agg *Aggregate) *model.MonthlySnapshot {
	snap := &model.MonthlySnapshot{
		UserId:          userID,
		YearMonth:       agg.Period.YearMonth(),
		TotalIncome:     agg.TotalIncome,
		TotalExpense:    agg.TotalExpense,
		AvgDailyExpense: agg.AvgDailyExpense(),
		AvgUsd:          agg.AvgUSD,
		AvgEur:          agg.AvgEUR,
	}
	if top, ok := agg.TopExpense(); ok {
		snap.TopCategory = sql.NullString{String: top.Name, Valid: true}
		snap.TopCategoryPct = top.Percent
	}

	return snap
}
