package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/stringx"
)

var (
	monthlySnapshotFieldNames          = builder.RawFieldNames(&MonthlySnapshot{})
	monthlySnapshotRows                = strings.Join(monthlySnapshotFieldNames, ",")
	monthlySnapshotRowsExpectAutoSet   = strings.Join(stringx.Remove(monthlySnapshotFieldNames, "`id`", "`update_time`"), ",")
	monthlySnapshotRowsWithPlaceHolder = strings.Join(stringx.Remove(monthlySnapshotFieldNames,
		"`id`", "`user_id`", "`year_month`", "`update_time`"), "=?,") + "=?"
)

type (
	MonthlySnapshotModel interface {
		FindOneByUserYearMonth(ctx context.Context, userId int64, yearMonth string) (*MonthlySnapshot, error)
		FindByUser(ctx context.Context, userId int64) ([]*MonthlySnapshot, error)
		// Upsert 按 (user_id, year_month) 写入，存在则覆盖
		Upsert(ctx context.Context, data *MonthlySnapshot) error
	}

	defaultMonthlySnapshotModel struct {
		conn  sqlx.SqlConn
		table string
	}

	MonthlySnapshot struct {
		Id              int64           `db:"id"`
		UserId          int64           `db:"user_id"`
		YearMonth       string          `db:"year_month"`
		TotalIncome     decimal.Decimal `db:"total_income"`
		TotalExpense    decimal.Decimal `db:"total_expense"`
		AvgDailyExpense decimal.Decimal `db:"avg_daily_expense"`
		TopCategory     sql.NullString  `db:"top_category"`
		TopCategoryPct  float64         `db:"top_category_pct"`
		AvgUsd          float64         `db:"avg_usd"`
		AvgEur          float64         `db:"avg_eur"`
		UpdateTime      time.Time       `db:"update_time"`
	}
)

func NewMonthlySnapshotModel(conn sqlx.SqlConn) MonthlySnapshotModel {
	return &defaultMonthlySnapshotModel{
		conn:  conn,
		table: "`monthly_snapshots`",
	}
}

func (m *defaultMonthlySnapshotModel) FindOneByUserYearMonth(ctx context.Context, userId int64, yearMonth string) (*MonthlySnapshot, error) {
	query := fmt.Sprintf("select %s from %s where `user_id` = ? and `year_month` = ? limit 1", monthlySnapshotRows, m.table)
	var resp MonthlySnapshot
	err := m.conn.QueryRowCtx(ctx, &resp, query, userId, yearMonth)
	switch err {
	case nil:
		return &resp, nil
	case sqlx.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *defaultMonthlySnapshotModel) FindByUser(ctx context.Context, userId int64) ([]*MonthlySnapshot, error) {
	query := fmt.Sprintf("select %s from %s where `user_id` = ? order by `year_month`", monthlySnapshotRows, m.table)
	var resp []*MonthlySnapshot
	if err := m.conn.QueryRowsCtx(ctx, &resp, query, userId); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *defaultMonthlySnapshotModel) Upsert(ctx context.Context, data *MonthlySnapshot) error {
	return m.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		var id int64
		query := fmt.Sprintf("select `id` from %s where `user_id` = ? and `year_month` = ? limit 1", m.table)
		err := session.QueryRowCtx(ctx, &id, query, data.UserId, data.YearMonth)
		switch err {
		case nil:
			query = fmt.Sprintf("update %s set %s, `update_time` = CURRENT_TIMESTAMP where `id` = ?",
				m.table, monthlySnapshotRowsWithPlaceHolder)
			_, err = session.ExecCtx(ctx, query, data.TotalIncome, data.TotalExpense, data.AvgDailyExpense,
				data.TopCategory, data.TopCategoryPct, data.AvgUsd, data.AvgEur, id)
			if err == nil {
				data.Id = id
			}
			return err
		case sqlx.ErrNotFound:
			query = fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				m.table, monthlySnapshotRowsExpectAutoSet)
			ret, err := session.ExecCtx(ctx, query, data.UserId, data.YearMonth, data.TotalIncome,
				data.TotalExpense, data.AvgDailyExpense, data.TopCategory, data.TopCategoryPct,
				data.AvgUsd, data.AvgEur)
			if err != nil {
				return err
			}
			data.Id, err = ret.LastInsertId()
			return err
		default:
			return err
		}
	})
}
