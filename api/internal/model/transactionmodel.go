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
	transactionFieldNames        = builder.RawFieldNames(&Transaction{})
	transactionRows              = strings.Join(transactionFieldNames, ",")
	transactionRowsExpectAutoSet = strings.Join(stringx.Remove(transactionFieldNames, "`id`", "`create_time`"), ",")
)

type (
	TransactionModel interface {
		Insert(ctx context.Context, data *Transaction) (sql.Result, error)
		FindOne(ctx context.Context, id int64) (*Transaction, error)
		// FindByUserInRange 返回 [from, to) 内的交易，按发生时间升序
		FindByUserInRange(ctx context.Context, userId int64, from, to time.Time) ([]*Transaction, error)
		Delete(ctx context.Context, id int64) error
	}

	defaultTransactionModel struct {
		conn  sqlx.SqlConn
		table string
	}

	Transaction struct {
		Id         int64           `db:"id"`
		UserId     int64           `db:"user_id"`
		CategoryId int64           `db:"category_id"`
		Kind       Kind            `db:"kind"`
		Amount     decimal.Decimal `db:"amount"`
		Note       sql.NullString  `db:"note"`
		OccurredAt time.Time       `db:"occurred_at"`
		CreateTime time.Time       `db:"create_time"`
	}
)

func NewTransactionModel(conn sqlx.SqlConn) TransactionModel {
	return &defaultTransactionModel{
		conn:  conn,
		table: "`transactions`",
	}
}

// 时间统一以 UTC 秒精度存储，保证文本比较与时间顺序一致
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func (m *defaultTransactionModel) Insert(ctx context.Context, data *Transaction) (sql.Result, error) {
	query := fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?, ?, ?)", m.table, transactionRowsExpectAutoSet)
	return m.conn.ExecCtx(ctx, query, data.UserId, data.CategoryId, data.Kind, data.Amount,
		data.Note, storedTime(data.OccurredAt))
}

func (m *defaultTransactionModel) FindOne(ctx context.Context, id int64) (*Transaction, error) {
	query := fmt.Sprintf("select %s from %s where `id` = ? limit 1", transactionRows, m.table)
	var resp Transaction
	err := m.conn.QueryRowCtx(ctx, &resp, query, id)
	switch err {
	case nil:
		return &resp, nil
	case sqlx.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *defaultTransactionModel) FindByUserInRange(ctx context.Context, userId int64, from, to time.Time) ([]*Transaction, error) {
	query := fmt.Sprintf("select %s from %s where `user_id` = ? and `occurred_at` >= ? and `occurred_at` < ? order by `occurred_at`, `id`",
		transactionRows, m.table)
	var resp []*Transaction
	if err := m.conn.QueryRowsCtx(ctx, &resp, query, userId, storedTime(from), storedTime(to)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *defaultTransactionModel) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("delete from %s where `id` = ?", m.table)
	_, err := m.conn.ExecCtx(ctx, query, id)
	return err
}
