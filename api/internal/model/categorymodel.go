package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/stringx"
)

var (
	categoryFieldNames          = builder.RawFieldNames(&Category{})
	categoryRows                = strings.Join(categoryFieldNames, ",")
	categoryRowsExpectAutoSet   = strings.Join(stringx.Remove(categoryFieldNames, "`id`", "`create_time`"), ",")
	categoryRowsWithPlaceHolder = strings.Join(stringx.Remove(categoryFieldNames, "`id`", "`user_id`", "`create_time`"), "=?,") + "=?"
)

type (
	CategoryModel interface {
		Insert(ctx context.Context, data *Category) (sql.Result, error)
		FindOne(ctx context.Context, id int64) (*Category, error)
		FindByUser(ctx context.Context, userId int64) ([]*Category, error)
		FindByUserAndKind(ctx context.Context, userId int64, kind Kind) ([]*Category, error)
		Update(ctx context.Context, data *Category) error
		Delete(ctx context.Context, id int64) error
	}

	defaultCategoryModel struct {
		conn  sqlx.SqlConn
		table string
	}

	Category struct {
		Id         int64     `db:"id"`
		UserId     int64     `db:"user_id"`
		Name       string    `db:"name"`
		Kind       Kind      `db:"kind"`
		IsDefault  bool      `db:"is_default"`
		CreateTime time.Time `db:"create_time"`
	}
)

func NewCategoryModel(conn sqlx.SqlConn) CategoryModel {
	return &defaultCategoryModel{
		conn:  conn,
		table: "`categories`",
	}
}

func (m *defaultCategoryModel) Insert(ctx context.Context, data *Category) (sql.Result, error) {
	query := fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?)", m.table, categoryRowsExpectAutoSet)
	return m.conn.ExecCtx(ctx, query, data.UserId, data.Name, data.Kind, data.IsDefault)
}

func (m *defaultCategoryModel) FindOne(ctx context.Context, id int64) (*Category, error) {
	query := fmt.Sprintf("select %s from %s where `id` = ? limit 1", categoryRows, m.table)
	var resp Category
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

func (m *defaultCategoryModel) FindByUser(ctx context.Context, userId int64) ([]*Category, error) {
	query := fmt.Sprintf("select %s from %s where `user_id` = ? order by `kind`, `name`", categoryRows, m.table)
	var resp []*Category
	if err := m.conn.QueryRowsCtx(ctx, &resp, query, userId); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *defaultCategoryModel) FindByUserAndKind(ctx context.Context, userId int64, kind Kind) ([]*Category, error) {
	query := fmt.Sprintf("select %s from %s where `user_id` = ? and `kind` = ? order by `name`", categoryRows, m.table)
	var resp []*Category
	if err := m.conn.QueryRowsCtx(ctx, &resp, query, userId, kind); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *defaultCategoryModel) Update(ctx context.Context, data *Category) error {
	query := fmt.Sprintf("update %s set %s where `id` = ?", m.table, categoryRowsWithPlaceHolder)
	_, err := m.conn.ExecCtx(ctx, query, data.Name, data.Kind, data.IsDefault, data.Id)
	return err
}

func (m *defaultCategoryModel) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("delete from %s where `id` = ?", m.table)
	_, err := m.conn.ExecCtx(ctx, query, id)
	return err
}
