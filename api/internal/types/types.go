package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qx/budget_robot/api/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty category name")
)

const maxCategoryName = 64

// TransactionRequest 一条待保存的收支记录
type TransactionRequest struct {
	UserId     int64           `json:"user_id"`
	CategoryId int64           `json:"category_id"`
	Kind       model.Kind      `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// CategoryRequest 新建或修改分类
type CategoryRequest struct {
	UserId int64      `json:"user_id"`
	Name   string     `json:"name"`
	Kind   model.Kind `json:"kind"`
}

// ParseAmount 解析正数金额，支持逗号作为小数点，保留两位小数
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	amount = amount.Round(2)
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}

	return amount, nil
}

// ParseCategoryName 去除首尾空白并限制长度
func ParseCategoryName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", ErrEmptyName
	}
	if r := []rune(name); len(r) > maxCategoryName {
		name = string(r[:maxCategoryName])
	}

	return name, nil
}
