package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

var ErrInvalidKind = errors.New("invalid transaction kind")

// Kind 交易或分类的类型：收入 / 支出
type Kind uint8

const (
	KindExpense Kind = iota + 1
	KindIncome
)

func ParseKind(s string) (Kind, error) {
	switch s {
	case "expense":
		return KindExpense, nil
	case "income":
		return KindIncome, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindExpense:
		return "expense"
	case KindIncome:
		return "income"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Title 用于消息展示
func (k Kind) Title() string {
	if k == KindIncome {
		return "Income"
	}
	return "Expense"
}

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

func (k Kind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, uint8(k))
	}
	return k.String(), nil
}

func (k *Kind) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: unsupported source %T", ErrInvalidKind, src)
	}

	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
