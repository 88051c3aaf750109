package dialog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qx/budget_robot/api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// Step 多轮对话当前所处的步骤
type Step string

const (
	StepAmount          Step = "amount"
	StepCategory        Step = "category"
	StepNote            Step = "note"
	StepNewCategoryKind Step = "new_category_kind"
	StepNewCategoryName Step = "new_category_name"
	StepEditPick        Step = "edit_pick"
	StepEditField       Step = "edit_field"
	StepEditName        Step = "edit_name"
	StepEditKind        Step = "edit_kind"
	StepDeletePick      Step = "delete_pick"
	StepDeleteConfirm   Step = "delete_confirm"
	StepPeriod          Step = "period"
)

type State struct {
	Step       Step            `json:"step"`
	Kind       model.Kind      `json:"kind,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryId int64           `json:"category_id,omitempty"`
	Report     string          `json:"report,omitempty"`
}

// Store 按 (chat, user) 保存对话状态，过期自动清除
type Store struct {
	rds *redis.Redis
	ttl int
}

func NewStore(rds *redis.Redis, ttl int) *Store {
	return &Store{
		rds: rds,
		ttl: ttl,
	}
}

func key(chatID, userID int64) string {
	return fmt.Sprintf("budget:dialog:%d:%d", chatID, userID)
}

// Get 没有进行中的对话时返回 nil
func (s *Store) Get(ctx context.Context, chatID, userID int64) (*State, error) {
	data, err := s.rds.GetCtx(ctx, key(chatID, userID))
	if err != nil {
		return nil, fmt.Errorf("get dialog state: %w", err)
	}
	if data == "" {
		return nil, nil
	}

	var st State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decode dialog state: %w", err)
	}

	return &st, nil
}

func (s *Store) Save(ctx context.Context, chatID, userID int64, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode dialog state: %w", err)
	}

	return s.rds.SetexCtx(ctx, key(chatID, userID), string(data), s.ttl)
}

func (s *Store) Clear(ctx context.Context, chatID, userID int64) error {
	_, err := s.rds.DelCtx(ctx, key(chatID, userID))
	return err
}
