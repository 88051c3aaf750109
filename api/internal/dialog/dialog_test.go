package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/qx/budget_robot/api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rds := redis.MustNewRedis(redis.RedisConf{Host: mr.Addr(), Type: redis.NodeType})

	return NewStore(rds, 60), mr
}

func TestStoreRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	got, err := s.Get(ctx, 1, 2)
	if err != nil || got != nil {
		t.Fatalf("expected no state, got %+v, %v", got, err)
	}

	want := &State{
		Step:       StepNote,
		Kind:       model.KindIncome,
		Amount:     decimal.RequireFromString("12.50"),
		CategoryId: 7,
	}
	if err := s.Save(ctx, 1, 2, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = s.Get(ctx, 1, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Step != StepNote || got.Kind != model.KindIncome || got.CategoryId != 7 || !got.Amount.Equal(want.Amount) {
		t.Fatalf("unexpected state %+v", got)
	}

	// 不同用户的状态互不影响
	if other, _ := s.Get(ctx, 1, 3); other != nil {
		t.Fatalf("state leaked to another user: %+v", other)
	}

	if err := s.Clear(ctx, 1, 2); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, _ := s.Get(ctx, 1, 2); got != nil {
		t.Fatalf("expected cleared state, got %+v", got)
	}
}

func TestStoreExpires(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, 1, 2, &State{Step: StepPeriod, Report: "pie"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(61 * time.Second)

	if got, err := s.Get(ctx, 1, 2); err != nil || got != nil {
		t.Fatalf("expected expired state, got %+v, %v", got, err)
	}
}
