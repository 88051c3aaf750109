package logic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/qx/budget_robot/api/internal/dialog"
	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/types"
	"github.com/shopspring/decimal"
)

func TestTransactionFlow(t *testing.T) {
	svcCtx, msgr := newTestContext(t)
	ctx := context.Background()
	userID := startUser(t, svcCtx, 100)
	food := categoryID(t, svcCtx, userID, "Food")
	l := NewTransactionLogic(ctx, svcCtx)

	if err := l.Begin(100, 100, model.KindExpense); err != nil {
		t.Fatalf("begin: %v", err)
	}
	st, _ := svcCtx.Dialogs.Get(ctx, 100, 100)
	if err := l.HandleAmount(100, 100, st, "12,50"); err != nil {
		t.Fatalf("amount: %v", err)
	}
	st, _ = svcCtx.Dialogs.Get(ctx, 100, 100)
	if st == nil || st.Step != dialog.StepCategory || !st.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected state %+v", st)
	}
	if err := l.HandleCategory(100, 100, st, food); err != nil {
		t.Fatalf("category: %v", err)
	}
	st, _ = svcCtx.Dialogs.Get(ctx, 100, 100)
	if err := l.HandleNote(100, 100, st, BtnSkip); err != nil {
		t.Fatalf("note: %v", err)
	}

	txs, err := svcCtx.TransactionModel.FindByUserInRange(ctx, userID, june15.Add(-time.Hour), june15.Add(time.Hour))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(txs) != 1 || txs[0].CategoryId != food || txs[0].Note.Valid || !txs[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected transactions %+v", txs)
	}
	if st, _ := svcCtx.Dialogs.Get(ctx, 100, 100); st != nil {
		t.Fatalf("dialog must be cleared")
	}
	if !strings.Contains(msgr.lastText(), "12.50 UAH saved to Food") {
		t.Fatalf("unexpected reply %q", msgr.lastText())
	}
}

func TestTransactionInvalidAmountEndsDialog(t *testing.T) {
	svcCtx, msgr := newTestContext(t)
	ctx := context.Background()
	startUser(t, svcCtx, 100)
	l := NewTransactionLogic(ctx, svcCtx)

	if err := l.Begin(100, 100, model.KindIncome); err != nil {
		t.Fatalf("begin: %v", err)
	}
	st, _ := svcCtx.Dialogs.Get(ctx, 100, 100)
	if err := l.HandleAmount(100, 100, st, "-5"); err != nil {
		t.Fatalf("amount: %v", err)
	}

	if st, _ := svcCtx.Dialogs.Get(ctx, 100, 100); st != nil {
		t.Fatalf("dialog must be cleared")
	}
	if !strings.Contains(msgr.lastText(), "Invalid amount") {
		t.Fatalf("unexpected reply %q", msgr.lastText())
	}
}

func TestTransactionWrongKindCategory(t *testing.T) {
	svcCtx, msgr := newTestContext(t)
	ctx := context.Background()
	userID := startUser(t, svcCtx, 100)
	salary := categoryID(t, svcCtx, userID, "Salary")

	st := &dialog.State{Step: dialog.StepCategory, Kind: model.KindExpense, Amount: decimal.NewFromInt(5)}
	if err := NewTransactionLogic(ctx, svcCtx).HandleCategory(100, 100, st, salary); err != nil {
		t.Fatalf("category: %v", err)
	}
	if !strings.Contains(msgr.lastText(), "Category not found") {
		t.Fatalf("unexpected reply %q", msgr.lastText())
	}
}

func TestAddValidates(t *testing.T) {
	svcCtx, _ := newTestContext(t)
	l := NewTransactionLogic(context.Background(), svcCtx)

	if _, err := l.Add(types.TransactionRequest{Kind: model.Kind(9), Amount: decimal.NewFromInt(1)}); !errors.Is(err, model.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if _, err := l.Add(types.TransactionRequest{Kind: model.KindExpense, Amount: decimal.Zero}); !errors.Is(err, types.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
