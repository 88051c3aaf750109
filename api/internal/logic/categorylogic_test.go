package logic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/qx/budget_robot/api/internal/dialog"
	"github.com/qx/budget_robot/api/internal/model"
)

func TestCategoryAddFlow(t *testing.T) {
	svcCtx, msgr := newTestContext(t)
	ctx := context.Background()
	userID := startUser(t, svcCtx, 100)
	l := NewCategoryLogic(ctx, svcCtx)

	st := &dialog.State{Step: dialog.StepNewCategoryKind}
	if err := l.HandleNewKind(100, 100, st, BtnKindIncome); err != nil {
		t.Fatalf("kind: %v", err)
	}
	st, err := svcCtx.Dialogs.Get(ctx, 100, 100)
	if err != nil || st == nil || st.Step != dialog.StepNewCategoryName || st.Kind != model.KindIncome {
		t.Fatalf("unexpected state %+v, err %v", st, err)
	}
	if err := l.HandleNewName(100, 100, st, "  Gifts  "); err != nil {
		t.Fatalf("name: %v", err)
	}

	incomes, err := svcCtx.CategoryModel.FindByUserAndKind(ctx, userID, model.KindIncome)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	var found bool
	for _, c := range incomes {
		if c.Name == "Gifts" {
			found = !c.IsDefault
		}
	}
	if !found {
		t.Fatalf("custom income category not stored: %+v", incomes)
	}
	if st, _ := svcCtx.Dialogs.Get(ctx, 100, 100); st != nil {
		t.Fatalf("dialog must be cleared, got %+v", st)
	}
	if !strings.Contains(msgr.lastText(), "Gifts") {
		t.Fatalf("unexpected reply %q", msgr.lastText())
	}
}

func TestCategoryRenameClearsDefault(t *testing.T) {
	svcCtx, _ := newTestContext(t)
	ctx := context.Background()
	userID := startUser(t, svcCtx, 100)
	food := categoryID(t, svcCtx, userID, "Food")

	st := &dialog.State{Step: dialog.StepEditName, CategoryId: food}
	if err := NewCategoryLogic(ctx, svcCtx).HandleEditName(100, 100, st, "Groceries"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	c, err := svcCtx.CategoryModel.FindOne(ctx, food)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if c.Name != "Groceries" || c.IsDefault {
		t.Fatalf("unexpected category %+v", c)
	}
}

func TestCategoryDeleteKeepsTransactions(t *testing.T) {
	svcCtx, msgr := newTestContext(t)
	ctx := context.Background()
	userID := startUser(t, svcCtx, 100)
	food := categoryID(t, svcCtx, userID, "Food")
	addTx(t, svcCtx, userID, food, model.KindExpense, "42", time.Date(2025, 5, 3, 10, 0, 0, 0, time.UTC), "")

	l := NewCategoryLogic(ctx, svcCtx)
	if err := l.HandleDeletePick(100, 100, &dialog.State{Step: dialog.StepDeletePick}, food); err != nil {
		t.Fatalf("pick: %v", err)
	}
	st, _ := svcCtx.Dialogs.Get(ctx, 100, 100)
	if st == nil || st.Step != dialog.StepDeleteConfirm || st.CategoryId != food {
		t.Fatalf("unexpected state %+v", st)
	}
	if err := l.HandleDeleteConfirm(100, 100, st, confirmYes); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := svcCtx.CategoryModel.FindOne(ctx, food); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("category must be deleted, got %v", err)
	}
	txs, err := svcCtx.TransactionModel.FindByUserInRange(ctx, userID,
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("find transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].CategoryId != food {
		t.Fatalf("transaction must survive the category, got %+v", txs)
	}
	if !strings.Contains(msgr.lastText(), "deleted") {
		t.Fatalf("unexpected reply %q", msgr.lastText())
	}
}

func TestCategoryDeleteDeclined(t *testing.T) {
	svcCtx, _ := newTestContext(t)
	ctx := context.Background()
	userID := startUser(t, svcCtx, 100)
	food := categoryID(t, svcCtx, userID, "Food")

	st := &dialog.State{Step: dialog.StepDeleteConfirm, CategoryId: food}
	if err := NewCategoryLogic(ctx, svcCtx).HandleDeleteConfirm(100, 100, st, confirmNo); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svcCtx.CategoryModel.FindOne(ctx, food); err != nil {
		t.Fatalf("category must survive: %v", err)
	}
}

func TestCategoryForeignIsNotFound(t *testing.T) {
	svcCtx, msgr := newTestContext(t)
	ctx := context.Background()
	startUser(t, svcCtx, 100)
	bob := startUser(t, svcCtx, 200)
	foreign := categoryID(t, svcCtx, bob, "Food")

	if err := NewCategoryLogic(ctx, svcCtx).HandleDeletePick(100, 100, &dialog.State{Step: dialog.StepDeletePick}, foreign); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if !strings.Contains(msgr.lastText(), "not found") {
		t.Fatalf("unexpected reply %q", msgr.lastText())
	}
}
