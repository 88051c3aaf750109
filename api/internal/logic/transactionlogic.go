package logic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qx/budget_robot/api/internal/dialog"
	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/qx/budget_robot/api/internal/types"
	"github.com/zeromicro/go-zero/core/logx"
)

type TransactionLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewTransactionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TransactionLogic {
	return &TransactionLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Begin 开始录入一笔收入或支出
func (l *TransactionLogic) Begin(chatID, telegramID int64, kind model.Kind) error {
	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, &dialog.State{
		Step: dialog.StepAmount,
		Kind: kind,
	}); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID,
		fmt.Sprintf("💰 Enter the %s amount:", kindNoun(kind)), backKeyboard())
}

// HandleAmount 解析金额，然后让用户选择分类
func (l *TransactionLogic) HandleAmount(chatID, telegramID int64, st *dialog.State, text string) error {
	amount, err := types.ParseAmount(text)
	if err != nil {
		if clearErr := l.svcCtx.Dialogs.Clear(l.ctx, chatID, telegramID); clearErr != nil {
			return clearErr
		}
		return l.svcCtx.Messenger.SendText(chatID, "❌ Invalid amount. Please enter a positive number.", MainMenu())
	}

	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return err
	}

	categories, err := l.svcCtx.CategoryModel.FindByUserAndKind(l.ctx, user.Id, st.Kind)
	if err != nil {
		return fmt.Errorf("find categories: %w", err)
	}
	if len(categories) == 0 {
		if err := l.svcCtx.Dialogs.Clear(l.ctx, chatID, telegramID); err != nil {
			return err
		}
		return l.svcCtx.Messenger.SendText(chatID,
			fmt.Sprintf("You have no %s categories yet. Add one in %s first.", kindNoun(st.Kind), BtnCategories), MainMenu())
	}

	st.Step = dialog.StepCategory
	st.Amount = amount
	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, st); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID, "📂 Choose a category:", categoryButtons(CallbackCategory, categories))
}

// HandleCategory 记录所选分类，然后询问备注
func (l *TransactionLogic) HandleCategory(chatID, telegramID int64, st *dialog.State, categoryID int64) error {
	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return err
	}

	category, err := ownedCategory(l.ctx, l.svcCtx, user.Id, categoryID)
	if errors.Is(err, model.ErrNotFound) || (err == nil && category.Kind != st.Kind) {
		return l.svcCtx.Messenger.SendText(chatID, "❌ Category not found, choose another one.", nil)
	}
	if err != nil {
		return err
	}

	st.Step = dialog.StepNote
	st.CategoryId = category.Id
	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, st); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID,
		fmt.Sprintf("📝 Add a note for %s or press %s:", category.Name, BtnSkip), noteKeyboard())
}

// HandleNote 保存交易并结束对话
func (l *TransactionLogic) HandleNote(chatID, telegramID int64, st *dialog.State, text string) error {
	note := text
	if text == BtnSkip {
		note = ""
	}

	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return err
	}

	category, err := ownedCategory(l.ctx, l.svcCtx, user.Id, st.CategoryId)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}

	if _, err := l.Add(types.TransactionRequest{
		UserId:     user.Id,
		CategoryId: st.CategoryId,
		Kind:       st.Kind,
		Amount:     st.Amount,
		Note:       note,
		OccurredAt: l.svcCtx.Now(),
	}); err != nil {
		return err
	}

	if err := l.svcCtx.Dialogs.Clear(l.ctx, chatID, telegramID); err != nil {
		return err
	}

	name := "deleted category"
	if category != nil {
		name = category.Name
	}

	return l.svcCtx.Messenger.SendText(chatID,
		fmt.Sprintf("✅ %s of %s %s saved to %s.", st.Kind.Title(), st.Amount.StringFixed(2), l.svcCtx.Config.Currency, name),
		MainMenu())
}

// Add 保存一笔交易
func (l *TransactionLogic) Add(req types.TransactionRequest) (int64, error) {
	if !req.Kind.Valid() {
		return 0, model.ErrInvalidKind
	}
	if req.Amount.Sign() <= 0 {
		return 0, types.ErrInvalidAmount
	}

	ret, err := l.svcCtx.TransactionModel.Insert(l.ctx, &model.Transaction{
		UserId:     req.UserId,
		CategoryId: req.CategoryId,
		Kind:       req.Kind,
		Amount:     req.Amount,
		Note:       sql.NullString{String: req.Note, Valid: req.Note != ""},
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := ret.LastInsertId()
	if err != nil {
		return 0, err
	}
	l.Infow("transaction saved", logx.Field("user", req.UserId), logx.Field("id", id), logx.Field("kind", req.Kind.String()))

	return id, nil
}

func kindNoun(k model.Kind) string {
	if k == model.KindIncome {
		return "income"
	}
	return "expense"
}
