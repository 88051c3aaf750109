package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/qx/budget_robot/api/internal/dialog"
	"github.com/qx/budget_robot/api/internal/logic"
	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	msgExpired    = "⌛ This action has expired. Start again from the menu."
	msgUseButtons = "Please use the buttons above."
)

type BotHandler struct {
	svcCtx *svc.ServiceContext
}

func NewBotHandler(svcCtx *svc.ServiceContext) *BotHandler {
	return &BotHandler{
		svcCtx: svcCtx,
	}
}

func (h *BotHandler) HandleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		h.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(update.CallbackQuery)
	}
}

func (h *BotHandler) handleMessage(message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	ctx := context.Background()
	if err := h.dispatchMessage(ctx, message); err != nil {
		logx.WithContext(ctx).Errorf("handle message from %d: %v", message.From.ID, err)
		logic.ReplyError(h.svcCtx, message.Chat.ID)
	}
}

func (h *BotHandler) dispatchMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID
	userLogic := logic.NewUserLogic(ctx, h.svcCtx)

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			if err := h.svcCtx.Dialogs.Clear(ctx, chatID, userID); err != nil {
				return err
			}
			return userLogic.Start(chatID, userID, message.From.UserName, message.From.LanguageCode)
		case "help":
			return userLogic.Help(chatID)
		case "report":
			if err := h.svcCtx.Dialogs.Clear(ctx, chatID, userID); err != nil {
				return err
			}
			return logic.NewReportLogic(ctx, h.svcCtx).MonthlyReport(chatID, userID)
		case "cancel":
			return userLogic.Cancel(chatID, userID)
		default:
			return userLogic.Fallback(chatID)
		}
	}

	text := strings.TrimSpace(message.Text)
	if handled, err := h.dispatchButton(ctx, chatID, userID, text); handled {
		return err
	}

	st, err := h.svcCtx.Dialogs.Get(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if st == nil {
		return userLogic.Fallback(chatID)
	}

	return h.continueDialog(ctx, chatID, userID, st, text)
}

// dispatchButton 菜单按钮优先于进行中的对话
func (h *BotHandler) dispatchButton(ctx context.Context, chatID, userID int64, text string) (bool, error) {
	var action func() error

	categoryLogic := logic.NewCategoryLogic(ctx, h.svcCtx)
	reportLogic := logic.NewReportLogic(ctx, h.svcCtx)
	transactionLogic := logic.NewTransactionLogic(ctx, h.svcCtx)

	switch text {
	case logic.BtnBack:
		return true, logic.NewUserLogic(ctx, h.svcCtx).Cancel(chatID, userID)
	case logic.BtnExpense:
		action = func() error { return transactionLogic.Begin(chatID, userID, model.KindExpense) }
	case logic.BtnIncome:
		action = func() error { return transactionLogic.Begin(chatID, userID, model.KindIncome) }
	case logic.BtnCategories:
		action = func() error { return categoryLogic.Menu(chatID) }
	case logic.BtnListCategories:
		action = func() error { return categoryLogic.List(chatID, userID) }
	case logic.BtnAddCategory:
		action = func() error { return categoryLogic.BeginAdd(chatID, userID) }
	case logic.BtnEditCategory:
		action = func() error { return categoryLogic.BeginEdit(chatID, userID) }
	case logic.BtnDeleteCategory:
		action = func() error { return categoryLogic.BeginDelete(chatID, userID) }
	case logic.BtnPeriodReport:
		action = func() error { return reportLogic.Menu(chatID) }
	case logic.BtnMonthlyReport:
		action = func() error { return reportLogic.MonthlyReport(chatID, userID) }
	default:
		kind, ok := logic.ReportButtons[text]
		if !ok {
			return false, nil
		}
		action = func() error { return reportLogic.BeginPeriod(chatID, userID, kind) }
	}

	if err := h.svcCtx.Dialogs.Clear(ctx, chatID, userID); err != nil {
		return true, err
	}

	return true, action()
}

func (h *BotHandler) continueDialog(ctx context.Context, chatID, userID int64, st *dialog.State, text string) error {
	transactionLogic := logic.NewTransactionLogic(ctx, h.svcCtx)
	categoryLogic := logic.NewCategoryLogic(ctx, h.svcCtx)

	switch st.Step {
	case dialog.StepAmount:
		return transactionLogic.HandleAmount(chatID, userID, st, text)
	case dialog.StepNote:
		return transactionLogic.HandleNote(chatID, userID, st, text)
	case dialog.StepNewCategoryKind:
		return categoryLogic.HandleNewKind(chatID, userID, st, text)
	case dialog.StepNewCategoryName:
		return categoryLogic.HandleNewName(chatID, userID, st, text)
	case dialog.StepEditField:
		return categoryLogic.HandleEditField(chatID, userID, st, text)
	case dialog.StepEditName:
		return categoryLogic.HandleEditName(chatID, userID, st, text)
	case dialog.StepEditKind:
		return categoryLogic.HandleEditKind(chatID, userID, st, text)
	case dialog.StepPeriod:
		return logic.NewReportLogic(ctx, h.svcCtx).PeriodReport(chatID, userID, st.Report, text)
	case dialog.StepCategory, dialog.StepEditPick, dialog.StepDeletePick, dialog.StepDeleteConfirm:
		// 这些步骤只接受内联按钮
		return h.svcCtx.Messenger.SendText(chatID, msgUseButtons, nil)
	default:
		if err := h.svcCtx.Dialogs.Clear(ctx, chatID, userID); err != nil {
			return err
		}
		return logic.NewUserLogic(ctx, h.svcCtx).Fallback(chatID)
	}
}

func (h *BotHandler) handleCallback(callback *tgbotapi.CallbackQuery) {
	ctx := context.Background()

	if callback.Message != nil && callback.From != nil {
		if err := h.dispatchCallback(ctx, callback); err != nil {
			logx.WithContext(ctx).Errorf("handle callback %q from %d: %v", callback.Data, callback.From.ID, err)
			logic.ReplyError(h.svcCtx, callback.Message.Chat.ID)
		}
	}

	// 确认回调查询
	if err := h.svcCtx.Messenger.AnswerCallback(callback.ID); err != nil {
		logx.WithContext(ctx).Errorf("answer callback: %v", err)
	}
}

func (h *BotHandler) dispatchCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	chatID, userID := callback.Message.Chat.ID, callback.From.ID
	data := callback.Data

	st, err := h.svcCtx.Dialogs.Get(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if st == nil {
		return h.svcCtx.Messenger.SendText(chatID, msgExpired, logic.MainMenu())
	}

	categoryLogic := logic.NewCategoryLogic(ctx, h.svcCtx)

	switch {
	case st.Step == dialog.StepCategory && strings.HasPrefix(data, logic.CallbackCategory):
		id, err := callbackID(data, logic.CallbackCategory)
		if err != nil {
			return err
		}
		return logic.NewTransactionLogic(ctx, h.svcCtx).HandleCategory(chatID, userID, st, id)
	case st.Step == dialog.StepEditPick && strings.HasPrefix(data, logic.CallbackEdit):
		id, err := callbackID(data, logic.CallbackEdit)
		if err != nil {
			return err
		}
		return categoryLogic.HandleEditPick(chatID, userID, st, id)
	case st.Step == dialog.StepDeletePick && strings.HasPrefix(data, logic.CallbackDelete):
		id, err := callbackID(data, logic.CallbackDelete)
		if err != nil {
			return err
		}
		return categoryLogic.HandleDeletePick(chatID, userID, st, id)
	case st.Step == dialog.StepDeleteConfirm && strings.HasPrefix(data, logic.CallbackConfirm):
		return categoryLogic.HandleDeleteConfirm(chatID, userID, st, strings.TrimPrefix(data, logic.CallbackConfirm))
	default:
		return h.svcCtx.Messenger.SendText(chatID, msgExpired, logic.MainMenu())
	}
}

func callbackID(data, prefix string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid callback data %q: %w", data, err)
	}

	return id, nil
}
