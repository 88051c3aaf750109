package logic

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/qx/budget_robot/api/internal/model"
)

// 菜单按钮文本
const (
	BtnExpense       = "➕ Expense"
	BtnIncome        = "➕ Income"
	BtnCategories    = "📂 Categories"
	BtnPeriodReport  = "📆 Period report"
	BtnMonthlyReport = "📅 Monthly report"
	BtnBack          = "🔙 Back"

	BtnListCategories = "📑 All categories"
	BtnAddCategory    = "➕ Add category"
	BtnEditCategory   = "✏️ Edit category"
	BtnDeleteCategory = "🗑️ Delete category"

	BtnPie          = "📊 Category pie"
	BtnLines        = "📈 Daily lines"
	BtnSummary      = "🧾 Summary"
	BtnTransactions = "📝 Transactions"

	BtnSkip        = "⏭️ Skip"
	BtnRename      = "✏️ Rename"
	BtnRetype      = "🔄 Change type"
	BtnKindExpense = "Expense"
	BtnKindIncome  = "Income"
)

// 回调数据前缀
const (
	CallbackCategory = "cat:"
	CallbackEdit     = "edit:"
	CallbackDelete   = "del:"
	CallbackConfirm  = "confirm:"

	confirmYes = "yes"
	confirmNo  = "no"
)

// 区间报告类型
const (
	ReportPie          = "pie"
	ReportLines        = "lines"
	ReportSummary      = "summary"
	ReportTransactions = "transactions"
)

var ReportButtons = map[string]string{
	BtnPie:          ReportPie,
	BtnLines:        ReportLines,
	BtnSummary:      ReportSummary,
	BtnTransactions: ReportTransactions,
}

func replyKeyboard(rows ...[]tgbotapi.KeyboardButton) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func MainMenu() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnExpense), tgbotapi.NewKeyboardButton(BtnIncome)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCategories), tgbotapi.NewKeyboardButton(BtnPeriodReport)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnMonthlyReport)),
	)
}

func CategoryMenu() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnListCategories), tgbotapi.NewKeyboardButton(BtnAddCategory)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnEditCategory), tgbotapi.NewKeyboardButton(BtnDeleteCategory)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
	)
}

func ReportMenu() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnPie), tgbotapi.NewKeyboardButton(BtnLines)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnSummary), tgbotapi.NewKeyboardButton(BtnTransactions)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
	)
}

func backKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)))
}

func noteKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnSkip), tgbotapi.NewKeyboardButton(BtnBack)))
}

func kindKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnKindExpense), tgbotapi.NewKeyboardButton(BtnKindIncome)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
	)
}

func editFieldKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnRename), tgbotapi.NewKeyboardButton(BtnRetype)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
	)
}

// categoryButtons 每个分类一行，回调数据为 前缀+ID
func categoryButtons(prefix string, categories []*model.Category) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s (%s)", c.Name, c.Kind.Title()),
				fmt.Sprintf("%s%d", prefix, c.Id)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmButtons() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Yes", CallbackConfirm+confirmYes),
		tgbotapi.NewInlineKeyboardButtonData("❌ No", CallbackConfirm+confirmNo),
	))
}

// kindFromButton 将按钮文本转换为类型
func kindFromButton(text string) (model.Kind, bool) {
	switch text {
	case BtnKindExpense:
		return model.KindExpense, true
	case BtnKindIncome:
		return model.KindIncome, true
	default:
		return 0, false
	}
}
