package logic

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/zeromicro/go-zero/core/logx"
)

var defaultCategories = []struct {
	name string
	kind model.Kind
}{
	{name: "Food", kind: model.KindExpense},
	{name: "Transport", kind: model.KindExpense},
	{name: "Entertainment", kind: model.KindExpense},
	{name: "Other expenses", kind: model.KindExpense},
	{name: "Salary", kind: model.KindIncome},
	{name: "Side job", kind: model.KindIncome},
}

const helpText = "📖 How to use the budget bot:\n\n" +
	"➕ Expense / ➕ Income - log a transaction (amount, category, optional note)\n" +
	"📂 Categories - list, add, edit or delete your categories\n" +
	"📆 Period report - charts and lists for any date range\n" +
	"📅 Monthly report - full report for the previous month\n\n" +
	"Commands:\n" +
	"/start - show the main menu\n" +
	"/report - monthly report for the previous month\n" +
	"/cancel - cancel the current input\n" +
	"/help - show this message"

type UserLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewUserLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UserLogic {
	return &UserLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Start 注册用户，首次使用时创建默认分类，并显示主菜单
func (l *UserLogic) Start(chatID, telegramID int64, username, language string) error {
	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	if user.Username.String != username || user.Language.String != language {
		user.Username = sql.NullString{String: username, Valid: username != ""}
		user.Language = sql.NullString{String: language, Valid: language != ""}
		if err := l.svcCtx.UserModel.Update(l.ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
	}

	created, err := l.provisionDefaults(user.Id)
	if err != nil {
		return err
	}
	if created > 0 {
		l.Infow("default categories created", logx.Field("user", user.Id), logx.Field("count", created))
	}

	return l.svcCtx.Messenger.SendText(chatID,
		"👋 Hi! I will help you keep track of your income and expenses.\nChoose an action:", MainMenu())
}

// provisionDefaults 用户没有任何分类时创建默认分类
func (l *UserLogic) provisionDefaults(userID int64) (int, error) {
	existing, err := l.svcCtx.CategoryModel.FindByUser(l.ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("find categories: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, c := range defaultCategories {
		if _, err := l.svcCtx.CategoryModel.Insert(l.ctx, &model.Category{
			UserId:    userID,
			Name:      c.name,
			Kind:      c.kind,
			IsDefault: true,
		}); err != nil {
			return 0, fmt.Errorf("insert default category %s: %w", c.name, err)
		}
	}

	return len(defaultCategories), nil
}

func (l *UserLogic) Help(chatID int64) error {
	return l.svcCtx.Messenger.SendText(chatID, helpText, MainMenu())
}

// Cancel 清除进行中的对话
func (l *UserLogic) Cancel(chatID, telegramID int64) error {
	if err := l.svcCtx.Dialogs.Clear(l.ctx, chatID, telegramID); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID, "Cancelled.", MainMenu())
}

func (l *UserLogic) Fallback(chatID int64) error {
	return l.svcCtx.Messenger.SendText(chatID,
		"🤔 Sorry, I don't understand. Use the menu below or /help.", MainMenu())
}
