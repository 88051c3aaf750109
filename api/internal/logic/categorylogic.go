package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qx/budget_robot/api/internal/dialog"
	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/qx/budget_robot/api/internal/types"
	"github.com/zeromicro/go-zero/core/logx"
)

type CategoryLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewCategoryLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CategoryLogic {
	return &CategoryLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

func (l *CategoryLogic) Menu(chatID int64) error {
	return l.svcCtx.Messenger.SendText(chatID, "📂 Category management:", CategoryMenu())
}

// List 列出用户的所有分类
func (l *CategoryLogic) List(chatID, telegramID int64) error {
	categories, err := l.categories(telegramID)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return l.svcCtx.Messenger.SendText(chatID, "You have no categories yet.", CategoryMenu())
	}

	var sb strings.Builder
	sb.WriteString("📑 Your categories:\n")
	for _, c := range categories {
		origin := "Custom"
		if c.IsDefault {
			origin = "Default"
		}
		sb.WriteString(fmt.Sprintf("• %s [%s] (%s)\n", c.Name, c.Kind.Title(), origin))
	}

	return l.svcCtx.Messenger.SendText(chatID, sb.String(), CategoryMenu())
}

// BeginAdd 新建分类：先选类型
func (l *CategoryLogic) BeginAdd(chatID, telegramID int64) error {
	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, &dialog.State{Step: dialog.StepNewCategoryKind}); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID, "Choose the category type:", kindKeyboard())
}

func (l *CategoryLogic) HandleNewKind(chatID, telegramID int64, st *dialog.State, text string) error {
	kind, ok := kindFromButton(text)
	if !ok {
		return l.svcCtx.Messenger.SendText(chatID, "Please choose Expense or Income.", kindKeyboard())
	}

	st.Step = dialog.StepNewCategoryName
	st.Kind = kind
	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, st); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID, "Enter the category name:", backKeyboard())
}

func (l *CategoryLogic) HandleNewName(chatID, telegramID int64, st *dialog.State, text string) error {
	name, err := types.ParseCategoryName(text)
	if err != nil {
		return l.svcCtx.Messenger.SendText(chatID, "❌ The name cannot be empty, try again:", backKeyboard())
	}

	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return err
	}

	if _, err := l.svcCtx.CategoryModel.Insert(l.ctx, &model.Category{
		UserId: user.Id,
		Name:   name,
		Kind:   st.Kind,
	}); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	if err := l.svcCtx.Dialogs.Clear(l.ctx, chatID, telegramID); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID,
		fmt.Sprintf("✅ Category %s (%s) added.", name, st.Kind.Title()), CategoryMenu())
}

// BeginEdit 选择要修改的分类
func (l *CategoryLogic) BeginEdit(chatID, telegramID int64) error {
	return l.beginPick(chatID, telegramID, dialog.StepEditPick, CallbackEdit, "✏️ Choose a category to edit:")
}

func (l *CategoryLogic) HandleEditPick(chatID, telegramID int64, st *dialog.State, categoryID int64) error {
	category, err := l.owned(telegramID, categoryID)
	if errors.Is(err, model.ErrNotFound) {
		return l.svcCtx.Messenger.SendText(chatID, "❌ Category not found.", CategoryMenu())
	}
	if err != nil {
		return err
	}

	st.Step = dialog.StepEditField
	st.CategoryId = category.Id
	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, st); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID,
		fmt.Sprintf("What do you want to change in %s?", category.Name), editFieldKeyboard())
}

func (l *CategoryLogic) HandleEditField(chatID, telegramID int64, st *dialog.State, text string) error {
	switch text {
	case BtnRename:
		st.Step = dialog.StepEditName
		if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, st); err != nil {
			return err
		}
		return l.svcCtx.Messenger.SendText(chatID, "Enter the new name:", backKeyboard())
	case BtnRetype:
		st.Step = dialog.StepEditKind
		if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, st); err != nil {
			return err
		}
		return l.svcCtx.Messenger.SendText(chatID, "Choose the new type:", kindKeyboard())
	default:
		return l.svcCtx.Messenger.SendText(chatID, "Please use the buttons below.", editFieldKeyboard())
	}
}

// HandleEditName 修改名称后分类不再是默认分类
func (l *CategoryLogic) HandleEditName(chatID, telegramID int64, st *dialog.State, text string) error {
	name, err := types.ParseCategoryName(text)
	if err != nil {
		return l.svcCtx.Messenger.SendText(chatID, "❌ The name cannot be empty, try again:", backKeyboard())
	}

	return l.update(chatID, telegramID, st.CategoryId, func(c *model.Category) {
		c.Name = name
	})
}

func (l *CategoryLogic) HandleEditKind(chatID, telegramID int64, st *dialog.State, text string) error {
	kind, ok := kindFromButton(text)
	if !ok {
		return l.svcCtx.Messenger.SendText(chatID, "Please choose Expense or Income.", kindKeyboard())
	}

	return l.update(chatID, telegramID, st.CategoryId, func(c *model.Category) {
		c.Kind = kind
	})
}

func (l *CategoryLogic) update(chatID, telegramID, categoryID int64, apply func(c *model.Category)) error {
	category, err := l.owned(telegramID, categoryID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	if err := l.svcCtx.Dialogs.Clear(l.ctx, chatID, telegramID); err != nil {
		return err
	}
	if category == nil {
		return l.svcCtx.Messenger.SendText(chatID, "❌ Category not found.", CategoryMenu())
	}

	apply(category)
	category.IsDefault = false
	if err := l.svcCtx.CategoryModel.Update(l.ctx, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	return l.svcCtx.Messenger.SendText(chatID,
		fmt.Sprintf("✅ Category updated: %s (%s).", category.Name, category.Kind.Title()), CategoryMenu())
}

// BeginDelete 选择要删除的分类
func (l *CategoryLogic) BeginDelete(chatID, telegramID int64) error {
	return l.beginPick(chatID, telegramID, dialog.StepDeletePick, CallbackDelete, "🗑️ Choose a category to delete:")
}

func (l *CategoryLogic) HandleDeletePick(chatID, telegramID int64, st *dialog.State, categoryID int64) error {
	category, err := l.owned(telegramID, categoryID)
	if errors.Is(err, model.ErrNotFound) {
		return l.svcCtx.Messenger.SendText(chatID, "❌ Category not found.", CategoryMenu())
	}
	if err != nil {
		return err
	}

	st.Step = dialog.StepDeleteConfirm
	st.CategoryId = category.Id
	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, st); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID,
		fmt.Sprintf("Delete %s? Its transactions will stay in the totals.", category.Name), confirmButtons())
}

// HandleDeleteConfirm 删除分类，已有交易保留
func (l *CategoryLogic) HandleDeleteConfirm(chatID, telegramID int64, st *dialog.State, answer string) error {
	if err := l.svcCtx.Dialogs.Clear(l.ctx, chatID, telegramID); err != nil {
		return err
	}
	if answer != confirmYes {
		return l.svcCtx.Messenger.SendText(chatID, "Deletion cancelled.", CategoryMenu())
	}

	category, err := l.owned(telegramID, st.CategoryId)
	if errors.Is(err, model.ErrNotFound) {
		return l.svcCtx.Messenger.SendText(chatID, "❌ Category not found.", CategoryMenu())
	}
	if err != nil {
		return err
	}

	if err := l.svcCtx.CategoryModel.Delete(l.ctx, category.Id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	l.Infow("category deleted", logx.Field("user", category.UserId), logx.Field("category", category.Id))

	return l.svcCtx.Messenger.SendText(chatID, fmt.Sprintf("✅ Category %s deleted.", category.Name), CategoryMenu())
}

func (l *CategoryLogic) beginPick(chatID, telegramID int64, step dialog.Step, prefix, prompt string) error {
	categories, err := l.categories(telegramID)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return l.svcCtx.Messenger.SendText(chatID, "You have no categories yet.", CategoryMenu())
	}

	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, &dialog.State{Step: step}); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID, prompt, categoryButtons(prefix, categories))
}

func (l *CategoryLogic) categories(telegramID int64) ([]*model.Category, error) {
	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return nil, err
	}

	categories, err := l.svcCtx.CategoryModel.FindByUser(l.ctx, user.Id)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}

	return categories, nil
}

func (l *CategoryLogic) owned(telegramID, categoryID int64) (*model.Category, error) {
	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return nil, err
	}

	return ownedCategory(l.ctx, l.svcCtx, user.Id, categoryID)
}
