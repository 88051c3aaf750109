package logic

import (
	"context"
	"errors"

	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/svc"
)

const msgSomethingWrong = "⚠️ Something went wrong, please try again."

// ensureUser 按 Telegram ID 查找用户，不存在时创建
func ensureUser(ctx context.Context, svcCtx *svc.ServiceContext, telegramID int64) (*model.User, error) {
	user, err := svcCtx.UserModel.FindOneByTelegramId(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	if _, err := svcCtx.UserModel.Insert(ctx, &model.User{TelegramId: telegramID}); err != nil {
		return nil, err
	}

	return svcCtx.UserModel.FindOneByTelegramId(ctx, telegramID)
}

// ownedCategory 只返回属于该用户的分类
func ownedCategory(ctx context.Context, svcCtx *svc.ServiceContext, userID, categoryID int64) (*model.Category, error) {
	c, err := svcCtx.CategoryModel.FindOne(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c.UserId != userID {
		return nil, model.ErrNotFound
	}

	return c, nil
}

// ReplyError 发送通用错误提示
func ReplyError(svcCtx *svc.ServiceContext, chatID int64) {
	_ = svcCtx.Messenger.SendText(chatID, msgSomethingWrong, MainMenu())
}
