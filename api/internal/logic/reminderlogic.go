package logic

import (
	"context"
	"fmt"

	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/zeromicro/go-zero/core/logx"
)

const reminderText = "⏰ Don't forget to log today's expenses!"

type ReminderLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewReminderLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReminderLogic {
	return &ReminderLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// SendDaily 给所有用户发送每日提醒，单个用户失败不影响其他用户
func (l *ReminderLogic) SendDaily() (int, error) {
	users, err := l.svcCtx.UserModel.FindAll(l.ctx)
	if err != nil {
		return 0, fmt.Errorf("find users: %w", err)
	}

	var sent int
	for _, u := range users {
		if err := l.svcCtx.Messenger.SendText(u.TelegramId, reminderText, MainMenu()); err != nil {
			l.Errorf("send reminder to %d: %v", u.TelegramId, err)
			continue
		}
		sent++
	}

	return sent, nil
}

// SendMonthlyReports 给所有用户生成并发送上月报告
func (l *ReminderLogic) SendMonthlyReports() (int, error) {
	users, err := l.svcCtx.UserModel.FindAll(l.ctx)
	if err != nil {
		return 0, fmt.Errorf("find users: %w", err)
	}

	var sent int
	for _, u := range users {
		if err := NewReportLogic(l.ctx, l.svcCtx).MonthlyReport(u.TelegramId, u.TelegramId); err != nil {
			l.Errorf("monthly report for %d: %v", u.TelegramId, err)
			continue
		}
		sent++
	}

	return sent, nil
}
