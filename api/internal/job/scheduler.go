package job

import (
	"context"
	"fmt"

	"github.com/qx/budget_robot/api/internal/logic"
	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/robfig/cron/v3"
	"github.com/zeromicro/go-zero/core/logx"
)

// cronLogger 把 cron 的日志转到 logx
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logx.Infow(msg, fields(keysAndValues)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logx.Errorw(msg, append(fields(keysAndValues), logx.Field("error", err.Error()))...)
}

func fields(keysAndValues []any) []logx.LogField {
	out := make([]logx.LogField, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out = append(out, logx.Field(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}

	return out
}

type Scheduler struct {
	svcCtx *svc.ServiceContext
	cron   *cron.Cron
}

// NewScheduler 注册每日提醒和月度报告任务，MonthlyReport 为空时不注册
func NewScheduler(svcCtx *svc.ServiceContext) (*Scheduler, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(svcCtx.Location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
	s := &Scheduler{
		svcCtx: svcCtx,
		cron:   c,
	}

	if _, err := c.AddFunc(svcCtx.Config.Schedule.Reminder, s.reminder); err != nil {
		return nil, fmt.Errorf("schedule reminder %q: %w", svcCtx.Config.Schedule.Reminder, err)
	}
	if spec := svcCtx.Config.Schedule.MonthlyReport; spec != "" {
		if _, err := c.AddFunc(spec, s.monthlyReports); err != nil {
			return nil, fmt.Errorf("schedule monthly report %q: %w", spec, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) reminder() {
	ctx := context.Background()
	sent, err := logic.NewReminderLogic(ctx, s.svcCtx).SendDaily()
	if err != nil {
		logx.WithContext(ctx).Errorf("daily reminder: %v", err)
		return
	}

	logx.WithContext(ctx).Infow("daily reminder sent", logx.Field("users", sent))
}

func (s *Scheduler) monthlyReports() {
	ctx := context.Background()
	sent, err := logic.NewReminderLogic(ctx, s.svcCtx).SendMonthlyReports()
	if err != nil {
		logx.WithContext(ctx).Errorf("monthly reports: %v", err)
		return
	}

	logx.WithContext(ctx).Infow("monthly reports sent", logx.Field("users", sent))
}
