package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qx/budget_robot/api/internal/dialog"
	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/rates"
	"github.com/qx/budget_robot/api/internal/report"
	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/zeromicro/go-zero/core/logx"
)

const periodPrompt = "📆 Enter the period as YYYY-MM-DD:YYYY-MM-DD, for example 2025-05-01:2025-05-31"

type (
	Image struct {
		Name string
		Data []byte
	}

	// MonthlyReport 已完整生成、尚未发送的月度报告
	MonthlyReport struct {
		Period   report.Period
		Images   []Image
		Text     string
		Snapshot *model.MonthlySnapshot
	}
)

type ReportLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewReportLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReportLogic {
	return &ReportLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

func (l *ReportLogic) aggregator() *report.Aggregator {
	return report.NewAggregator(l.svcCtx.TransactionModel, l.svcCtx.CategoryModel, l.svcCtx.Location)
}

// MonthlyReport 生成上一个自然月的报告：先发图片，再发文字，最后保存快照
func (l *ReportLogic) MonthlyReport(chatID, telegramID int64) error {
	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return err
	}

	p := report.PreviousMonth(l.svcCtx.Now(), l.svcCtx.Location)
	if err := l.svcCtx.Messenger.SendText(chatID, fmt.Sprintf("⏳ Preparing the report for %s...", p.YearMonth()), nil); err != nil {
		return err
	}

	rep, err := l.BuildMonthly(user.Id, p)
	if err != nil {
		return err
	}

	for _, img := range rep.Images {
		if err := l.svcCtx.Messenger.SendPhoto(chatID, img.Name, img.Data); err != nil {
			return fmt.Errorf("send %s: %w", img.Name, err)
		}
	}
	if err := l.svcCtx.Messenger.SendText(chatID, rep.Text, MainMenu()); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	if err := l.svcCtx.MonthlySnapshotModel.Upsert(l.ctx, rep.Snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	l.Infow("monthly report sent", logx.Field("user", user.Id), logx.Field("month", p.YearMonth()))

	return nil
}

// BuildMonthly 汇总、取汇率、对比上月快照并渲染全部图片与文字
func (l *ReportLogic) BuildMonthly(userID int64, p report.Period) (*MonthlyReport, error) {
	agg, err := l.aggregator().Aggregate(l.ctx, userID, p)
	if err != nil {
		return nil, err
	}

	set := l.svcCtx.Rates.Fetch(l.ctx, p.Start, p.End)
	agg.AvgUSD = rates.Average(set.USD)
	agg.AvgEUR = rates.Average(set.EUR)

	prev, err := l.svcCtx.MonthlySnapshotModel.FindOneByUserYearMonth(l.ctx, userID, p.PreviousYearMonth())
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("find previous snapshot: %w", err)
	}
	cmp := report.Compare(agg, prev)

	r := l.svcCtx.Renderer
	pies, err := r.CategoryPies(agg.CategoryExpenses, agg.CategoryIncomes, p)
	if err != nil {
		return nil, fmt.Errorf("render pies: %w", err)
	}
	line, err := r.DailyExpenses(agg.DailyExpenses, p)
	if err != nil {
		return nil, fmt.Errorf("render daily expenses: %w", err)
	}
	bar, err := r.Summary(agg.TotalIncome, agg.TotalExpense, p)
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	currencies, err := r.Currencies(set, p)
	if err != nil {
		return nil, fmt.Errorf("render currencies: %w", err)
	}

	return &MonthlyReport{
		Period: p,
		Images: []Image{
			{Name: "categories.png", Data: pies},
			{Name: "daily.png", Data: line},
			{Name: "summary.png", Data: bar},
			{Name: "currencies.png", Data: currencies},
		},
		Text:     report.Summary(agg, cmp, l.svcCtx.Config.Currency),
		Snapshot: report.NewSnapshot(userID, agg),
	}, nil
}

func (l *ReportLogic) Menu(chatID int64) error {
	return l.svcCtx.Messenger.SendText(chatID, "📆 Choose a report:", ReportMenu())
}

// BeginPeriod 记录报告类型并等待用户输入区间
func (l *ReportLogic) BeginPeriod(chatID, telegramID int64, kind string) error {
	if err := l.svcCtx.Dialogs.Save(l.ctx, chatID, telegramID, &dialog.State{
		Step:   dialog.StepPeriod,
		Report: kind,
	}); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID, periodPrompt, backKeyboard())
}

// PeriodReport 区间格式错误时只回复一条提示，不生成任何内容
func (l *ReportLogic) PeriodReport(chatID, telegramID int64, kind, input string) error {
	if err := l.svcCtx.Dialogs.Clear(l.ctx, chatID, telegramID); err != nil {
		return err
	}

	p, err := report.ParsePeriod(input)
	if err != nil {
		return l.svcCtx.Messenger.SendText(chatID, "❌ Invalid format. Use YYYY-MM-DD:YYYY-MM-DD.", ReportMenu())
	}

	user, err := ensureUser(l.ctx, l.svcCtx, telegramID)
	if err != nil {
		return err
	}

	if kind == ReportTransactions {
		text, err := l.transactionList(user.Id, p)
		if err != nil {
			return err
		}
		return l.svcCtx.Messenger.SendText(chatID, text, ReportMenu())
	}

	agg, err := l.aggregator().Aggregate(l.ctx, user.Id, p)
	if err != nil {
		return err
	}

	var (
		img     []byte
		caption string
	)
	switch kind {
	case ReportPie:
		img, err = l.svcCtx.Renderer.CategoryPies(agg.CategoryExpenses, agg.CategoryIncomes, p)
		caption = fmt.Sprintf("📊 Categories for %s", p)
	case ReportLines:
		img, err = l.svcCtx.Renderer.DailyFlow(agg.DailyIncomes, agg.DailyExpenses, p)
		caption = fmt.Sprintf("📈 Income and expenses per day for %s", p)
	case ReportSummary:
		img, err = l.svcCtx.Renderer.Summary(agg.TotalIncome, agg.TotalExpense, p)
		caption = report.Totals(agg, l.svcCtx.Config.Currency)
	default:
		return fmt.Errorf("unknown report kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("render %s report: %w", kind, err)
	}

	if err := l.svcCtx.Messenger.SendPhoto(chatID, kind+".png", img); err != nil {
		return err
	}

	return l.svcCtx.Messenger.SendText(chatID, caption, ReportMenu())
}

// transactionList 按日期分组列出区间内的交易
func (l *ReportLogic) transactionList(userID int64, p report.Period) (string, error) {
	from, to := p.Bounds(l.svcCtx.Location)
	txs, err := l.svcCtx.TransactionModel.FindByUserInRange(l.ctx, userID, from, to)
	if err != nil {
		return "", fmt.Errorf("find transactions: %w", err)
	}
	if len(txs) == 0 {
		return fmt.Sprintf("📝 No transactions for %s.", p), nil
	}

	categories, err := l.svcCtx.CategoryModel.FindByUser(l.ctx, userID)
	if err != nil {
		return "", fmt.Errorf("find categories: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.Id] = c.Name
	}

	var (
		sb      strings.Builder
		lastDay time.Time
	)
	sb.WriteString(fmt.Sprintf("📝 Transactions for %s\n", p))
	for _, tx := range txs {
		day := report.Day(tx.OccurredAt, l.svcCtx.Location)
		if !day.Equal(lastDay) {
			sb.WriteString("\n" + day.Format(time.DateOnly) + "\n")
			lastDay = day
		}

		name, ok := names[tx.CategoryId]
		if !ok {
			name = "deleted category"
		}
		note := "no description"
		if tx.Note.Valid && tx.Note.String != "" {
			note = tx.Note.String
		}

		sb.WriteString(fmt.Sprintf("- [%s] %s %s %s (%s)\n",
			tx.Kind, name, tx.Amount.StringFixed(2), l.svcCtx.Config.Currency, note))
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
