package logic

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/qx/budget_robot/api/internal/config"
	"github.com/qx/budget_robot/api/internal/dialog"
	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/rates"
	"github.com/qx/budget_robot/api/internal/render"
	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

type sentText struct {
	chatID int64
	text   string
	markup any
}

type sentPhoto struct {
	chatID int64
	name   string
	data   []byte
}

type fakeMessenger struct {
	mu     sync.Mutex
	texts  []sentText
	photos []sentPhoto
}

func (f *fakeMessenger) SendText(chatID int64, text string, markup any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, sentText{chatID: chatID, text: text, markup: markup})
	return nil
}

func (f *fakeMessenger) SendPhoto(chatID int64, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, sentPhoto{chatID: chatID, name: name, data: data})
	return nil
}

func (f *fakeMessenger) AnswerCallback(string) error {
	return nil
}

func (f *fakeMessenger) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1].text
}

func (f *fakeMessenger) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = nil
	f.photos = nil
}

type stubFiat map[string][]rates.Sample

func (s stubFiat) Daily(_ context.Context, code string, _, _ time.Time) []rates.Sample { return s[code] }

type stubCrypto map[string][]rates.Sample

func (s stubCrypto) History(_ context.Context, asset string, _, _ time.Time) []rates.Sample {
	return s[asset]
}

var june15 = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestContext(t *testing.T) (*svc.ServiceContext, *fakeMessenger) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "budget.db")
	if err := model.Migrate(path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	conn := model.NewConn(path)

	mr := miniredis.RunT(t)
	rds := redis.MustNewRedis(redis.RedisConf{Host: mr.Addr(), Type: redis.NodeType})

	may := func(d int) time.Time { return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC) }
	msgr := &fakeMessenger{}
	svcCtx := &svc.ServiceContext{
		Config:    config.Config{Currency: "UAH"},
		Messenger: msgr,
		Redis:     rds,
		Dialogs:   dialog.NewStore(rds, 60),
		Location:  time.UTC,
		Now:       func() time.Time { return june15 },

		UserModel:            model.NewUserModel(conn),
		CategoryModel:        model.NewCategoryModel(conn),
		TransactionModel:     model.NewTransactionModel(conn),
		MonthlySnapshotModel: model.NewMonthlySnapshotModel(conn),

		Rates: rates.NewFetcher(
			stubFiat{
				rates.USD: {{Date: may(1), Rate: 40.5}, {Date: may(2), Rate: 41.5}},
				rates.EUR: {{Date: may(1), Rate: 46}},
			},
			stubCrypto{
				rates.Bitcoin: {{Date: may(1), Rate: 94000}, {Date: may(31), Rate: 104000}},
			},
		),
		Renderer: render.NewRenderer("UAH"),
	}

	return svcCtx, msgr
}

// startUser 通过 /start 注册用户并返回其 ID
func startUser(t *testing.T, svcCtx *svc.ServiceContext, telegramID int64) int64 {
	t.Helper()

	ctx := context.Background()
	if err := NewUserLogic(ctx, svcCtx).Start(telegramID, telegramID, "tester", "en"); err != nil {
		t.Fatalf("start: %v", err)
	}
	user, err := svcCtx.UserModel.FindOneByTelegramId(ctx, telegramID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}

	return user.Id
}

func categoryID(t *testing.T, svcCtx *svc.ServiceContext, userID int64, name string) int64 {
	t.Helper()

	categories, err := svcCtx.CategoryModel.FindByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("find categories: %v", err)
	}
	for _, c := range categories {
		if c.Name == name {
			return c.Id
		}
	}

	t.Fatalf("category %s not found", name)
	return 0
}
