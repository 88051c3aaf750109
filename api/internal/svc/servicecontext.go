package svc

import (
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/qx/budget_robot/api/internal/config"
	"github.com/qx/budget_robot/api/internal/dialog"
	"github.com/qx/budget_robot/api/internal/messenger"
	"github.com/qx/budget_robot/api/internal/model"
	"github.com/qx/budget_robot/api/internal/rates"
	"github.com/qx/budget_robot/api/internal/render"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

type ServiceContext struct {
	Config    config.Config
	Bot       *tgbotapi.BotAPI
	Messenger messenger.Messenger
	Redis     *redis.Redis
	Dialogs   *dialog.Store
	Location  *time.Location
	Now       func() time.Time

	UserModel            model.UserModel
	CategoryModel        model.CategoryModel
	TransactionModel     model.TransactionModel
	MonthlySnapshotModel model.MonthlySnapshotModel

	Rates    *rates.Fetcher
	Renderer *render.Renderer
}

func NewServiceContext(c config.Config) *ServiceContext {
	bot, err := tgbotapi.NewBotAPI(c.Bot.Token)
	if err != nil {
		panic(err)
	}
	bot.Debug = c.Bot.Debug

	logx.Must(os.MkdirAll(filepath.Dir(c.DataSource), 0o755))
	logx.Must(model.Migrate(c.DataSource))
	conn := model.NewConn(c.DataSource)

	redisClient := redis.MustNewRedis(c.Redis)

	return &ServiceContext{
		Config:    c,
		Bot:       bot,
		Messenger: messenger.NewTelegram(bot),
		Redis:     redisClient,
		Dialogs:   dialog.NewStore(redisClient, c.DialogTTL),
		Location:  c.Location(),
		Now:       time.Now,

		UserModel:            model.NewUserModel(conn),
		CategoryModel:        model.NewCategoryModel(conn),
		TransactionModel:     model.NewTransactionModel(conn),
		MonthlySnapshotModel: model.NewMonthlySnapshotModel(conn),

		Rates: rates.NewFetcher(
			rates.NewNBU(c.Rates.NBUURL, c.Rates.Timeout),
			rates.NewCoinGecko(c.Rates.CoinGeckoURL, c.Rates.CryptoTimeout),
		),
		Renderer: render.NewRenderer(c.Currency),
	}
}
