package main

import (
	"flag"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/qx/budget_robot/api/internal/config"
	"github.com/qx/budget_robot/api/internal/handler"
	"github.com/qx/budget_robot/api/internal/job"
	"github.com/qx/budget_robot/api/internal/svc"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/proc"
	"github.com/zeromicro/go-zero/core/threading"
)

var configFile = flag.String("f", "etc/budget.yaml", "the config file")

func main() {
	flag.Parse()

	// 本地开发时从 .env 读取环境变量，文件不存在时忽略
	_ = godotenv.Load()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())
	c.MustSetUp()

	ctx := svc.NewServiceContext(c)
	handler := handler.NewBotHandler(ctx)

	// 设置命令列表
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Show the main menu",
		},
		{
			Command:     "help",
			Description: "How to use the bot",
		},
		{
			Command:     "report",
			Description: "Monthly report for the previous month",
		},
		{
			Command:     "cancel",
			Description: "Cancel the current input",
		},
	}
	if _, err := ctx.Bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		logx.Errorf("set commands: %v", err)
	}

	scheduler, err := job.NewScheduler(ctx)
	logx.Must(err)
	scheduler.Start()
	proc.AddShutdownListener(scheduler.Stop)

	// 获取机器人信息
	me, err := ctx.Bot.GetMe()
	logx.Must(err)
	logx.Infof("bot started: @%s", me.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.Bot.Timeout
	updates := ctx.Bot.GetUpdatesChan(u)

	for update := range updates {
		threading.RunSafe(func() {
			handler.HandleUpdate(update)
		})
	}
}
