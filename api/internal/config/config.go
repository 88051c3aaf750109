package config

import (
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

type Config struct {
	service.ServiceConf

	Bot struct {
		Token   string
		Debug   bool `json:",default=false"`
		Timeout int  `json:",default=60"`
	}
	Redis redis.RedisConf

	// SQLite 数据库文件
	DataSource string `json:",default=data/budget.db"`
	Timezone   string `json:",default=Europe/Kyiv"`
	Currency   string `json:",default=UAH"`
	// 对话状态过期时间（秒）
	DialogTTL int `json:",default=1800"`

	Rates    RatesConf
	Schedule ScheduleConf
}

type RatesConf struct {
	NBUURL        string        `json:",default=https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange?json"`
	CoinGeckoURL  string        `json:",default=https://api.coingecko.com/api/v3"`
	Timeout       time.Duration `json:",default=5s"`
	CryptoTimeout time.Duration `json:",default=10s"`
}

type ScheduleConf struct {
	Reminder      string `json:",default=0 20 * * *"`
	MonthlyReport string `json:",optional"`
}

// Location 返回配置的时区，解析失败时回退到 UTC
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logx.Errorf("load timezone %q: %v, falling back to UTC", c.Timezone, err)
		return time.UTC
	}

	return loc
}
