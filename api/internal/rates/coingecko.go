package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/zeromicro/go-zero/core/jsonx"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpc"
)

const vsCurrency = "usd"

type (
	marketChartRequest struct {
		Id         string `path:"id"`
		VsCurrency string `form:"vs_currency"`
		Days       int    `form:"days"`
	}

	// marketChart 只关心 prices: [[毫秒时间戳, 价格], ...]
	marketChart struct {
		Prices [][]float64 `json:"prices"`
	}
)

// CoinGecko 加密货币历史价格，每个资产一次请求，在本地按日期过滤
type CoinGecko struct {
	svc     httpc.Service
	baseURL string
	timeout time.Duration
	now     func() time.Time
}

func NewCoinGecko(baseURL string, timeout time.Duration) *CoinGecko {
	return &CoinGecko{
		svc:     httpc.NewServiceWithClient("coingecko", &http.Client{Timeout: timeout}),
		baseURL: baseURL,
		timeout: timeout,
		now:     time.Now,
	}
}

func (c *CoinGecko) History(ctx context.Context, asset string, start, end time.Time) []Sample {
	samples, err := c.history(ctx, asset, civilDate(start), civilDate(end))
	if err != nil {
		logx.WithContext(ctx).Debugf("coingecko %s history: %v", asset, err)
		return nil
	}

	return samples
}

// windowDays 接口只支持“最近 N 天”，窗口需要覆盖到区间起点
func (c *CoinGecko) windowDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	if back := int(civilDate(c.now().UTC()).Sub(start).Hours()/24) + 1; back > days {
		days = back
	}

	return days
}

func (c *CoinGecko) history(ctx context.Context, asset string, start, end time.Time) ([]Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Do(ctx, http.MethodGet, c.baseURL+"/coins/:id/market_chart", marketChartRequest{
		Id:         asset,
		VsCurrency: vsCurrency,
		Days:       c.windowDays(start, end),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var chart marketChart
	if err := jsonx.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	var samples []Sample
	for _, p := range chart.Prices {
		if len(p) < 2 {
			continue
		}

		ts := time.UnixMilli(int64(p[0])).UTC()
		day := civilDate(ts)
		if day.Before(start) || day.After(end) {
			continue
		}

		samples = append(samples, Sample{Date: ts, Rate: p[1]})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Date.Before(samples[j].Date)
	})

	return samples, nil
}
