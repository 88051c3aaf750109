package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/jsonx"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpc"
)

var ErrRateNotFound = errors.New("rate not found")

type (
	nbuRequest struct {
		Date string `form:"date"`
	}

	// nbuRate 国家银行接口返回的单条汇率
	nbuRate struct {
		R030         int     `json:"r030"`
		Txt          string  `json:"txt"`
		Rate         float64 `json:"rate"`
		Cc           string  `json:"cc"`
		ExchangeDate string  `json:"exchangedate"`
	}
)

// NBU 乌克兰国家银行每日官方汇率
type NBU struct {
	svc     httpc.Service
	url     string
	timeout time.Duration
}

func NewNBU(url string, timeout time.Duration) *NBU {
	return &NBU{
		svc:     httpc.NewServiceWithClient("nbu", &http.Client{Timeout: timeout}),
		url:     url,
		timeout: timeout,
	}
}

// Daily 对区间内每一天单独请求一次，失败的日期直接跳过
func (c *NBU) Daily(ctx context.Context, code string, start, end time.Time) []Sample {
	var samples []Sample
	last := civilDate(end)
	for day := civilDate(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		rate, err := c.rate(ctx, code, day)
		if err != nil {
			logx.WithContext(ctx).Debugf("nbu %s rate for %s: %v", code, day.Format(time.DateOnly), err)
			continue
		}

		samples = append(samples, Sample{Date: day, Rate: rate})
	}

	return samples
}

func (c *NBU) rate(ctx context.Context, code string, day time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Do(ctx, http.MethodGet, c.url, nbuRequest{Date: day.Format("20060102")})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}

	var list []nbuRate
	if err := jsonx.Unmarshal(body, &list); err != nil {
		return 0, fmt.Errorf("decode body: %w", err)
	}

	for _, r := range list {
		if strings.EqualFold(r.Cc, code) {
			return r.Rate, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrRateNotFound, code)
}
