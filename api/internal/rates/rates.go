package rates

import (
	"context"
	"time"
)

const (
	USD      = "USD"
	EUR      = "EUR"
	Bitcoin  = "bitcoin"
	Ethereum = "ethereum"
)

// Sample 某一时刻的汇率或价格
type Sample struct {
	Date time.Time
	Rate float64
}

// Set 一次报告使用的四条序列
type Set struct {
	USD      []Sample
	EUR      []Sample
	Bitcoin  []Sample
	Ethereum []Sample
}

// Average 算术平均值，空序列返回 0
func Average(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += s.Rate
	}

	return sum / float64(len(samples))
}

type (
	FiatSource interface {
		Daily(ctx context.Context, code string, start, end time.Time) []Sample
	}

	CryptoSource interface {
		History(ctx context.Context, asset string, start, end time.Time) []Sample
	}
)

type Fetcher struct {
	fiat   FiatSource
	crypto CryptoSource
}

func NewFetcher(fiat FiatSource, crypto CryptoSource) *Fetcher {
	return &Fetcher{
		fiat:   fiat,
		crypto: crypto,
	}
}

// Fetch 依次获取 USD、EUR、BTC、ETH，失败的部分为空序列
func (f *Fetcher) Fetch(ctx context.Context, start, end time.Time) Set {
	return Set{
		USD:      f.fiat.Daily(ctx, USD, start, end),
		EUR:      f.fiat.Daily(ctx, EUR, start, end),
		Bitcoin:  f.crypto.History(ctx, Bitcoin, start, end),
		Ethereum: f.crypto.History(ctx, Ethereum, start, end),
	}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
