package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/qx/budget_robot/api/internal/rates"
	"github.com/qx/budget_robot/api/internal/report"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mustPNG 校验渲染结果是合法的非空 PNG，返回图片尺寸
func mustPNG(t *testing.T) func([]byte, error) (int, int) {
	return func(data []byte, err error) (int, int) {
		t.Helper()
		return checkPNG(t, data, err)
	}
}

func checkPNG(t *testing.T, data []byte, err error) (int, int) {
	t.Helper()

	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty image")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a png: %v", err)
	}

	return cfg.Width, cfg.Height
}

func TestRenderEmptyData(t *testing.T) {
	r := NewRenderer("UAH")
	p := report.Period{Start: date(2025, 5, 1), End: date(2025, 5, 31)}
	agg := report.NewAggregate(p)

	w, h := mustPNG(t)(r.CategoryPies(agg.CategoryExpenses, agg.CategoryIncomes, p))
	if w != defaultWidth || h != defaultWidth/2 {
		t.Fatalf("unexpected pie size %dx%d", w, h)
	}

	mustPNG(t)(r.DailyExpenses(agg.DailyExpenses, p))
	mustPNG(t)(r.DailyFlow(agg.DailyIncomes, agg.DailyExpenses, p))
	mustPNG(t)(r.Summary(agg.TotalIncome, agg.TotalExpense, p))

	w, h = mustPNG(t)(r.Currencies(rates.Set{}, p))
	if w != defaultWidth || h != defaultHeight {
		t.Fatalf("unexpected currency size %dx%d", w, h)
	}
}

func TestRenderSingleDayPeriod(t *testing.T) {
	r := NewRenderer("UAH")
	p := report.Period{Start: date(2025, 5, 3), End: date(2025, 5, 3)}
	daily := map[time.Time]decimal.Decimal{date(2025, 5, 3): decimal.NewFromInt(100)}

	mustPNG(t)(r.DailyExpenses(daily, p))
	mustPNG(t)(r.DailyFlow(daily, daily, p))
	mustPNG(t)(r.Currencies(rates.Set{
		USD:     []rates.Sample{{Date: date(2025, 5, 3), Rate: 41.5}},
		Bitcoin: []rates.Sample{{Date: date(2025, 5, 3).Add(time.Hour), Rate: 95000}},
	}, p))
}

func TestRenderWithData(t *testing.T) {
	r := NewRenderer("UAH")
	p := report.Period{Start: date(2025, 5, 1), End: date(2025, 5, 31)}
	agg := report.NewAggregate(p)
	agg.CategoryExpenses["Food"] = decimal.NewFromInt(150)
	agg.CategoryExpenses["Transport"] = decimal.NewFromInt(40)
	agg.CategoryIncomes["Salary"] = decimal.NewFromInt(1000)
	agg.DailyExpenses[date(2025, 5, 3)] = decimal.NewFromInt(100)
	agg.DailyExpenses[date(2025, 5, 20)] = decimal.NewFromInt(90)
	agg.DailyIncomes[date(2025, 5, 1)] = decimal.NewFromInt(1000)

	mustPNG(t)(r.CategoryPies(agg.CategoryExpenses, agg.CategoryIncomes, p))
	mustPNG(t)(r.DailyExpenses(agg.DailyExpenses, p))
	mustPNG(t)(r.DailyFlow(agg.DailyIncomes, agg.DailyExpenses, p))
	mustPNG(t)(r.Summary(decimal.NewFromInt(1000), decimal.NewFromInt(190), p))

	var set rates.Set
	for i, d := range p.DayKeys() {
		set.USD = append(set.USD, rates.Sample{Date: d, Rate: 41 + float64(i)/100})
		set.EUR = append(set.EUR, rates.Sample{Date: d, Rate: 46 + float64(i)/100})
		set.Bitcoin = append(set.Bitcoin, rates.Sample{Date: d, Rate: 90000 + float64(i*100)})
		set.Ethereum = append(set.Ethereum, rates.Sample{Date: d, Rate: 1800 + float64(i*10)})
	}
	mustPNG(t)(r.Currencies(set, p))
}

func TestBounds(t *testing.T) {
	lo, hi := bounds(nil, nil)
	if lo != 0 || hi != 1 {
		t.Fatalf("empty bounds = %v %v", lo, hi)
	}

	lo, hi = bounds([]rates.Sample{{Rate: 5}})
	if lo != 4 || hi != 6 {
		t.Fatalf("flat bounds = %v %v", lo, hi)
	}
}
