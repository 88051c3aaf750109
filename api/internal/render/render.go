package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sort"
	"time"

	"github.com/disintegration/imaging"
	"github.com/qx/budget_robot/api/internal/rates"
	"github.com/qx/budget_robot/api/internal/report"
	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 1000
	defaultHeight = 500

	placeholderLabel = "none"
	noDataLabel      = "no data"
)

var (
	incomeColor  = drawing.ColorFromHex("27ae60")
	expenseColor = drawing.ColorFromHex("e74c3c")
	usdColor     = drawing.ColorFromHex("2980b9")
	eurColor     = drawing.ColorFromHex("8e44ad")
	btcColor     = drawing.ColorFromHex("f39c12")
	ethColor     = drawing.ColorFromHex("34495e")
)

// Renderer 生成报告图片，统一输出 PNG
type Renderer struct {
	width    int
	height   int
	currency string
}

func NewRenderer(currency string) *Renderer {
	return &Renderer{
		width:    defaultWidth,
		height:   defaultHeight,
		currency: currency,
	}
}

// CategoryPies 支出与收入饼图并排
func (r *Renderer) CategoryPies(expenses, incomes map[string]decimal.Decimal, p report.Period) ([]byte, error) {
	size := r.width / 2
	left, err := r.pie(fmt.Sprintf("Expenses by category, %s", p), expenses, size)
	if err != nil {
		return nil, fmt.Errorf("expense pie: %w", err)
	}
	right, err := r.pie(fmt.Sprintf("Income by category, %s", p), incomes, size)
	if err != nil {
		return nil, fmt.Errorf("income pie: %w", err)
	}

	return compose(true, left, right)
}

func (r *Renderer) pie(title string, amounts map[string]decimal.Decimal, size int) (image.Image, error) {
	values := make([]chart.Value, 0, len(amounts))
	for name, amount := range amounts {
		if amount.Sign() <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", name, amount.StringFixed(2)),
			Value: amount.InexactFloat64(),
		})
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].Value > values[j].Value
	})
	if len(values) == 0 {
		values = append(values, chart.Value{Label: placeholderLabel, Value: 1})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  size,
		Height: size,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Values: values,
	}

	return renderImage(pie.Render)
}

// DailyExpenses 每日支出折线，并标注最大值
func (r *Renderer) DailyExpenses(daily map[time.Time]decimal.Decimal, p report.Period) ([]byte, error) {
	days := p.DayKeys()
	ys := values(days, daily)

	maxIdx := 0
	for i, y := range ys {
		if y > ys[maxIdx] {
			maxIdx = i
		}
	}

	graph := r.timeChart(fmt.Sprintf("Daily expenses, %s", p), p, r.height, 0, upper(ys))
	graph.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Expenses",
			XValues: days,
			YValues: ys,
			Style:   lineStyle(expenseColor),
		},
		chart.AnnotationSeries{
			Annotations: []chart.Value2{{
				XValue: chart.TimeToFloat64(days[maxIdx]),
				YValue: ys[maxIdx],
				Label:  fmt.Sprintf("max: %.2f", ys[maxIdx]),
			}},
		},
	}

	return renderBytes(graph.Render)
}

// DailyFlow 每日收入与支出两条折线
func (r *Renderer) DailyFlow(incomes, expenses map[time.Time]decimal.Decimal, p report.Period) ([]byte, error) {
	days := p.DayKeys()
	in := values(days, incomes)
	out := values(days, expenses)

	graph := r.timeChart(fmt.Sprintf("Income and expenses per day, %s", p), p, r.height, 0, math.Max(upper(in), upper(out)))
	graph.Series = []chart.Series{
		chart.TimeSeries{Name: "Income", XValues: days, YValues: in, Style: lineStyle(incomeColor)},
		chart.TimeSeries{Name: "Expenses", XValues: days, YValues: out, Style: lineStyle(expenseColor)},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderBytes(graph.Render)
}

// Summary 收入与支出柱状对比
func (r *Renderer) Summary(income, expense decimal.Decimal, p report.Period) ([]byte, error) {
	in := income.InexactFloat64()
	out := expense.InexactFloat64()

	bars := chart.BarChart{
		Title:  fmt.Sprintf("Income vs expenses, %s", p),
		Width:  r.width / 2,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth: 120,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: upper([]float64{in, out})},
		},
		Bars: []chart.Value{
			{Label: "Income " + income.StringFixed(2), Value: in, Style: chart.Style{FillColor: incomeColor, StrokeColor: incomeColor}},
			{Label: "Expenses " + expense.StringFixed(2), Value: out, Style: chart.Style{FillColor: expenseColor, StrokeColor: expenseColor}},
		},
	}

	return renderBytes(bars.Render)
}

// Currencies 上半部分为法币汇率，下半部分为 BTC（左轴）与 ETH（右轴）
func (r *Renderer) Currencies(set rates.Set, p report.Period) ([]byte, error) {
	panelHeight := r.height / 2

	fiat := r.fiatPanel(set, p, panelHeight)
	top, err := renderImage(fiat.Render)
	if err != nil {
		return nil, fmt.Errorf("fiat panel: %w", err)
	}

	crypto := r.cryptoPanel(set, p, panelHeight)
	bottom, err := renderImage(crypto.Render)
	if err != nil {
		return nil, fmt.Errorf("crypto panel: %w", err)
	}

	return compose(false, top, bottom)
}

func (r *Renderer) fiatPanel(set rates.Set, p report.Period, height int) chart.Chart {
	lo, hi := bounds(set.USD, set.EUR)
	graph := r.timeChart(fmt.Sprintf("USD and EUR to %s", r.currency), p, height, lo, hi)

	var series []chart.Series
	if len(set.USD) > 0 {
		series = append(series, sampleSeries(rates.USD, set.USD, usdColor, chart.YAxisPrimary))
	}
	if len(set.EUR) > 0 {
		series = append(series, sampleSeries(rates.EUR, set.EUR, eurColor, chart.YAxisPrimary))
	}
	if len(series) == 0 {
		series = append(series, placeholder(p, lo, chart.YAxisPrimary))
	}
	graph.Series = series
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph
}

func (r *Renderer) cryptoPanel(set rates.Set, p report.Period, height int) chart.Chart {
	lo, hi := bounds(set.Bitcoin)
	graph := r.timeChart("BTC and ETH, USD", p, height, lo, hi)

	var series []chart.Series
	if len(set.Bitcoin) > 0 {
		series = append(series, sampleSeries("BTC", set.Bitcoin, btcColor, chart.YAxisPrimary))
	} else {
		series = append(series, placeholder(p, lo, chart.YAxisPrimary))
	}
	if len(set.Ethereum) > 0 {
		elo, ehi := bounds(set.Ethereum)
		graph.YAxisSecondary = chart.YAxis{
			Range: &chart.ContinuousRange{Min: elo, Max: ehi},
		}
		series = append(series, sampleSeries("ETH", set.Ethereum, ethColor, chart.YAxisSecondary))
	}
	graph.Series = series
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph
}

// timeChart 坐标范围总是显式给出，避免空数据或单点时范围为零
func (r *Renderer) timeChart(title string, p report.Period, height int, ymin, ymax float64) chart.Chart {
	xmin := chart.TimeToFloat64(p.Start)
	xmax := chart.TimeToFloat64(p.End.AddDate(0, 0, 1).Add(-time.Second))
	if ymax <= ymin {
		ymax = ymin + 1
	}

	return chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02.01"),
			Range:          &chart.ContinuousRange{Min: xmin, Max: xmax},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
		},
	}
}

func sampleSeries(name string, samples []rates.Sample, c drawing.Color, axis chart.YAxisType) chart.TimeSeries {
	xs := make([]time.Time, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Date
		ys[i] = s.Rate
	}

	return chart.TimeSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		YAxis:   axis,
		Style:   lineStyle(c),
	}
}

// placeholder 透明序列，保证空面板也能正常渲染
func placeholder(p report.Period, y float64, axis chart.YAxisType) chart.TimeSeries {
	return chart.TimeSeries{
		Name:    noDataLabel,
		XValues: []time.Time{p.Start, p.End},
		YValues: []float64{y, y},
		YAxis:   axis,
		Style: chart.Style{
			StrokeColor: drawing.ColorTransparent,
			StrokeWidth: 1,
		},
	}
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: c,
		StrokeWidth: 2,
		DotColor:    c,
		DotWidth:    3,
	}
}

func values(days []time.Time, amounts map[time.Time]decimal.Decimal) []float64 {
	ys := make([]float64, len(days))
	for i, d := range days {
		ys[i] = amounts[d].InexactFloat64()
	}

	return ys
}

// upper 纵轴上限，比最大值多留 10%
func upper(ys []float64) float64 {
	var hi float64
	for _, y := range ys {
		hi = math.Max(hi, y)
	}
	if hi <= 0 {
		return 1
	}

	return hi * 1.1
}

// bounds 多条序列的纵轴范围，上下各留 2%
func bounds(series ...[]rates.Sample) (float64, float64) {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, samples := range series {
		for _, s := range samples {
			lo = math.Min(lo, s.Rate)
			hi = math.Max(hi, s.Rate)
		}
	}
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		return lo - 1, hi + 1
	}

	return lo * 0.98, hi * 1.02
}

func renderBytes(render func(chart.RendererProvider, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(chart.PNG, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func renderImage(render func(chart.RendererProvider, io.Writer) error) (image.Image, error) {
	data, err := renderBytes(render)
	if err != nil {
		return nil, err
	}

	return imaging.Decode(bytes.NewReader(data))
}

// compose 将两张图横向或纵向拼接为一张 PNG
func compose(horizontal bool, first, second image.Image) ([]byte, error) {
	fb, sb := first.Bounds(), second.Bounds()

	var dst *image.NRGBA
	if horizontal {
		dst = imaging.New(fb.Dx()+sb.Dx(), max(fb.Dy(), sb.Dy()), color.White)
		dst = imaging.Paste(dst, first, image.Pt(0, 0))
		dst = imaging.Paste(dst, second, image.Pt(fb.Dx(), 0))
	} else {
		dst = imaging.New(max(fb.Dx(), sb.Dx()), fb.Dy()+sb.Dy(), color.White)
		dst = imaging.Paste(dst, first, image.Pt(0, 0))
		dst = imaging.Paste(dst, second, image.Pt(0, fb.Dy()))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
