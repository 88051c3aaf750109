package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Period 闭区间 [Start, End]，两端都是 UTC 零点表示的日历日
type Period struct {
	Start time.Time
	End   time.Time
}

// Day 返回 t 在 loc 时区下的日历日
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{
		Start: Day(start, start.Location()),
		End:   Day(end, end.Location()),
	}
	if p.End.Before(p.Start) {
		return Period{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidPeriod,
			p.End.Format(time.DateOnly), p.Start.Format(time.DateOnly))
	}

	return p, nil
}

// PreviousMonth 返回 now 所在月份的上一个自然月
func PreviousMonth(now time.Time, loc *time.Location) Period {
	today := Day(now, loc)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	return Period{
		Start: first.AddDate(0, -1, 0),
		End:   first.AddDate(0, 0, -1),
	}
}

// ParsePeriod 解析 "YYYY-MM-DD:YYYY-MM-DD"
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)

	var parts []string
	if strings.Contains(s, ":") {
		parts = strings.Split(s, ":")
	} else {
		parts = strings.Fields(s)
		if len(parts) == 3 && parts[1] == "-" {
			parts = []string{parts[0], parts[2]}
		}
	}
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}

	start, err := time.Parse(time.DateOnly, strings.TrimSpace(parts[0]))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}
	end, err := time.Parse(time.DateOnly, strings.TrimSpace(parts[1]))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}

	return NewPeriod(start, end)
}

func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// DayKeys 区间内每一天，升序
func (p Period) DayKeys() []time.Time {
	keys := make([]time.Time, 0, p.Days())
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d)
	}

	return keys
}

// Bounds 返回 loc 时区下的 [from, to) 时间范围
func (p Period) Bounds(loc *time.Location) (time.Time, time.Time) {
	from := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, loc)
	next := p.End.AddDate(0, 0, 1)
	to := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, loc)

	return from, to
}

// YearMonth 快照使用的月份键
func (p Period) YearMonth() string {
	return p.Start.Format("2006-01")
}

// PreviousYearMonth 起始日所在月份的上一个月
func (p Period) PreviousYearMonth() string {
	first := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -1, 0).Format("2006-01")
}

func (p Period) String() string {
	return p.Start.Format(time.DateOnly) + " - " + p.End.Format(time.DateOnly)
}
