package presence

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// ClockTime: 時刻（日付なし）
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return ClockTime{}, err
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// SecondsSinceMidnight: 0..86399
func SecondsSinceMidnight(t ClockTime) int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Interval: end - start（秒）。end < start なら負の値をそのまま返す。
func Interval(start, end ClockTime) int {
	return SecondsSinceMidnight(end) - SecondsSinceMidnight(start)
}

// Date: 暦日（タイムゾーンなし）。map のキーに使う。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday: 月曜=0 .. 日曜=6
func (d Date) Weekday() int {
	return (int(d.Time().Weekday()) + 6) % 7
}

func (d Date) String() string { return d.Time().Format(DateLayout) }
