package presence

import (
	"maps"
	"slices"
)

// WeekdayAbbr: index 0..6 = Mon..Sun
var WeekdayAbbr = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DurationBuckets: 曜日ごとの在席秒数（7 曜日すべて存在、空スライスあり）
type DurationBuckets [7][]int

type StartEnd struct {
	Starts []int
	Ends   []int
}

type StartEndBuckets [7]StartEnd

// GroupByDuration: 日付ごとの Interval を曜日に振り分ける
func GroupByDuration(entries map[Date]Entry) DurationBuckets {
	var out DurationBuckets
	for i := range out {
		out[i] = []int{}
	}
	for _, date := range sortedDates(entries) {
		e := entries[date]
		wd := date.Weekday()
		out[wd] = append(out[wd], Interval(e.Start, e.End))
	}
	return out
}

// GroupByStartEnd: 出勤・退勤の秒を曜日ごとに集める
func GroupByStartEnd(entries map[Date]Entry) StartEndBuckets {
	var out StartEndBuckets
	for i := range out {
		out[i] = StartEnd{Starts: []int{}, Ends: []int{}}
	}
	for _, date := range sortedDates(entries) {
		e := entries[date]
		b := &out[date.Weekday()]
		b.Starts = append(b.Starts, SecondsSinceMidnight(e.Start))
		b.Ends = append(b.Ends, SecondsSinceMidnight(e.End))
	}
	return out
}

// Mean: 空なら 0
func Mean(items []int) float64 {
	if len(items) == 0 {
		return 0
	}
	return float64(Sum(items)) / float64(len(items))
}

func Sum(items []int) int {
	total := 0
	for _, v := range items {
		total += v
	}
	return total
}

// 日付の昇順。バケット内の並びを安定させる。
func sortedDates(entries map[Date]Entry) []Date {
	return slices.SortedFunc(maps.Keys(entries), func(a, b Date) int {
		return a.Time().Compare(b.Time())
	})
}
