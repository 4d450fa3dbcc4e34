package presence

import "encoding/json"

// WeekdayValue: ["Mon", 30600] の形で JSON に出す
type WeekdayValue struct {
	Weekday string
	Value   float64
}

func (w WeekdayValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{w.Weekday, w.Value})
}

// WeekdayTotal: 合計は整数秒のまま出す
type WeekdayTotal struct {
	Weekday string
	Seconds int
}

func (w WeekdayTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{w.Weekday, w.Seconds})
}

// WeekdayStartEnd: ["Mon", 平均出勤秒, 平均退勤秒]
type WeekdayStartEnd struct {
	Weekday string
	Start   float64
	End     float64
}

func (w WeekdayStartEnd) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{w.Weekday, w.Start, w.End})
}

// presence_weekday の先頭行
var presenceHeader = [2]string{"Weekday", "Presence (s)"}
