package presence

// Entry: 1 日分の出勤・退勤
type Entry struct {
	Start ClockTime
	End   ClockTime
}

// Record: ローダーが 1 行から組み立てる形
type Record struct {
	UserID int
	Date   Date
	Start  ClockTime
	End    ClockTime
}

// Dataset: user_id -> 日付 -> Entry
// ローダーが返した後は書き換えない（複数リクエストからロックなしで読む）。
type Dataset map[int]map[Date]Entry

// Put: 同じ (user, date) は後勝ち
func (d Dataset) Put(r Record) {
	days, ok := d[r.UserID]
	if !ok {
		days = make(map[Date]Entry)
		d[r.UserID] = days
	}
	days[r.Date] = Entry{Start: r.Start, End: r.End}
}

// Len: 全ユーザーの行数
func (d Dataset) Len() int {
	n := 0
	for _, days := range d {
		n += len(days)
	}
	return n
}
