package presence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSourceUnavailable: データ元そのものが読めない（ファイルなし・権限・DB 接続不可）
var ErrSourceUnavailable = errors.New("presence source unavailable")

// Loader: データ元から Dataset を丸ごと作り直す
type Loader interface {
	Load(ctx context.Context) (Dataset, error)
}

// LoaderFunc: 関数を Loader として使う
type LoaderFunc func(ctx context.Context) (Dataset, error)

func (f LoaderFunc) Load(ctx context.Context) (Dataset, error) { return f(ctx) }

// MalformedRecordError: 1 行の解析失敗。ローダー内でログに出して捨てる。
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// 1 行 = user_id, date, start, end
const fieldCount = 4

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, what, err)
}

// parseRecord: フィールド数は呼び出し側で確認済みの前提
func parseRecord(line int, fields []string) (Record, error) {
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	uid, err := strconv.Atoi(fields[0])
	if err != nil {
		return Record{}, &MalformedRecordError{Line: line, Err: fmt.Errorf("user_id: %w", err)}
	}
	date, err := ParseDate(fields[1])
	if err != nil {
		return Record{}, &MalformedRecordError{Line: line, Err: fmt.Errorf("date: %w", err)}
	}
	start, err := ParseClock(fields[2])
	if err != nil {
		return Record{}, &MalformedRecordError{Line: line, Err: fmt.Errorf("start: %w", err)}
	}
	end, err := ParseClock(fields[3])
	if err != nil {
		return Record{}, &MalformedRecordError{Line: line, Err: fmt.Errorf("end: %w", err)}
	}
	return Record{UserID: uid, Date: date, Start: start, End: end}, nil
}
