package presence

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"presence-analyzer/internal/platform/logging"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// 入力 CSV の文字コード
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
	EncodingUTF16    = "utf-16"
)

// CSVLoader: user_id,date,start,end の CSV を読む。
// 列数が 4 でない行（ヘッダ・フッタ）は黙って飛ばし、解析できない行は [DEBUG] を出して飛ばす。
type CSVLoader struct {
	Path     string
	Encoding string
}

func NewCSVLoader(path, encoding string) *CSVLoader {
	return &CSVLoader{Path: path, Encoding: encoding}
}

func (l *CSVLoader) Load(ctx context.Context) (Dataset, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, unavailable(l.Path, err)
	}
	defer f.Close()

	r, err := decodeReader(f, l.Encoding)
	if err != nil {
		return nil, err
	}
	data, skipped, err := readCSV(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		logging.Debugf("%s: %v", l.Path, e)
	}
	return data, nil
}

func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingShiftJIS, "sjis", "cp932":
		return transform.NewReader(r, japanese.ShiftJIS.NewDecoder()), nil
	case EncodingUTF16, "utf16":
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported csv encoding %q", encoding)
	}
}

// readCSV: 捨てた行は skipped に入れて返す（Line はファイル上の行番号）
func readCSV(ctx context.Context, r io.Reader) (data Dataset, skipped []*MalformedRecordError, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	data = Dataset{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped = append(skipped, &MalformedRecordError{Line: pe.StartLine, Err: pe.Err})
				continue
			}
			return nil, nil, unavailable("read csv", err)
		}
		if len(row) != fieldCount {
			// ヘッダ・フッタ
			continue
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRecord(line, row)
		if err != nil {
			var me *MalformedRecordError
			if errors.As(err, &me) {
				skipped = append(skipped, me)
			}
			continue
		}
		data.Put(rec)
	}
	return data, skipped, nil
}
