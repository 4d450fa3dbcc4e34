package presence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"
)

// ===== database/sql 用の最小フェイクドライバ =====

type fakeConnector struct {
	rows     [][]driver.Value
	dialErr  error
	queryErr error

	queries  []string
	txOpts   []driver.TxOptions
	commits  int
	rollback int
}

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	if c.dialErr != nil {
		return nil, c.dialErr
	}
	return &fakeConn{c: c}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use OpenDB") }

type fakeConn struct{ c *fakeConnector }

func (fc *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (fc *fakeConn) Close() error                        { return nil }
func (fc *fakeConn) Begin() (driver.Tx, error)           { return fc.BeginTx(context.Background(), driver.TxOptions{}) }

func (fc *fakeConn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	fc.c.txOpts = append(fc.c.txOpts, opts)
	return fakeTx{c: fc.c}, nil
}

func (fc *fakeConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	fc.c.queries = append(fc.c.queries, query)
	if fc.c.queryErr != nil {
		return nil, fc.c.queryErr
	}
	return &fakeRows{data: fc.c.rows}, nil
}

type fakeTx struct{ c *fakeConnector }

func (t fakeTx) Commit() error   { t.c.commits++; return nil }
func (t fakeTx) Rollback() error { t.c.rollback++; return nil }

type fakeRows struct {
	data [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return []string{"user_id", "attended_on", "start_at", "end_at"} }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.i])
	r.i++
	return nil
}

func row(vals ...any) []driver.Value {
	out := make([]driver.Value, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func openFake(t *testing.T, c *fakeConnector) *sql.DB {
	t.Helper()
	conn := sql.OpenDB(c)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// ===== tests =====

func TestSQLLoaderLoadsRows(t *testing.T) {
	fc := &fakeConnector{rows: [][]driver.Value{
		row("11", "2013-09-10", "09:00:00", "17:30:00"),
		row("10", "2013-09-11", "08:15:00", "16:00:00"),
		// 同じ (user, date) は presence_id 順で後勝ち
		row("11", "2013-09-10", "08:00:00", "12:00:00"),
		// NULL を含む行は捨てる
		row("12", nil, "09:00:00", "17:00:00"),
		row(nil, "2013-09-10", "09:00:00", "17:00:00"),
		// 解析できない行も捨てる
		row("13", "2013-13-40", "09:00:00", "17:00:00"),
		row("abc", "2013-09-10", "09:00:00", "17:00:00"),
	}}
	data, err := NewSQLLoader(openFake(t, fc)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(data) != 2 || data.Len() != 2 {
		t.Fatalf("expected users 10 and 11 with 1 record each, got users=%d records=%d", len(data), data.Len())
	}
	e := data[11][Date{2013, 9, 10}]
	if e.Start != (ClockTime{8, 0, 0}) || e.End != (ClockTime{12, 0, 0}) {
		t.Errorf("expected later row to win, got %+v", e)
	}
	if _, ok := data[12]; ok {
		t.Error("row with NULL date should be skipped")
	}
	if _, ok := data[13]; ok {
		t.Error("row with invalid date should be skipped")
	}

	if len(fc.queries) != 1 || !strings.Contains(fc.queries[0], "ORDER BY presence_id ASC") {
		t.Errorf("unexpected queries %v", fc.queries)
	}
	if len(fc.txOpts) != 1 || !fc.txOpts[0].ReadOnly {
		t.Errorf("expected one read-only tx, got %+v", fc.txOpts)
	}
	if fc.txOpts[0].Isolation != driver.IsolationLevel(sql.LevelRepeatableRead) {
		t.Errorf("expected repeatable read, got %v", fc.txOpts[0].Isolation)
	}
	if fc.commits != 1 || fc.rollback != 0 {
		t.Errorf("expected commit only, got commits=%d rollbacks=%d", fc.commits, fc.rollback)
	}
}

func TestSQLLoaderEmptyTable(t *testing.T) {
	data, err := NewSQLLoader(openFake(t, &fakeConnector{})).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty dataset, got %d users", len(data))
	}
}

func TestSQLLoaderConnectFailure(t *testing.T) {
	fc := &fakeConnector{dialErr: errors.New("dial tcp 127.0.0.1:3306: connection refused")}
	_, err := NewSQLLoader(openFake(t, fc)).Load(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestSQLLoaderQueryFailure(t *testing.T) {
	fc := &fakeConnector{queryErr: errors.New("Table 'presence.presences' doesn't exist")}
	_, err := NewSQLLoader(openFake(t, fc)).Load(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if fc.rollback != 1 || fc.commits != 0 {
		t.Errorf("expected rollback only, got commits=%d rollbacks=%d", fc.commits, fc.rollback)
	}
}
