package presence

import (
	"context"
	"database/sql"

	"presence-analyzer/internal/platform/db"
	"presence-analyzer/internal/platform/logging"
)

// SQLLoader: MySQL の presences テーブルから読む。
// 行の並びは presence_id 昇順なので、同じ (user, date) は後から入った行が勝つ。
type SQLLoader struct{ db *sql.DB }

func NewSQLLoader(conn *sql.DB) *SQLLoader { return &SQLLoader{db: conn} }

const selectPresences = `
	SELECT CAST(user_id AS CHAR),
	       DATE_FORMAT(attended_on, '%Y-%m-%d'),
	       TIME_FORMAT(start_at, '%H:%i:%s'),
	       TIME_FORMAT(end_at, '%H:%i:%s')
	FROM presences
	ORDER BY presence_id ASC`

func (l *SQLLoader) Load(ctx context.Context) (Dataset, error) {
	data := Dataset{}
	err := db.ReadOnly(ctx, l.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, selectPresences)
		if err != nil {
			return err
		}
		defer rows.Close()

		line := 0
		for rows.Next() {
			line++
			var uid, on, start, end sql.NullString
			if err := rows.Scan(&uid, &on, &start, &end); err != nil {
				return err
			}
			if !uid.Valid || !on.Valid || !start.Valid || !end.Valid {
				logging.Debugf("presences row %d has NULL columns", line)
				continue
			}
			rec, err := parseRecord(line, []string{uid.String, on.String, start.String, end.String})
			if err != nil {
				logging.Debugf("%v", err)
				continue
			}
			data.Put(rec)
		}
		return rows.Err()
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, unavailable("presences table", err)
	}
	return data, nil
}
