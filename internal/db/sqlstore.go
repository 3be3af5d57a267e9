//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/e-gun/PaperScopeServer/internal/str"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	DriverModernc = "sqlite"  // modernc.org/sqlite: pure go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3: cgo

	SQLSCHEMA = `
CREATE TABLE IF NOT EXISTS documents (
	id        TEXT PRIMARY KEY,
	title     TEXT NOT NULL,
	authors   TEXT NOT NULL,
	year      INTEGER NOT NULL,
	raw_text  TEXT NOT NULL DEFAULT '',
	tokens    TEXT,
	group_key TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_group_key ON documents (group_key);
`
	SQLUPSERT = `
INSERT INTO documents (id, title, authors, year, raw_text, tokens, group_key)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	title = excluded.title, authors = excluded.authors, year = excluded.year,
	raw_text = excluded.raw_text, tokens = excluded.tokens, group_key = excluded.group_key`
	SQLSELECT  = `SELECT id, title, authors, year, raw_text, tokens, group_key FROM documents`
	SQLBATCHSZ = 500
)

// SQLStore - documents in a sqlite file, via either sqlite driver
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLStore - open (and if need be create) the sqlite database at path
func OpenSQLStore(ctx context.Context, driver string, path string) (*SQLStore, error) {
	const (
		OP = "OpenSQLStore"
	)

	var dsn string
	switch driver {
	case DriverMattn:
		dsn = path + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	default:
		driver = DriverModernc
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errs.NewInternal(OP, err)
	}
	// one writer at a time; sqlite serialises writes anyway
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, SQLSCHEMA); err != nil {
		_ = db.Close()
		return nil, errs.NewInternal(OP, fmt.Errorf("schema: %w", err))
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (ss *SQLStore) Driver() string {
	return ss.driver
}

func (ss *SQLStore) Put(ctx context.Context, docs ...*str.Document) error {
	const (
		OP = "SQLStore.Put"
	)
	for _, batch := range gen.ChunkSlice(docs, SQLBATCHSZ) {
		tx, err := ss.db.BeginTx(ctx, nil)
		if err != nil {
			return errs.NewInternal(OP, err)
		}
		stmt, err := tx.PrepareContext(ctx, SQLUPSERT)
		if err != nil {
			_ = tx.Rollback()
			return errs.NewInternal(OP, err)
		}
		for _, d := range batch {
			aa, tk := encodedoc(d)
			if _, err = stmt.ExecContext(ctx, d.ID, d.Title, aa, d.Year, d.RawText, tk, d.GroupKey); err != nil {
				_ = stmt.Close()
				_ = tx.Rollback()
				return errs.NewInternal(OP, err)
			}
		}
		_ = stmt.Close()
		if err = tx.Commit(); err != nil {
			return errs.NewInternal(OP, err)
		}
	}
	return nil
}

func (ss *SQLStore) Get(ctx context.Context, id string) (*str.Document, error) {
	const (
		OP = "SQLStore.Get"
	)
	row := ss.db.QueryRowContext(ctx, SQLSELECT+` WHERE id = ?`, id)
	d, err := scandoc(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notfound(OP, id)
	}
	if err != nil {
		return nil, errs.NewInternal(OP, err)
	}
	return d, nil
}

func (ss *SQLStore) All(ctx context.Context) ([]*str.Document, error) {
	return ss.query(ctx, "SQLStore.All", SQLSELECT+` ORDER BY id`)
}

func (ss *SQLStore) ByGroup(ctx context.Context, group string) ([]*str.Document, error) {
	return ss.query(ctx, "SQLStore.ByGroup", SQLSELECT+` WHERE group_key = ? ORDER BY id`, group)
}

func (ss *SQLStore) query(ctx context.Context, op string, q string, args ...any) ([]*str.Document, error) {
	rows, err := ss.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errs.NewInternal(op, err)
	}
	defer rows.Close()

	var out []*str.Document
	for rows.Next() {
		d, e := scandoc(rows)
		if e != nil {
			return nil, errs.NewInternal(op, e)
		}
		out = append(out, d)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewInternal(op, err)
	}
	return out, nil
}

func (ss *SQLStore) Groups(ctx context.Context) ([]string, error) {
	const (
		OP = "SQLStore.Groups"
	)
	rows, err := ss.db.QueryContext(ctx, `SELECT DISTINCT group_key FROM documents ORDER BY group_key`)
	if err != nil {
		return nil, errs.NewInternal(OP, err)
	}
	defer rows.Close()
	var gg []string
	for rows.Next() {
		var g string
		if err = rows.Scan(&g); err != nil {
			return nil, errs.NewInternal(OP, err)
		}
		gg = append(gg, g)
	}
	return gg, rows.Err()
}

func (ss *SQLStore) SetTokens(ctx context.Context, id string, tokens []string) error {
	const (
		OP = "SQLStore.SetTokens"
	)
	b, _ := json.Marshal(tokens)
	res, err := ss.db.ExecContext(ctx, `UPDATE documents SET tokens = ? WHERE id = ?`, string(b), id)
	if err != nil {
		return errs.NewInternal(OP, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notfound(OP, id)
	}
	return nil
}

func (ss *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := ss.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, errs.NewInternal("SQLStore.Count", err)
	}
	return n, nil
}

func (ss *SQLStore) Close() error {
	return ss.db.Close()
}

//
// ROW CODEC
//

type scanner interface {
	Scan(dest ...any) error
}

// encodedoc - authors and tokens travel as JSON text; nil tokens are stored as NULL
func encodedoc(d *str.Document) (string, sql.NullString) {
	aa, _ := json.Marshal(d.Authors)
	var tk sql.NullString
	if d.Tokens != nil {
		b, _ := json.Marshal(d.Tokens)
		tk = sql.NullString{String: string(b), Valid: true}
	}
	return string(aa), tk
}

func scandoc(s scanner) (*str.Document, error) {
	var d str.Document
	var aa string
	var tk sql.NullString
	if err := s.Scan(&d.ID, &d.Title, &aa, &d.Year, &d.RawText, &tk, &d.GroupKey); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(aa), &d.Authors); err != nil {
		return nil, fmt.Errorf("authors of %s: %w", d.ID, err)
	}
	if tk.Valid {
		d.Tokens = []string{}
		if err := json.Unmarshal([]byte(tk.String), &d.Tokens); err != nil {
			return nil, fmt.Errorf("tokens of %s: %w", d.ID, err)
		}
	}
	return &d, nil
}
