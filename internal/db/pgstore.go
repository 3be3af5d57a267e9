//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	PGSCHEMA = `
CREATE TABLE IF NOT EXISTS documents (
	id        TEXT PRIMARY KEY,
	title     TEXT NOT NULL,
	authors   JSONB NOT NULL,
	year      INTEGER NOT NULL,
	raw_text  TEXT NOT NULL DEFAULT '',
	tokens    JSONB,
	group_key TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_group_key ON documents (group_key);
`
	PGUPSERT = `
INSERT INTO documents (id, title, authors, year, raw_text, tokens, group_key)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	title = excluded.title, authors = excluded.authors, year = excluded.year,
	raw_text = excluded.raw_text, tokens = excluded.tokens, group_key = excluded.group_key`
	PGSELECT = `SELECT id, title, authors, year, raw_text, tokens, group_key FROM documents`
)

// PGStore - documents in PostgreSQL, reached through a pgxpool
type PGStore struct {
	pool *pgxpool.Pool
}

// OpenPGStore - build the pgxpool that the store will Acquire() from
func OpenPGStore(ctx context.Context, cfg str.CurrentConfiguration) (*PGStore, error) {
	const (
		OP      = "OpenPGStore"
		POOLARG = "%s?pool_min_conns=%d&pool_max_conns=%d"
		ERRRUN  = `dial error`
		FAILRUN = `the PostgreSQL server cannot be found; check that it is running and serving on port %d`
	)

	// idle connections close: keep at least one per worker so fits do not fight over a connection
	mn := cfg.WorkerCount
	mx := 2 * cfg.WorkerCount

	config, err := pgxpool.ParseConfig(fmt.Sprintf(POOLARG, cfg.PGLogin.DSN(), mn, mx))
	if err != nil {
		return nil, errs.E(errs.Validation, OP, "could not parse the PostgreSQL login", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err == nil {
		err = pool.Ping(ctx)
	}
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		if strings.Contains(err.Error(), ERRRUN) {
			return nil, errs.E(errs.Internal, OP, fmt.Sprintf(FAILRUN, cfg.PGLogin.Port), err)
		}
		return nil, errs.NewInternal(OP, err)
	}

	if _, err = pool.Exec(ctx, PGSCHEMA); err != nil {
		pool.Close()
		return nil, errs.NewInternal(OP, err)
	}
	return &PGStore{pool: pool}, nil
}

func (ps *PGStore) Put(ctx context.Context, docs ...*str.Document) error {
	const (
		OP = "PGStore.Put"
	)
	batch := &pgx.Batch{}
	for _, d := range docs {
		aa, tk := encodedoc(d)
		var tokens any
		if tk.Valid {
			tokens = tk.String
		}
		batch.Queue(PGUPSERT, d.ID, d.Title, aa, d.Year, d.RawText, tokens, d.GroupKey)
	}
	br := ps.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range docs {
		if _, err := br.Exec(); err != nil {
			return errs.NewInternal(OP, err)
		}
	}
	return nil
}

func (ps *PGStore) Get(ctx context.Context, id string) (*str.Document, error) {
	const (
		OP = "PGStore.Get"
	)
	d, err := pgscandoc(ps.pool.QueryRow(ctx, PGSELECT+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notfound(OP, id)
	}
	if err != nil {
		return nil, errs.NewInternal(OP, err)
	}
	return d, nil
}

func (ps *PGStore) All(ctx context.Context) ([]*str.Document, error) {
	return ps.query(ctx, "PGStore.All", PGSELECT+` ORDER BY id`)
}

func (ps *PGStore) ByGroup(ctx context.Context, group string) ([]*str.Document, error) {
	return ps.query(ctx, "PGStore.ByGroup", PGSELECT+` WHERE group_key = $1 ORDER BY id`, group)
}

func (ps *PGStore) query(ctx context.Context, op string, q string, args ...any) ([]*str.Document, error) {
	rows, err := ps.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, errs.NewInternal(op, err)
	}
	defer rows.Close()

	var out []*str.Document
	for rows.Next() {
		d, e := pgscandoc(rows)
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

func (ps *PGStore) Groups(ctx context.Context) ([]string, error) {
	rows, err := ps.pool.Query(ctx, `SELECT DISTINCT group_key FROM documents ORDER BY group_key`)
	if err != nil {
		return nil, errs.NewInternal("PGStore.Groups", err)
	}
	gg, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errs.NewInternal("PGStore.Groups", err)
	}
	return gg, nil
}

func (ps *PGStore) SetTokens(ctx context.Context, id string, tokens []string) error {
	const (
		OP = "PGStore.SetTokens"
	)
	b, _ := json.Marshal(tokens)
	tag, err := ps.pool.Exec(ctx, `UPDATE documents SET tokens = $1 WHERE id = $2`, string(b), id)
	if err != nil {
		return errs.NewInternal(OP, err)
	}
	if tag.RowsAffected() == 0 {
		return notfound(OP, id)
	}
	return nil
}

func (ps *PGStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := ps.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, errs.NewInternal("PGStore.Count", err)
	}
	return n, nil
}

func (ps *PGStore) Close() error {
	ps.pool.Close()
	return nil
}

func pgscandoc(r pgx.Row) (*str.Document, error) {
	var d str.Document
	var aa []byte
	var tk []byte
	if err := r.Scan(&d.ID, &d.Title, &aa, &d.Year, &d.RawText, &tk, &d.GroupKey); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(aa, &d.Authors); err != nil {
		return nil, fmt.Errorf("authors of %s: %w", d.ID, err)
	}
	if tk != nil {
		d.Tokens = []string{}
		if err := json.Unmarshal(tk, &d.Tokens); err != nil {
			return nil, fmt.Errorf("tokens of %s: %w", d.ID, err)
		}
	}
	return &d, nil
}
