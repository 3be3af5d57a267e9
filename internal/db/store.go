//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
)

// Store - where ingested papers live; every listing comes back sorted by document id
type Store interface {
	Put(ctx context.Context, docs ...*str.Document) error
	Get(ctx context.Context, id string) (*str.Document, error)
	All(ctx context.Context) ([]*str.Document, error)
	ByGroup(ctx context.Context, group string) ([]*str.Document, error)
	Groups(ctx context.Context) ([]string, error)
	SetTokens(ctx context.Context, id string, tokens []string) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// OpenStore - build the store named in the configuration
func OpenStore(ctx context.Context, cfg str.CurrentConfiguration) (Store, error) {
	const (
		FAIL1 = "unknown store driver '%s'"
	)
	switch cfg.StoreDriver {
	case vv.STOREMEMORY, "":
		return NewMemStore(), nil
	case vv.STORESQLITE:
		return OpenSQLStore(ctx, DriverModernc, cfg.StorePath)
	case vv.STORESQLITECGO:
		return OpenSQLStore(ctx, DriverMattn, cfg.StorePath)
	case vv.STOREPOSTGRES:
		return OpenPGStore(ctx, cfg)
	default:
		return nil, errs.NewValidation("OpenStore", FAIL1, cfg.StoreDriver)
	}
}

func notfound(op string, id string) error {
	return errs.NewNotFound(op, "no document with id '%s'", id)
}

func sortbyid(dd []*str.Document) {
	sort.Slice(dd, func(i, j int) bool { return dd[i].ID < dd[j].ID })
}

// copydoc - callers get their own copy; stored documents are never handed out
func copydoc(d *str.Document) *str.Document {
	c := *d
	c.Authors = append([]string(nil), d.Authors...)
	if d.Tokens != nil {
		c.Tokens = append([]string{}, d.Tokens...)
	}
	return &c
}

func ctxerr(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
