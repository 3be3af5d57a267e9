//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"sort"
	"sync"

	"github.com/e-gun/PaperScopeServer/internal/str"
)

// MemStore - a vault of documents: map plus RWMutex
type MemStore struct {
	docs map[string]*str.Document
	mtx  sync.RWMutex
}

func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]*str.Document)}
}

func (ms *MemStore) Put(ctx context.Context, docs ...*str.Document) error {
	if err := ctxerr(ctx, "MemStore.Put"); err != nil {
		return err
	}
	ms.mtx.Lock()
	defer ms.mtx.Unlock()
	for _, d := range docs {
		ms.docs[d.ID] = copydoc(d)
	}
	return nil
}

func (ms *MemStore) Get(ctx context.Context, id string) (*str.Document, error) {
	ms.mtx.RLock()
	defer ms.mtx.RUnlock()
	d, ok := ms.docs[id]
	if !ok {
		return nil, notfound("MemStore.Get", id)
	}
	return copydoc(d), nil
}

func (ms *MemStore) All(ctx context.Context) ([]*str.Document, error) {
	return ms.filter(ctx, func(*str.Document) bool { return true })
}

func (ms *MemStore) ByGroup(ctx context.Context, group string) ([]*str.Document, error) {
	return ms.filter(ctx, func(d *str.Document) bool { return d.GroupKey == group })
}

func (ms *MemStore) filter(ctx context.Context, keep func(*str.Document) bool) ([]*str.Document, error) {
	if err := ctxerr(ctx, "MemStore.filter"); err != nil {
		return nil, err
	}
	ms.mtx.RLock()
	defer ms.mtx.RUnlock()
	var out []*str.Document
	for _, d := range ms.docs {
		if keep(d) {
			out = append(out, copydoc(d))
		}
	}
	sortbyid(out)
	return out, nil
}

func (ms *MemStore) Groups(ctx context.Context) ([]string, error) {
	ms.mtx.RLock()
	defer ms.mtx.RUnlock()
	seen := make(map[string]struct{})
	for _, d := range ms.docs {
		seen[d.GroupKey] = struct{}{}
	}
	gg := make([]string, 0, len(seen))
	for g := range seen {
		gg = append(gg, g)
	}
	sort.Strings(gg)
	return gg, nil
}

func (ms *MemStore) SetTokens(ctx context.Context, id string, tokens []string) error {
	ms.mtx.Lock()
	defer ms.mtx.Unlock()
	d, ok := ms.docs[id]
	if !ok {
		return notfound("MemStore.SetTokens", id)
	}
	d.Tokens = append([]string{}, tokens...)
	return nil
}

func (ms *MemStore) Count(ctx context.Context) (int, error) {
	ms.mtx.RLock()
	defer ms.mtx.RUnlock()
	return len(ms.docs), nil
}

func (ms *MemStore) Close() error {
	return nil
}
