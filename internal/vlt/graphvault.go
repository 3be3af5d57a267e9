//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"sync/atomic"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/str"
)

// GraphSnapshot - a built graph and its statistics; never modified once stored
type GraphSnapshot struct {
	Graph      *str.AuthorGraph
	Stats      str.NetworkStats
	Generation uint64
	BuiltAt    time.Time
}

// GraphVault - readers get whichever snapshot was current when they asked
type GraphVault struct {
	current atomic.Pointer[GraphSnapshot]
	gen     atomic.Uint64
}

func MakeGraphVault() *GraphVault {
	gv := &GraphVault{}
	gv.current.Store(&GraphSnapshot{Graph: str.NewAuthorGraph(), Stats: str.NetworkStats{Membership: map[string]int{}, TopAuthors: []str.CentralAuthor{}}})
	return gv
}

func (gv *GraphVault) Store(g *str.AuthorGraph, st str.NetworkStats) *GraphSnapshot {
	gs := &GraphSnapshot{Graph: g, Stats: st, Generation: gv.gen.Add(1), BuiltAt: time.Now()}
	gv.current.Store(gs)
	return gs
}

func (gv *GraphVault) Load() *GraphSnapshot {
	return gv.current.Load()
}
