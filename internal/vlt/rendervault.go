//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"context"
	"sync"
)

//
// LAST-REQUESTED-WINS RENDERING
//

type renderslot struct {
	ticket uint64
	what   string
	cancel context.CancelFunc
}

// RenderVault - one in-flight render per client; beginning a new one cancels the old one
type RenderVault struct {
	inflight map[string]renderslot
	ticket   uint64
	mutex    sync.Mutex
}

func MakeRenderVault() *RenderVault {
	return &RenderVault{inflight: make(map[string]renderslot)}
}

// Begin - register a render for the client and cancel whatever it had running; the returned context is done
// when the parent is done or when the client begins another render; call done when finished
func (rv *RenderVault) Begin(parent context.Context, client string, what string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	rv.mutex.Lock()
	if old, ok := rv.inflight[client]; ok {
		old.cancel()
	}
	rv.ticket++
	t := rv.ticket
	rv.inflight[client] = renderslot{ticket: t, what: what, cancel: cancel}
	rv.mutex.Unlock()

	done := func() {
		rv.mutex.Lock()
		if cur, ok := rv.inflight[client]; ok && cur.ticket == t {
			delete(rv.inflight, client)
		}
		rv.mutex.Unlock()
		cancel()
	}
	return ctx, done
}

// InFlight - what the client is currently rendering
func (rv *RenderVault) InFlight(client string) (string, bool) {
	rv.mutex.Lock()
	defer rv.mutex.Unlock()
	s, ok := rv.inflight[client]
	return s.what, ok
}

func (rv *RenderVault) Count() int {
	rv.mutex.Lock()
	defer rv.mutex.Unlock()
	return len(rv.inflight)
}
