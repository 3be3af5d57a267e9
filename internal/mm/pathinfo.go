//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"context"
	"fmt"
	"runtime"
)

//
// CHANNEL-BASED PATHINFO REPORTING TO COMMUNICATE STATS BETWEEN ROUTINES
//

// PIReply - PathInfoHub helper struct for returning the PathInfo
type PIReply struct {
	response chan map[string]int
}

type PathInfoHub struct {
	update  chan string
	request chan PIReply
}

func NewPathInfoHub() *PathInfoHub {
	return &PathInfoHub{
		update:  make(chan string, 2*runtime.NumCPU()),
		request: make(chan PIReply),
	}
}

// Run - count paths that pass through LogPaths until ctx is done
func (h *PathInfoHub) Run(ctx context.Context) {
	called := make(map[string]int)
	for {
		select {
		case <-ctx.Done():
			return
		case upd := <-h.update:
			called[upd]++
		case req := <-h.request:
			cp := make(map[string]int, len(called))
			for k, v := range called {
				cp[k] = v
			}
			req.response <- cp
		}
	}
}

// Snapshot - a copy of the current counts; nil if the hub is not running
func (h *PathInfoHub) Snapshot(ctx context.Context) map[string]int {
	r := PIReply{response: make(chan map[string]int, 1)}
	select {
	case h.request <- r:
		return <-r.response
	case <-ctx.Done():
		return nil
	}
}

// LogPaths - increment the counter for this path and report the current heap
func (m *MessageMaker) LogPaths(h *PathInfoHub, fn string) {
	const (
		HEAP = "%s current heap: %s"
	)

	if h != nil {
		select {
		case h.update <- fn:
		default:
			// hub is busy or not running; a dropped count is harmless
		}
	}

	if m.LLvl < MSGTMI {
		return
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.TMI(fmt.Sprintf(HEAP, fn, fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)))
}
