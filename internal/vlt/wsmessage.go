//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"context"
	"fmt"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/gorilla/websocket"
)

//
// WEBSOCKET INFRASTRUCTURE: model fitting events are pushed to every connected client
//

// ModelEvent - a change in a group's model
type ModelEvent struct {
	Group      string `json:"group"`
	Status     string `json:"status"`
	Generation uint64 `json:"generation"`
	Error      string `json:"error,omitempty"`
}

type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Pool *WSPool
	Send chan ModelEvent
}

type WSPool struct {
	Add       chan *WSClient
	Remove    chan *WSClient
	ClientMap map[*WSClient]bool
	Events    chan ModelEvent
	Count     chan chan int
	done      chan struct{}
}

// WSFillNewPool - build a new WSPool
func WSFillNewPool() *WSPool {
	const (
		EVBUFF = 64
	)
	return &WSPool{
		Add:       make(chan *WSClient),
		Remove:    make(chan *WSClient),
		ClientMap: make(map[*WSClient]bool),
		Events:    make(chan ModelEvent, EVBUFF),
		Count:     make(chan chan int),
		done:      make(chan struct{}),
	}
}

func (pool *WSPool) NewClient(id string, conn *websocket.Conn) *WSClient {
	const (
		CLBUFF = 16
	)
	return &WSClient{ID: id, Conn: conn, Pool: pool, Send: make(chan ModelEvent, CLBUFF)}
}

// WSPoolStartListening - the WSPool listens for activity on its channels until ctx is done
func (pool *WSPool) WSPoolStartListening(ctx context.Context) {
	const (
		MSG1 = "websocket client '%s' connected; %d connected"
		MSG2 = "websocket client '%s' is not keeping up; dropping it"
	)

	drop := func(cl *WSClient) {
		if pool.ClientMap[cl] {
			delete(pool.ClientMap, cl)
			close(cl.Send)
		}
	}

	defer func() {
		close(pool.done)
		for cl := range pool.ClientMap {
			drop(cl)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case cl := <-pool.Add:
			pool.ClientMap[cl] = true
			Msg.PEEK(fmt.Sprintf(MSG1, cl.ID, len(pool.ClientMap)))
		case cl := <-pool.Remove:
			drop(cl)
		case ev := <-pool.Events:
			for cl := range pool.ClientMap {
				select {
				case cl.Send <- ev:
				default:
					Msg.FYI(fmt.Sprintf(MSG2, cl.ID))
					drop(cl)
				}
			}
		case rq := <-pool.Count:
			rq <- len(pool.ClientMap)
		}
	}
}

// Broadcast - queue an event for every client; events are dropped rather than blocking a fit
func (pool *WSPool) Broadcast(ev ModelEvent) {
	select {
	case pool.Events <- ev:
	default:
	}
}

// Register - false if the pool has stopped
func (pool *WSPool) Register(cl *WSClient) bool {
	select {
	case pool.Add <- cl:
		return true
	case <-pool.done:
		return false
	}
}

func (pool *WSPool) Unregister(cl *WSClient) {
	select {
	case pool.Remove <- cl:
	case <-pool.done:
	}
}

func (pool *WSPool) Clients() int {
	rq := make(chan int)
	select {
	case pool.Count <- rq:
		return <-rq
	case <-pool.done:
		return 0
	}
}

// WSMessageLoop - write queued events to the socket until the pool closes Send or a write fails
func (c *WSClient) WSMessageLoop() {
	const (
		FAIL = "WSClient.WSMessageLoop() failed to write to '%s'"
	)

	defer c.Pool.Unregister(c)
	for ev := range c.Send {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(vv.TIMEOUTWR))
		if err := c.Conn.WriteJSON(ev); err != nil {
			Msg.TMI(fmt.Sprintf(FAIL, c.ID))
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ReceiveLoop - drain the client's messages so that a closed socket is noticed; then unregister
func (c *WSClient) ReceiveLoop() {
	defer c.Pool.Unregister(c)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
