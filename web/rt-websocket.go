//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/vlt"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var (
	// the dashboard is served from elsewhere
	Upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
)

//
// THE ROUTE
//

// RtWebsocket - model status events (multiple clients at a time); the current statuses are sent on connect
func (s *Server) RtWebsocket(c echo.Context) error {
	const (
		FAILCON = "RtWebsocket(): ws connection failed"
		FAILWR  = "RtWebsocket(): could not send the current statuses to '%s'"
	)

	id := ClientID(c)
	ws, err := Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		msg.NOTE(FAILCON)
		return nil
	}
	defer ws.Close()

	for _, ms := range s.Eng.Models.Statuses() {
		ev := vlt.ModelEvent{Group: ms.Group, Status: ms.Status, Generation: ms.Generation, Error: ms.Error}
		_ = ws.SetWriteDeadline(time.Now().Add(vv.TIMEOUTWR))
		if err = ws.WriteJSON(ev); err != nil {
			msg.TMI(fmt.Sprintf(FAILWR, id))
			return nil
		}
	}

	statuspoll := s.Eng.Pool.NewClient(id, ws)
	if !s.Eng.Pool.Register(statuspoll) {
		return nil
	}

	go statuspoll.ReceiveLoop()
	statuspoll.WSMessageLoop()
	return nil
}
