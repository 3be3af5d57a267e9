//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
)

//
// RESPONSE STATISTICS
//

// ResponseStats - echo responses counted by status code
type ResponseStats struct {
	counts map[int]uint64
	mutex  sync.Mutex
}

func NewResponseStats() *ResponseStats {
	return &ResponseStats{counts: make(map[int]uint64)}
}

// Record - count the code and occasionally say so
func (rs *ResponseStats) Record(code int, uri string) {
	const (
		FYI200 = `StatusOK count is %d`
		FRQ200 = 1000
		FYI4XX = `[%d] count is %d; latest was "%s"`
		FRQ4XX = 100
		FYI500 = `[%d] count is %d; latest was "%s"`
		FRQ500 = 1
	)

	rs.mutex.Lock()
	rs.counts[code]++
	v := rs.counts[code]
	rs.mutex.Unlock()

	switch {
	case code == http.StatusOK:
		if v%FRQ200 == 0 {
			Msg.NOTE(fmt.Sprintf(FYI200, v))
		}
	case code >= 500:
		if v%FRQ500 == 0 {
			Msg.NOTE(fmt.Sprintf(FYI500, code, v, uri))
		}
	case code >= 400:
		if v%FRQ4XX == 0 {
			Msg.NOTE(fmt.Sprintf(FYI4XX, code, v, uri))
		}
	}
}

// Snapshot - status code (as a string, for json) --> count
func (rs *ResponseStats) Snapshot() map[string]uint64 {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	ss := make(map[string]uint64, len(rs.counts))
	for k, v := range rs.counts {
		ss[strconv.Itoa(k)] = v
	}
	return ss
}

// Middleware - custom middleware for an *echo.Echo that records every response code
func (rs *ResponseStats) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// do this before reading c.Response().Status or you will always get "200"
		if err := next(c); err != nil {
			c.Error(err)
		}
		rs.Record(c.Response().Status, c.Request().RequestURI)
		return nil
	}
}
