//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"context"
	"net/http"
	"time"

	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/e-gun/PaperScopeServer/internal/lnch"
	"github.com/e-gun/PaperScopeServer/internal/vlt"
	"github.com/labstack/echo/v4"
)

type HealthJSON struct {
	Status    string            `json:"status"`
	Build     lnch.Build        `json:"build"`
	Uptime    string            `json:"uptime"`
	Documents int               `json:"documents"`
	Models    int               `json:"models"`
	Clients   int               `json:"ws_clients"`
	Responses map[string]uint64 `json:"responses"`
	Paths     map[string]int    `json:"paths"`
}

//
// ROUTING
//

// RtHealth - the service is up; the counts are informational
func (s *Server) RtHealth(c echo.Context) error {
	const (
		OK = "ok"
	)
	n, err := s.Eng.Store.Count(c.Request().Context())
	if err != nil {
		return err
	}

	// the path counter stops before the server does
	pctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
	defer cancel()

	hj := HealthJSON{
		Status:    OK,
		Build:     lnch.CurrentBuild(),
		Uptime:    s.Eng.Uptime().Round(time.Second).String(),
		Documents: n,
		Models:    len(s.Eng.Models.Groups()),
		Clients:   s.Eng.Pool.Clients(),
		Responses: s.Stats.Snapshot(),
		Paths:     s.Paths.Snapshot(pctx),
	}
	return gen.JSONresponse(c, hj)
}

// RtModels - the status of every group's model
func (s *Server) RtModels(c echo.Context) error {
	st := s.Eng.Models.Statuses()
	if st == nil {
		st = []vlt.ModelStatus{}
	}
	return gen.JSONresponse(c, st)
}

// RtRefit - 202 and the group's current status; the fit itself runs in the background
func (s *Server) RtRefit(c echo.Context) error {
	ms, err := s.Eng.RefitAsync(c.Request().Context(), c.Param("group"))
	if err != nil {
		return err
	}
	return gen.JSONstatus(c, http.StatusAccepted, ms)
}
