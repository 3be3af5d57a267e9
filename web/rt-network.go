//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/labstack/echo/v4"
)

//
// ROUTING
//

// RtAuthorNetworks - the whole co-authorship graph or, given "?author_name=", one author's neighbourhood
func (s *Server) RtAuthorNetworks(c echo.Context) error {
	const (
		OP   = "RtAuthorNetworks"
		FAIL = "include_papers must be true or false, not '%s'"
	)

	author := strings.TrimSpace(c.QueryParam("author_name"))

	papers := false
	if ip := c.QueryParam("include_papers"); ip != "" {
		b, err := strconv.ParseBool(ip)
		if err != nil {
			return errs.NewValidation(OP, FAIL, ip)
		}
		papers = b
	}

	nj, err := s.Eng.AuthorNetwork(c.Request().Context(), author, papers)
	if err != nil {
		return err
	}
	return gen.JSONresponse(c, nj)
}

// AuthorQuery - the body of a POST to /api/author-networks
type AuthorQuery struct {
	AuthorName    string `json:"author_name"`
	IncludePapers *bool  `json:"include_papers"`
}

// RtAuthorEgo - one author's neighbourhood from a JSON body; papers are included unless the body says otherwise
func (s *Server) RtAuthorEgo(c echo.Context) error {
	const (
		OP    = "RtAuthorEgo"
		FAIL1 = "the request body must be JSON with an 'author_name'"
		FAIL2 = "author_name is required"
	)

	var aq AuthorQuery
	if err := c.Bind(&aq); err != nil {
		return errs.NewValidation(OP, FAIL1)
	}
	author := strings.TrimSpace(aq.AuthorName)
	if author == "" {
		return errs.NewValidation(OP, FAIL2)
	}

	papers := true
	if aq.IncludePapers != nil {
		papers = *aq.IncludePapers
	}

	nj, err := s.Eng.AuthorNetwork(c.Request().Context(), author, papers)
	if err != nil {
		return err
	}
	return gen.JSONresponse(c, nj)
}

// RtNetworkChart - the same graph as an echarts force layout page
func (s *Server) RtNetworkChart(c echo.Context) error {
	page, err := s.Eng.AuthorChart(c.Request().Context(), strings.TrimSpace(c.QueryParam("author_name")))
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, page)
}

func (s *Server) RtNetworkStatistics(c echo.Context) error {
	return gen.JSONresponse(c, s.Eng.NetworkStatistics())
}
