//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"net/http"

	"github.com/e-gun/PaperScopeServer/internal/corpus"
	"github.com/labstack/echo/v4"
)

//
// ROUTING
//

// RtWordCloud - "?source=model|tokens", "?format=png|html"; a client's newer cloud request cancels its older one.
// Without a group the cloud covers the whole corpus.
func (s *Server) RtWordCloud(c echo.Context) error {
	source := c.QueryParam("source")
	format := c.QueryParam("format")
	if format == "" {
		format = corpus.CloudPNG
	}

	b, err := s.Eng.WordCloud(c.Request().Context(), ClientID(c), c.Param("group"), source, format)
	if err != nil {
		return err
	}

	if format == corpus.CloudHTML {
		return c.HTMLBlob(http.StatusOK, b)
	}
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, "image/png", b)
}
