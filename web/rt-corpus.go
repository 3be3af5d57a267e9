//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/labstack/echo/v4"
)

//
// ROUTING
//

// RtCorpusDocuments - every document with its strongest topics; "?group=" and "?q=" narrow the list
func (s *Server) RtCorpusDocuments(c echo.Context) error {
	rows, err := s.Eng.DocumentRows(c.Request().Context(), c.QueryParam("group"), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return gen.JSONresponse(c, rows)
}

// RtCorpusOverview - the four headline counts
func (s *Server) RtCorpusOverview(c echo.Context) error {
	ov, err := s.Eng.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return gen.JSONresponse(c, ov)
}

// RtCorpusTopics - per group: how many topics and documents
func (s *Server) RtCorpusTopics(c echo.Context) error {
	gt, err := s.Eng.GroupTopicCounts(c.Request().Context())
	if err != nil {
		return err
	}
	return gen.JSONresponse(c, gt)
}

// RtCorpusTopicDetail - the group's topics, each with the documents it dominates
func (s *Server) RtCorpusTopicDetail(c echo.Context) error {
	te, err := s.Eng.GroupTopicDetail(c.Request().Context(), c.Param("group"))
	if err != nil {
		return err
	}
	return gen.JSONresponse(c, te)
}

func (s *Server) RtTrendingTopics(c echo.Context) error {
	return gen.JSONresponse(c, s.Eng.Trending())
}

func (s *Server) RtTopicCounts(c echo.Context) error {
	return gen.JSONresponse(c, s.Eng.TopicCounts())
}
