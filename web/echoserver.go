//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/corpus"
	"github.com/e-gun/PaperScopeServer/internal/lnch"
	"github.com/e-gun/PaperScopeServer/internal/mm"
	"github.com/e-gun/PaperScopeServer/internal/vlt"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

var (
	msg = lnch.Msg
)

// Server - the routes hold on to the engine; Echo is ready to Start() once NewServer returns
type Server struct {
	Eng   *corpus.Engine
	Stats *vlt.ResponseStats
	Paths *mm.PathInfoHub
	Echo  *echo.Echo
}

// NewServer - build the echo instance: middleware, error handler, routes; the path counter runs until ctx is done
func NewServer(ctx context.Context, eng *corpus.Engine) *Server {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
		RLOGFMT = "${remote_ip}\t${id}\t${custom}\t${status}\t${bytes_out}\t${uri}\n"
	)

	// ctf - a CustomTagFunc return a short user agent
	ctf := func(c echo.Context, buf *bytes.Buffer) (int, error) {
		ua := strings.Split(c.Request().UserAgent(), " ")
		if len(ua) == 0 {
			return 0, nil
		} else {
			last := ua[len(ua)-1]
			buf.Write([]byte(last))
			return 1, nil
		}
	}

	//
	// SETUP
	//

	s := &Server{
		Eng:   eng,
		Stats: vlt.NewResponseStats(),
		Paths: mm.NewPathInfoHub(),
		Echo:  echo.New(),
	}
	e := s.Echo
	cfg := eng.Cfg

	go s.Paths.Run(ctx)

	e.Server.ReadTimeout = vv.TIMEOUTRD
	e.Server.WriteTimeout = vv.TIMEOUTWR
	e.HTTPErrorHandler = s.HTTPErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))

	switch cfg.EchoLog {
	case 3:
		e.Use(middleware.Logger())
	case 2:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT, CustomTagFunc: ctf}))
	case 1:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	default:
		// do nothing
	}

	rps := cfg.ReqPerSecond
	if rps <= 0 {
		rps = vv.MAXECHOREQPERSECONDPERIP
	}
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(rps))))

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, CLIENTHEADER},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))
	e.Use(s.Stats.Middleware)
	e.Use(s.logpaths)

	if cfg.Gzip {
		// PNGs do not shrink; the JSON does
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level:   5,
			Skipper: func(c echo.Context) bool { return strings.HasPrefix(c.Path(), "/api/corpus-wordcloud") },
		}))
	}

	//
	// PAPERSCOPE ROUTES
	//

	//
	// [a] corpus ("rt-corpus.go")
	//

	e.GET("/api/corpus-documents", s.RtCorpusDocuments) // "u: /api/corpus-documents?group=2024&q=graph"
	e.GET("/api/corpus-overview", s.RtCorpusOverview)
	e.GET("/api/corpus-topics", s.RtCorpusTopics)
	e.GET("/api/corpus-topics/:group", s.RtCorpusTopicDetail) // "u: /api/corpus-topics/2024"
	e.GET("/api/trending-topics-per-group", s.RtTrendingTopics)
	e.GET("/api/topic-count-per-group", s.RtTopicCounts)

	//
	// [b] word clouds ("rt-wordcloud.go")
	//

	e.GET("/api/corpus-wordcloud", s.RtWordCloud)        // "u: /api/corpus-wordcloud?format=html"
	e.GET("/api/corpus-wordcloud/:group", s.RtWordCloud) // "u: /api/corpus-wordcloud/2024?source=tokens&format=html"

	//
	// [c] author network ("rt-network.go")
	//

	e.GET("/api/author-networks", s.RtAuthorNetworks)     // "u: /api/author-networks?author_name=Ada%20Lovelace&include_papers=true"
	e.POST("/api/author-networks", s.RtAuthorEgo)         // "u: {"author_name": "Ada Lovelace", "include_papers": true}"
	e.GET("/api/author-networks/chart", s.RtNetworkChart) // "u: /api/author-networks/chart?author_name=Ada%20Lovelace"
	e.GET("/api/network-statistics", s.RtNetworkStatistics)

	//
	// [d] paper analysis ("rt-analysis.go")
	//

	e.POST("/api/paper-analysis", s.RtPaperAnalysis, middleware.BodyLimit(fmt.Sprintf("%dM", vv.MAXUPLOADBYTES>>20)))

	//
	// [e] models and health ("rt-models.go")
	//

	e.GET("/api/health", s.RtHealth)
	e.GET("/api/models", s.RtModels)
	e.POST("/api/models/:group/refit", s.RtRefit) // "u: /api/models/2024/refit"

	//
	// [f] websocket ("rt-websocket.go")
	//

	e.GET("/ws/models", s.RtWebsocket)

	e.HideBanner = true
	e.HidePort = false
	e.Debug = false
	e.DisableHTTP2 = true
	return s
}

// StartEchoServer - serve until ctx is done, then drain in-flight requests for up to SHUTDOWNGRACE
func StartEchoServer(ctx context.Context, eng *corpus.Engine) error {
	const (
		MSG1 = "serving on %s"
		MSG2 = "shutting down the http server"
	)

	s := NewServer(ctx, eng)
	addr := fmt.Sprintf("%s:%d", eng.Cfg.HostIP, eng.Cfg.HostPort)

	fail := make(chan error, 1)
	go func() {
		msg.NOTE(fmt.Sprintf(MSG1, addr))
		if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fail <- err
		}
		close(fail)
	}()

	select {
	case err := <-fail:
		return err
	case <-ctx.Done():
	}

	msg.NOTE(MSG2)
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), vv.SHUTDOWNGRACE)
	defer cancel()
	return s.Echo.Shutdown(sctx)
}

// logpaths - count the routes as they finish
func (s *Server) logpaths(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		msg.LogPaths(s.Paths, c.Path())
		return err
	}
}
