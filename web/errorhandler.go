//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/labstack/echo/v4"
)

// StatusClientClosedRequest - nginx's non-standard code for a request the client abandoned
const StatusClientClosedRequest = 499

type ErrorJSON struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id"`
}

// StatusFor - the HTTP status of an error kind
func StatusFor(k errs.Kind) int {
	switch k {
	case errs.Validation:
		return http.StatusBadRequest
	case errs.InsufficientData:
		return http.StatusUnprocessableEntity
	case errs.NotFound:
		return http.StatusNotFound
	case errs.Cancelled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorHandler - every route error ends here and leaves as {error, kind, request_id}
func (s *Server) HTTPErrorHandler(err error, c echo.Context) {
	const (
		MSG1 = "%s %s: cancelled"
		MSG2 = "%s %s failed: %s"
		FAIL = "HTTPErrorHandler() could not write the error for %s: %s"
	)

	if c.Response().Committed {
		return
	}

	rid := c.Response().Header().Get(echo.HeaderXRequestID)
	uri := c.Request().URL.Path
	meth := c.Request().Method

	// echo's own errors: 404 and 405 routing, 413 body limit, 429 rate limit, bind failures
	var he *echo.HTTPError
	if errors.As(err, &he) && errs.KindOf(err) != errs.Cancelled {
		kind := errs.Validation
		switch {
		case he.Code == http.StatusNotFound:
			kind = errs.NotFound
		case he.Code >= http.StatusInternalServerError:
			kind = errs.Internal
			msg.WARN(fmt.Sprintf(MSG2, meth, uri, err.Error()), "request_id", rid)
		}
		ej := ErrorJSON{Error: fmt.Sprint(he.Message), Kind: kind.String(), RequestID: rid}
		if werr := gen.JSONstatus(c, he.Code, ej); werr != nil {
			msg.TMI(fmt.Sprintf(FAIL, uri, werr.Error()))
		}
		return
	}

	k := errs.KindOf(err)
	switch k {
	case errs.Cancelled:
		msg.TMI(fmt.Sprintf(MSG1, meth, uri), "request_id", rid)
		if c.Request().Context().Err() != nil {
			// nobody is listening
			c.Response().WriteHeader(StatusClientClosedRequest)
			return
		}
	case errs.Internal, errs.ModelFit:
		msg.WARN(fmt.Sprintf(MSG2, meth, uri, err.Error()), "request_id", rid)
	default:
		msg.PEEK(fmt.Sprintf(MSG2, meth, uri, err.Error()), "request_id", rid)
	}

	ej := ErrorJSON{Error: errs.Message(err), Kind: k.String(), RequestID: rid}
	if werr := gen.JSONstatus(c, StatusFor(k), ej); werr != nil {
		msg.TMI(fmt.Sprintf(FAIL, uri, werr.Error()))
	}
}
