//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONresponse - send the JSON; jsr should be a json-ready struct
func JSONresponse(c echo.Context, jsr any) error {
	// JSONPretty shows up on the profiler: only worth it when debugging
	return c.JSON(http.StatusOK, jsr)
}

// JSONstatus - send the JSON with a status other than 200
func JSONstatus(c echo.Context, status int, jsr any) error {
	return c.JSON(status, jsr)
}
