//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CLIENTHEADER = "X-Client-ID"
	CLIENTQUERY  = "client"
	CLIENTCOOKIE = "ID"
)

// ClientID - who is asking: header, then query, then cookie; a cookie is issued to anyone who has none of these
func ClientID(c echo.Context) string {
	if id := c.Request().Header.Get(CLIENTHEADER); id != "" {
		return id
	}
	if id := c.QueryParam(CLIENTQUERY); id != "" {
		return id
	}
	return ReadUUIDCookie(c)
}

// ReadUUIDCookie - find the ID of the client
func ReadUUIDCookie(c echo.Context) string {
	cookie, err := c.Cookie(CLIENTCOOKIE)
	if err != nil || cookie.Value == "" {
		return writeUUIDCookie(c)
	}
	return cookie.Value
}

// writeUUIDCookie - set the ID of the client
func writeUUIDCookie(c echo.Context) string {
	cookie := new(http.Cookie)
	cookie.Name = CLIENTCOOKIE
	cookie.Path = "/"
	cookie.Value = uuid.New().String()
	cookie.Expires = time.Now().Add(4800 * time.Hour)
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)
	msg.TMI(fmt.Sprintf("writeUUIDCookie() - new ID set: %s", cookie.Value))
	return cookie.Value
}
