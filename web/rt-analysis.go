//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/gen"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/labstack/echo/v4"
)

//
// ROUTING
//

// RtPaperAnalysis - multipart field "file" (PDF or text) and optional field "group"; the paper is scored
// against the fitted models but never added to the corpus
func (s *Server) RtPaperAnalysis(c echo.Context) error {
	const (
		OP    = "RtPaperAnalysis"
		FAIL1 = "No file part"
		FAIL2 = "No selected file"
		FAIL3 = "could not read the upload: %s"
	)

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		// ok
	case errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart):
		// a part named "file" without a filename is parsed as a plain value
		if mf := c.Request().MultipartForm; mf != nil {
			if _, ok := mf.Value["file"]; ok {
				return errs.NewValidation(OP, FAIL2)
			}
		}
		return errs.NewValidation(OP, FAIL1)
	default:
		return errs.NewValidation(OP, FAIL3, err.Error())
	}

	if strings.TrimSpace(fh.Filename) == "" {
		return errs.NewValidation(OP, FAIL2)
	}

	f, err := fh.Open()
	if err != nil {
		return errs.NewInternal(OP, err)
	}
	defer f.Close()

	blob, err := io.ReadAll(io.LimitReader(f, vv.MAXUPLOADBYTES))
	if err != nil {
		return errs.NewValidation(OP, FAIL3, err.Error())
	}

	an, err := s.Eng.AnalyseUpload(c.Request().Context(), fh.Filename, blob, strings.TrimSpace(c.FormValue("group")))
	if err != nil {
		return err
	}
	return gen.JSONresponse(c, an)
}
