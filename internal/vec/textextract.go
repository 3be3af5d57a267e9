//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	PDFMAGIC = "%PDF"
)

// ExtractText - the text of an uploaded blob: PDFs are parsed, everything else is UTF-8 or else Latin-1
func ExtractText(b []byte) (string, error) {
	const (
		OP    = "ExtractText"
		FAIL1 = "could not read the PDF"
	)

	if bytes.HasPrefix(b, []byte(PDFMAGIC)) {
		r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
		if err != nil {
			return "", errs.E(errs.Validation, OP, FAIL1, err)
		}
		pt, err := r.GetPlainText()
		if err != nil {
			return "", errs.E(errs.Validation, OP, FAIL1, err)
		}
		var buf bytes.Buffer
		if _, err = io.Copy(&buf, pt); err != nil {
			return "", errs.E(errs.Validation, OP, FAIL1, err)
		}
		return buf.String(), nil
	}

	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	if utf8.Valid(b) {
		return string(b), nil
	}

	dec, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", errs.E(errs.Validation, OP, "undecodable text", err)
	}
	return string(dec), nil
}
