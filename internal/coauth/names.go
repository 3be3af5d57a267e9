//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package coauth

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// AuthorNamespace - name-based author ids live under this namespace
var AuthorNamespace = uuid.MustParse("8d3c1f6e-4a52-5b7e-9c0d-2f61a4e8b357")

// NormalizeName - NFKC, case-folded, single spaces; "  Ada   LOVELACE " and "ada lovelace" are the same author
func NormalizeName(name string) string {
	n := norm.NFKC.String(name)
	n = cases.Fold().String(n)
	return strings.Join(strings.Fields(n), " ")
}

// AuthorID - stable across rebuilds as long as the normalized name is stable
func AuthorID(name string) string {
	nn := NormalizeName(name)
	if nn == "" {
		return ""
	}
	return uuid.NewSHA1(AuthorNamespace, []byte(nn)).String()
}

// tidyname - the display form: inner whitespace collapsed, case left alone
func tidyname(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}
