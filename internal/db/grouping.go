//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
)

// Grouper - derive a document's group key from its publication year
type Grouper func(d *str.Document) string

// NewGrouper - "year", "bucket:N" or "all"
func NewGrouper(spec string) (Grouper, error) {
	const (
		OP    = "NewGrouper"
		FAIL1 = "unknown grouping '%s'; expected 'year', 'bucket:N' or 'all'"
		FAIL2 = "bucket width must be a positive integer: '%s'"
	)

	name, arg, _ := strings.Cut(strings.TrimSpace(spec), ":")
	switch name {
	case vv.GROUPBYYEAR, "":
		return func(d *str.Document) string { return strconv.Itoa(d.Year) }, nil
	case vv.GROUPBYALL:
		return func(d *str.Document) string { return vv.GROUPBYALL }, nil
	case vv.GROUPBYBUCKET:
		w, err := strconv.Atoi(arg)
		if err != nil || w < 1 {
			return nil, errs.NewValidation(OP, FAIL2, arg)
		}
		return func(d *str.Document) string {
			lo := floordiv(d.Year, w) * w
			if w == 1 {
				return strconv.Itoa(lo)
			}
			return fmt.Sprintf("%d-%d", lo, lo+w-1)
		}, nil
	default:
		return nil, errs.NewValidation(OP, FAIL1, spec)
	}
}

func floordiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// AssignGroups - stamp every document with its group key
func AssignGroups(docs []*str.Document, g Grouper) {
	for _, d := range docs {
		d.GroupKey = g(d)
	}
}
