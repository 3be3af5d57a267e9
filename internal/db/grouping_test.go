//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"testing"

	"github.com/e-gun/PaperScopeServer/internal/errs"
	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupers(t *testing.T) {
	d := &str.Document{Year: 2023}

	g, err := NewGrouper("year")
	require.NoError(t, err)
	assert.Equal(t, "2023", g(d))

	g, err = NewGrouper("bucket:5")
	require.NoError(t, err)
	assert.Equal(t, "2020-2024", g(d))
	assert.Equal(t, "2025-2029", g(&str.Document{Year: 2025}))

	g, err = NewGrouper("all")
	require.NoError(t, err)
	assert.Equal(t, "all", g(d))

	_, err = NewGrouper("bucket:zero")
	assert.True(t, errs.IsKind(err, errs.Validation))
	_, err = NewGrouper("decade")
	assert.True(t, errs.IsKind(err, errs.Validation))
}
