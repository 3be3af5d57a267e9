//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", NewValidation("op", "bad %s", "input"), Validation},
		{"insufficient", NewInsufficientData("fit", "1 < 5"), InsufficientData},
		{"notfound", NewNotFound("get", "no model"), NotFound},
		{"modelfit", NewModelFit("fit", errors.New("nan")), ModelFit},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFound("get", "x")), NotFound},
		{"cancel", fmt.Errorf("render: %w", context.Canceled), Cancelled},
		{"plain", errors.New("boom"), Internal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, KindOf(c.err))
		})
	}
}

func TestIsMatchesOnKind(t *testing.T) {
	err := fmt.Errorf("x: %w", NewNotFound("wordcloud", "no model for group %q", "2024"))
	assert.True(t, errors.Is(err, &Error{Kind: NotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: Validation}))
}

func TestMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "internal server error", Message(NewInternal("db", errors.New("password rejected"))))
	assert.Equal(t, "No file part", Message(NewValidation("analysis", "No file part")))
}
