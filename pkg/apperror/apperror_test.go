package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("create invoice: %w", Conflict("invoice already exists"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "create invoice: invoice already exists", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key value")
	err := Wrap(KindConflict, "sequence collision", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "sequence collision", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("work order not found"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"bad request alias", BadRequest("bad"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("not yours"), http.StatusForbidden},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}
