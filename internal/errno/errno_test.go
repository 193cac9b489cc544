package errno

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		Validation:     http.StatusBadRequest,
		Conflict:       http.StatusBadRequest,
		Credentials:    http.StatusBadRequest,
		NotFound:       http.StatusNotFound,
		Authorization:  http.StatusForbidden,
		Authentication: http.StatusUnauthorized,
		Internal:       http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestKindOfUnwrapsChains(t *testing.T) {
	wrapped := fmt.Errorf("subscribe: %w", ErrAlreadySubscribed)
	assert.Equal(t, Conflict, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, ErrAlreadySubscribed)

	pkgWrapped := errors.Wrap(ErrVideoNotFound, "find video")
	assert.Equal(t, NotFound, KindOf(pkgWrapped))

	e, ok := As(pkgWrapped)
	assert.True(t, ok)
	assert.Equal(t, "Video not found", e.Msg)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("disk on fire")))
	_, ok := As(errors.New("disk on fire"))
	assert.False(t, ok)
}
