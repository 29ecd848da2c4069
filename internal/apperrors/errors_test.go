package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Status(t *testing.T) {
	cases := map[Kind]int{
		Validation: http.StatusUnprocessableEntity,
		Auth:       http.StatusUnauthorized,
		NotFound:   http.StatusNotFound,
		Conflict:   http.StatusConflict,
		Dependency: http.StatusBadGateway,
		Internal:   http.StatusInternalServerError,
		Kind("unknown"): http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), "kind %s", kind)
	}
}

func TestValidationf_FormatsDetail(t *testing.T) {
	err := Validationf("bad field %q", "bib")
	assert.Equal(t, Validation, err.Kind)
	assert.Equal(t, `bad field "bib"`, err.Detail)
	assert.Nil(t, err.Cause)
}

func TestWrap_PreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Dependency, "events service unreachable", cause)

	assert.Same(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAs_ExtractsWrappedAppError(t *testing.T) {
	appErr := NotFoundf("race %s not found", "race-1")
	wrapped := fmt.Errorf("lookup failed: %w", appErr)

	extracted, ok := As(wrapped)
	require := assert.New(t)
	require.True(ok)
	require.Equal(NotFound, extracted.Kind)
}

func TestAs_FalseForPlainError(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindOf_DefaultsToInternalForUntaggedErrors(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, Conflict, KindOf(Conflictf("duplicate")))
}
