package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneDoesNotMutateSentinel(t *testing.T) {
	clone := Clone(ErrNotFoundOrInactive, "career not found")

	assert.Equal(t, "career not found", clone.Message)
	assert.Equal(t, ErrNotFoundOrInactive.Code, clone.Code)
	assert.Equal(t, "resource not found or already inactive", ErrNotFoundOrInactive.Message)

	same := Clone(ErrConflict, "")
	assert.Equal(t, ErrConflict.Message, same.Message)
}

func TestForbiddenCarriesReason(t *testing.T) {
	err := Forbidden(ReasonSelfDeletion, "administrators cannot delete themselves")

	assert.Equal(t, http.StatusForbidden, err.Status)
	assert.Equal(t, ReasonSelfDeletion, err.Reason)
	assert.Empty(t, ErrForbidden.Reason)
}

func TestFieldRestrictedStatus(t *testing.T) {
	err := FieldRestricted("role is not editable")

	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, ReasonFieldRestricted, err.Reason)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Status, "failed to load career")

	assert.EqualError(t, err, "failed to load career: connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestIsCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", Clone(ErrValidation, "year exceeds the career duration"))

	assert.True(t, IsCode(err, ErrValidation.Code))
	assert.False(t, IsCode(err, ErrConflict.Code))
	assert.False(t, IsCode(stderrors.New("plain"), ErrValidation.Code))
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	typed := FromError(Clone(ErrReference, "coordinator does not exist"))
	assert.Equal(t, ErrReference.Code, typed.Code)
	assert.Equal(t, http.StatusBadRequest, typed.Status)

	plain := FromError(stderrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
}
