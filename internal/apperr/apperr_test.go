package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("no token")))
	assert.Equal(t, KindAccessDenied, KindOf(AccessDenied("nope")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("claim")))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnexpected, KindOf(nil))
}

func TestKindOfSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NotFound("document"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestMissingFieldsMessageAndFields(t *testing.T) {
	err := MissingFields([]string{"patient_name", "doctor"})
	assert.Equal(t, "missing required fields: patient_name, doctor", err.Error())
	assert.Equal(t, []string{"patient_name", "doctor"}, err.Fields)
	assert.Equal(t, KindValidation, err.Kind())
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "claim not found", NotFound("claim").Error())
}

func TestUnexpectedPreservesCause(t *testing.T) {
	cause := errors.New("conditional check failed")
	err := Unexpected(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())
}

func TestValidationFormatting(t *testing.T) {
	err := Validation("claimed amount (%.2f) cannot exceed total authorized amount (%.2f)", 150.0, 100.0)
	assert.Equal(t, "claimed amount (150.00) cannot exceed total authorized amount (100.00)", err.Error())
}
