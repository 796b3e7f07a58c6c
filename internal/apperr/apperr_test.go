package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestValidation_Message(t *testing.T) {
	err := apperr.Validation("write lines", "complaint", "is required")
	assert.Equal(t, "write lines: complaint: is required", err.Error())
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDependency_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Dependency("insert lines", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert lines: connection reset", err.Error())
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", apperr.NotFound("get session", errors.New("missing")))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(errors.New("plain")))
}

func TestIs_MatchesByKind(t *testing.T) {
	err := apperr.Conflict("update status", "invalid transition")
	assert.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindConflict}))
	assert.False(t, errors.Is(err, &apperr.Error{Kind: apperr.KindValidation}))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "validation", apperr.KindValidation.String())
	assert.Equal(t, "dependency", apperr.KindDependency.String())
	assert.Equal(t, "unknown", apperr.Kind(99).String())
}
