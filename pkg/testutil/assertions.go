package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision/internal/domain/model"
)

// RequireErrorContains fails the test immediately unless err is non-nil and
// contains the expected substring.
func RequireErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// RequireInvalidApplicant checks that err reports rejected input rather than
// an internal failure, and mentions each of fields.
func RequireInvalidApplicant(t *testing.T, err error, fields ...string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrInvalidApplicant), "expected ErrInvalidApplicant, got %v", err)
	for _, f := range fields {
		assert.Contains(t, err.Error(), f)
	}
}
