package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/affistats/insights-manager/internal/entity"
)

func TestErrorRendering(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewConnectionError(entity.ProviderGoogleSheets, "cannot reach sheets api", cause)
	assert.Equal(t, "google-sheets: cannot reach sheets api: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	err = NewAuthenticationError(entity.ProviderBigQuery, "invalid service account key")
	assert.Equal(t, "bigquery: invalid service account key", err.Error())
}

func TestErrorRecoverability(t *testing.T) {
	assert.True(t, IsRecoverable(NewConnectionError(entity.ProviderGoogleSheets, "timeout", nil)))
	assert.True(t, IsRecoverable(NewTransformationError(entity.ProviderGoogleSheets, "bad batch", nil)))
	assert.False(t, IsRecoverable(NewAuthenticationError(entity.ProviderGoogleSheets, "bad key")))
	assert.False(t, IsRecoverable(NewValidationError(entity.ProviderGoogleSheets, "bad config")))
	assert.False(t, IsRecoverable(errors.New("plain")))
	assert.False(t, IsRecoverable(nil))
}

func TestCodeOf(t *testing.T) {
	err := NewValidationError(entity.ProviderClickHouse, "table is required")
	assert.Equal(t, CodeValidation, CodeOf(err))

	// survives wrapping
	wrapped := fmt.Errorf("apply query: %w", err)
	assert.Equal(t, CodeValidation, CodeOf(wrapped))

	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
