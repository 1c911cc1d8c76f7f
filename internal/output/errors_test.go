package output

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alt-project/adminctl/internal/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("amount", "Enter a valid amount"), ExitUsageError},
		{"timeout", &domain.NetworkError{Timeout: true}, ExitTimeout},
		{"deadline", fmt.Errorf("loading: %w", context.DeadlineExceeded), ExitTimeout},
		{"network", &domain.NetworkError{Err: errors.New("connection refused")}, ExitNetworkError},
		{"auth", &domain.AuthError{Status: 401}, ExitAuthError},
		{"invalid login", domain.ErrInvalidLogin, ExitAuthError},
		{"not logged in", domain.ErrNotAuthenticated, ExitAuthError},
		{"http", &domain.HTTPError{Status: 500, Message: "Server error"}, ExitHTTPError},
		{"not found", domain.NewNotFoundError("missing"), ExitHTTPError},
		{"undecodable body", &domain.HTTPError{Status: 200, Message: "decoding GET /x response", Err: errors.New("invalid character")}, ExitHTTPError},
		{"other", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			assert.Equal(t, tt.want, got.ExitCode)
			assert.Equal(t, tt.err.Error(), got.Summary)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestFromError_KeepsCLIError(t *testing.T) {
	orig := &CLIError{Summary: "bad config", ExitCode: ExitConfigError}

	assert.Same(t, orig, FromError(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, FromError(nil))
	assert.Equal(t, ExitSuccess, ExitCodeFor(nil))
}

func TestFromError_HTTPDetail(t *testing.T) {
	got := FromError(&domain.HTTPError{Status: 502, Message: "Bad gateway"})

	assert.Equal(t, "backend status 502", got.Detail)
}

func TestFormatError(t *testing.T) {
	p, _, stderr := newTestPrinter(false)

	p.FormatError(&CLIError{
		Summary:    "credential rejected",
		Detail:     "backend status 401",
		Suggestion: "Run 'adminctl login' with valid credentials",
		ExitCode:   ExitAuthError,
	})

	assert.Equal(t, "[ERROR] credential rejected\n"+
		"  Cause: backend status 401\n"+
		"  Suggestion: Run 'adminctl login' with valid credentials\n", stderr.String())
}

func TestFormatError_NoDetail(t *testing.T) {
	p, _, stderr := newTestPrinter(false)

	p.FormatError(&CLIError{Summary: "invalid configuration"})

	assert.NotContains(t, stderr.String(), "Cause:")
	assert.NotContains(t, stderr.String(), "Suggestion:")
}
