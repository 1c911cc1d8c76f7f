package output

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/alt-project/adminctl/internal/domain"
)

// Exit code constants
const (
	ExitSuccess      = 0
	ExitGeneral      = 1
	ExitUsageError   = 2
	ExitConfigError  = 4
	ExitTimeout      = 5
	ExitAuthError    = 6
	ExitNetworkError = 7
	ExitHTTPError    = 8
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
	Err        error
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

func (e *CLIError) Unwrap() error { return e.Err }

// FromError classifies err into a CLIError with an exit code.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	e := &CLIError{Summary: err.Error(), ExitCode: ExitGeneral, Err: err}
	var httpErr *domain.HTTPError
	switch {
	case errors.Is(err, domain.ErrValidation):
		e.ExitCode = ExitUsageError
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		e.ExitCode = ExitTimeout
		e.Suggestion = "Raise api.timeout or check the backend's health"
	case errors.Is(err, domain.ErrNetwork):
		e.ExitCode = ExitNetworkError
		e.Suggestion = "Check api.base_url and that the backend is reachable"
	case errors.Is(err, domain.ErrNotAuthenticated):
		e.ExitCode = ExitAuthError
		e.Suggestion = "Run 'adminctl login' first"
	case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrInvalidLogin):
		e.ExitCode = ExitAuthError
		e.Suggestion = "Run 'adminctl login' with valid credentials"
	case errors.As(err, &httpErr):
		e.ExitCode = ExitHTTPError
		e.Detail = fmt.Sprintf("backend status %d", httpErr.Status)
	}
	return e
}

// ExitCodeFor returns the process exit code for err.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return FromError(err).ExitCode
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
