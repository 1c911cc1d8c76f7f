package domain

import "context"

// CredentialSource supplies the credential attached to outbound requests.
type CredentialSource interface {
	CurrentCredential() (string, bool)
}

// Loader fetches the current server state for one cache key.
type Loader[T any] func(ctx context.Context) (T, error)

// Performer executes one mutation against the backend.
type Performer func(ctx context.Context) error
