// Package session owns the console's authenticated identity and the credential
// derived from it.
package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
)

// Session is a snapshot of the current identity.
type Session struct {
	Identity      string
	Credential    string
	Authenticated bool
}

// Record is the persisted form of a session.
type Record struct {
	Identity   string `json:"authUser"`
	Secret     string `json:"authPass"`
	Credential string `json:"authToken"`
}

// Complete reports whether all three fields are present.
func (r Record) Complete() bool {
	return r.Identity != "" && r.Secret != "" && r.Credential != ""
}

// Storage persists a Record for the lifetime of a console session.
// Load returns ok=false when nothing is stored.
type Storage interface {
	Load(ctx context.Context) (rec Record, ok bool, err error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}

// Store is the single owner of session state. The secret is kept in
// recoverable form because the backend expects a Basic credential.
type Store struct {
	mu      sync.RWMutex
	current Session
	storage Storage
	logger  *slog.Logger
}

// New creates an unauthenticated Store. Call Restore to pick up a persisted session.
func New(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{storage: storage, logger: logger}
}

// EncodeCredential returns the Basic credential for identity and secret.
func EncodeCredential(identity, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(identity + ":" + secret))
}

// Login persists the identity and marks the session authenticated. It does
// not contact the backend; callers validate the credential first.
func (s *Store) Login(ctx context.Context, identity, secret string) (Session, error) {
	rec := Record{
		Identity:   identity,
		Secret:     secret,
		Credential: EncodeCredential(identity, secret),
	}
	if err := s.storage.Save(ctx, rec); err != nil {
		return s.Current(), fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	s.current = Session{Identity: identity, Credential: rec.Credential, Authenticated: true}
	snapshot := s.current
	s.mu.Unlock()

	s.logger.Debug("session established", "identity", identity)
	return snapshot, nil
}

// Logout clears persisted storage and resets the in-memory session. Calling
// it on an unauthenticated store is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.logger.Debug("session cleared")
	return nil
}

// Restore loads a persisted session. Missing, partial or unreadable storage
// leaves the store unauthenticated.
func (s *Store) Restore(ctx context.Context) Session {
	rec, ok, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Debug("session storage unreadable", "error", err)
		return s.Current()
	}
	if !ok || !rec.Complete() {
		return s.Current()
	}

	s.mu.Lock()
	s.current = Session{Identity: rec.Identity, Credential: rec.Credential, Authenticated: true}
	snapshot := s.current
	s.mu.Unlock()

	s.logger.Debug("session restored", "identity", rec.Identity)
	return snapshot
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentCredential returns the credential when authenticated.
func (s *Store) CurrentCredential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.current.Authenticated {
		return "", false
	}
	return s.current.Credential, true
}
