package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/gateway"
	"github.com/alt-project/adminctl/internal/resource"
	"github.com/alt-project/adminctl/internal/session"
)

// Login messages shown to the operator.
const (
	MsgLoginRequired = "Username and password are required."
	MsgInvalidLogin  = "Invalid username or password."
	MsgLoginNetwork  = "Network error. Please try again."
)

// LoginError is a rejected login attempt. Err is the underlying gateway error.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

func (e *LoginError) Is(target error) bool {
	return target == domain.ErrInvalidLogin && !errors.Is(e.Err, domain.ErrNetwork)
}

// Authenticator validates a credential against the backend before handing it
// to the session store.
type Authenticator struct {
	api    API
	store  *session.Store
	engine *resource.Engine
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator. engine may be nil.
func NewAuthenticator(api API, store *session.Store, engine *resource.Engine, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{api: api, store: store, engine: engine, logger: logger}
}

// Login checks the credential with an authenticated dashboard request and,
// when accepted, persists it. Cached data from an earlier identity is invalidated.
func (a *Authenticator) Login(ctx context.Context, identity, secret string) (session.Session, error) {
	// Blank-only input is rejected, but the credential keeps the raw values.
	if strings.TrimSpace(identity) == "" || strings.TrimSpace(secret) == "" {
		return a.store.Current(), domain.NewValidationError("credentials", MsgLoginRequired)
	}

	candidate := session.EncodeCredential(identity, secret)
	err := a.api.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   apiPrefix + "/dashboard",
		Header: http.Header{"Authorization": {"Basic " + candidate}},
	}, nil)
	if err != nil {
		a.logger.InfoContext(ctx, "login rejected", "identity", identity, "error", err)
		if errors.Is(err, domain.ErrNetwork) {
			return a.store.Current(), &LoginError{Message: MsgLoginNetwork, Err: err}
		}
		return a.store.Current(), &LoginError{Message: MsgInvalidLogin, Err: err}
	}

	sess, err := a.store.Login(ctx, identity, secret)
	if err != nil {
		return sess, err
	}
	a.reset()
	a.logger.InfoContext(ctx, "logged in", "identity", identity)
	return sess, nil
}

// Logout clears the session and every cached collection.
func (a *Authenticator) Logout(ctx context.Context) error {
	err := a.store.Logout(ctx)
	a.reset()
	return err
}

func (a *Authenticator) reset() {
	if a.engine != nil {
		a.engine.Invalidate(AllTypes...)
	}
}
