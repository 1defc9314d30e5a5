// ABOUTME: Session store for the authenticated user, persisted under a fixed key
// ABOUTME: Logout revokes the API key best-effort, clears the user, and navigates to login

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/nexus-client/internal/api"
	"github.com/2389/nexus-client/internal/observable"
	"github.com/2389/nexus-client/internal/storage"
)

const (
	// StorageKey is the storage key holding the JSON user record.
	StorageKey = "nexus_user"

	// DefaultLoginPath is where Logout navigates.
	DefaultLoginPath = "/forge/login"
)

// ErrNoAuthenticator is returned by Login and Register when the session has
// no Authenticator.
var ErrNoAuthenticator = errors.New("session has no authenticator")

// Authenticator performs the account calls a session needs. *api.Client
// implements it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.User, error)
	Register(ctx context.Context, username, email, password string) (*api.User, error)
	Logout(ctx context.Context, apiKey string) error
}

// Navigator performs a full navigation to path.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Session owns the current user.
type Session struct {
	user      *observable.Persisted[*api.User]
	auth      Authenticator
	navigator Navigator
	loginPath string
	logger    *slog.Logger
}

type options struct {
	storage   storage.Storage
	auth      Authenticator
	navigator Navigator
	loginPath string
	logger    *slog.Logger
}

// Option configures a Session.
type Option func(*options)

// WithStorage persists the user in s. Without it the session is memory-only.
func WithStorage(s storage.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithAuthenticator sets the account client used by Login, Register and Logout.
func WithAuthenticator(a Authenticator) Option {
	return func(o *options) {
		o.auth = a
	}
}

// WithNavigator sets where Logout navigates. Without it Logout does not navigate.
func WithNavigator(n Navigator) Option {
	return func(o *options) {
		o.navigator = n
	}
}

// WithLoginPath overrides DefaultLoginPath.
func WithLoginPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.loginPath = path
		}
	}
}

// WithLogger sets the session's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a Session, seeding the user from storage when configured.
// A stored record that is not a complete user is discarded.
func New(opts ...Option) *Session {
	o := options{loginPath: DefaultLoginPath}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	logger := o.logger.With("component", "session")

	s := &Session{
		user: observable.NewPersisted[*api.User](StorageKey, nil,
			observable.WithStorage(o.storage),
			observable.WithLogger(o.logger)),
		auth:      o.auth,
		navigator: o.navigator,
		loginPath: o.loginPath,
		logger:    logger,
	}

	if u := s.user.Get(); u != nil {
		if err := u.Validate(); err != nil {
			logger.Warn("discarding stored user", "error", err)
			s.user.Set(nil)
		}
	}
	return s
}

// User returns the current user, or nil when logged out.
func (s *Session) User() *api.User {
	return s.user.Get()
}

// LoggedIn reports whether a user is set.
func (s *Session) LoggedIn() bool {
	return s.user.Get() != nil
}

// SetUser replaces the current user. A nil user logs out locally without any
// network call or navigation. A partial user is rejected.
func (s *Session) SetUser(u *api.User) error {
	if u != nil {
		if err := u.Validate(); err != nil {
			return err
		}
	}
	s.user.Set(u)
	return nil
}

// Subscribe calls fn now and on every user change.
func (s *Session) Subscribe(fn func(*api.User)) (unsubscribe func()) {
	return s.user.Subscribe(fn)
}

// Login authenticates and stores the returned user.
func (s *Session) Login(ctx context.Context, username, password string) (*api.User, error) {
	if s.auth == nil {
		return nil, ErrNoAuthenticator
	}
	u, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if err := s.SetUser(u); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	s.logger.Info("logged in", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Register creates an account and stores the returned user.
func (s *Session) Register(ctx context.Context, username, email, password string) (*api.User, error) {
	if s.auth == nil {
		return nil, ErrNoAuthenticator
	}
	u, err := s.auth.Register(ctx, username, email, password)
	if err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	if err := s.SetUser(u); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	s.logger.Info("registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Logout revokes the current API key if there is one, clears the user and
// navigates to the login path. It never fails: a revocation error is logged
// and logout continues.
func (s *Session) Logout(ctx context.Context) {
	u := s.user.Get()

	if u != nil && u.APIKey != "" {
		if s.auth == nil {
			s.logger.Debug("no authenticator, skipping key revocation")
		} else if err := s.auth.Logout(ctx, u.APIKey); err != nil {
			s.logger.Warn("revoking api key failed, continuing logout", "user_id", u.ID, "error", err)
		}
	}

	s.user.Set(nil)

	if s.navigator != nil {
		s.navigator.Navigate(s.loginPath)
	}
}
