// ABOUTME: Wires config, storage, API client, session and selection into one client
// ABOUTME: Shared by the nexus CLI and the nexus-tui REPL

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/2389/nexus-client/internal/api"
	"github.com/2389/nexus-client/internal/config"
	"github.com/2389/nexus-client/internal/selection"
	"github.com/2389/nexus-client/internal/session"
	"github.com/2389/nexus-client/internal/storage"
)

// ErrNoActiveThread is returned by Post when no thread is focused.
var ErrNoActiveThread = errors.New("no active thread")

// App is a fully wired client.
type App struct {
	Config    *config.Config
	Client    *api.Client
	Session   *session.Session
	Selection *selection.Selection

	storage     storage.Storage
	ownsStorage bool
	logger      *slog.Logger
}

type options struct {
	storage    storage.Storage
	navigator  session.Navigator
	logger     *slog.Logger
	httpClient *http.Client
}

// Option configures an App.
type Option func(*options)

// WithStorage uses s instead of opening cfg.State.Path. The caller keeps
// ownership and Close leaves it open.
func WithStorage(s storage.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithNavigator is invoked with the login path after logout.
func WithNavigator(n session.Navigator) Option {
	return func(o *options) {
		o.navigator = n
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient sets the HTTP client used for backend calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// New builds an App from cfg. Without WithStorage, state lives in the
// sqlite file at cfg.State.Path, or in memory when the path is empty.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	a := &App{
		Config:    cfg,
		Selection: selection.New(),
		logger:    o.logger.With("component", "app"),
	}

	switch {
	case o.storage != nil:
		a.storage = o.storage
	case cfg.State.Path != "":
		s, err := storage.NewSQLiteStorage(cfg.State.Path)
		if err != nil {
			return nil, fmt.Errorf("opening state: %w", err)
		}
		a.storage = s
		a.ownsStorage = true
	default:
		a.storage = storage.NewMemoryStorage()
		a.ownsStorage = true
	}

	clientOpts := []api.Option{api.WithLogger(o.logger)}
	if cfg.API.AuthPath != "" {
		clientOpts = append(clientOpts, api.WithAuthPath(cfg.API.AuthPath))
	}
	if cfg.API.StrictStatus {
		clientOpts = append(clientOpts, api.WithStrictStatus())
	}
	if cfg.API.ValidateResponses {
		clientOpts = append(clientOpts, api.WithValidation())
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(o.httpClient))
	}
	a.Client = api.New(cfg.API.BaseURL, clientOpts...)

	sessionOpts := []session.Option{
		session.WithStorage(a.storage),
		session.WithAuthenticator(a.Client),
		session.WithLogger(o.logger),
	}
	if cfg.API.LoginPath != "" {
		sessionOpts = append(sessionOpts, session.WithLoginPath(cfg.API.LoginPath))
	}
	if o.navigator != nil {
		sessionOpts = append(sessionOpts, session.WithNavigator(o.navigator))
	}
	a.Session = session.New(sessionOpts...)

	return a, nil
}

// Close releases storage opened by New.
func (a *App) Close() error {
	if !a.ownsStorage {
		return nil
	}
	return a.storage.Close()
}

// Post creates an entry in the active thread as the selected agent.
// With no agent selected the entry is anonymous.
func (a *App) Post(ctx context.Context, content string) (*api.Reply[api.Entry], error) {
	threadID, ok := a.Selection.ActiveThreadID()
	if !ok {
		return nil, ErrNoActiveThread
	}
	agent := a.Selection.Agent.Get()
	return a.Client.CreateEntry(ctx, threadID, agent.ID, agent.Secret, content)
}

// ActAsPublic secures the public agent name, creating it if needed, and
// selects it.
func (a *App) ActAsPublic(ctx context.Context, name string) (*api.Agent, error) {
	reply, err := a.Client.SecurePublicAgent(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := reply.Err("secure_public_agent", "agent rejected"); err != nil {
		return nil, err
	}
	agent := reply.Value
	a.Selection.SelectAgent(selection.PublicAgent(agent))
	a.logger.Debug("acting as public agent", "agent_id", agent.ID, "name", agent.Name)
	return &agent, nil
}

// ActAsPrivate selects the private agent name authenticated by secret.
// When create is set the agent is secured (created if absent) instead of
// only fetched.
func (a *App) ActAsPrivate(ctx context.Context, name, secret string, create bool) (*api.Agent, error) {
	op := "fetch_private_agent"
	fetch := a.Client.FetchPrivateAgent
	if create {
		op = "secure_private_agent"
		fetch = a.Client.SecurePrivateAgent
	}

	reply, err := fetch(ctx, name, secret)
	if err != nil {
		return nil, err
	}
	if err := reply.Err(op, "agent rejected"); err != nil {
		return nil, err
	}
	agent := reply.Value
	a.Selection.SelectAgent(selection.PrivateAgent(agent, secret))
	a.logger.Debug("acting as private agent", "agent_id", agent.ID, "name", agent.Name)
	return &agent, nil
}

// OpenThread focuses threadID after checking that it has entries to read,
// returning the first page.
func (a *App) OpenThread(ctx context.Context, threadID string) (*api.EntryPage, error) {
	page, err := a.Client.ListEntries(ctx, threadID)
	if err != nil {
		return nil, err
	}
	a.Selection.SetActiveThread(threadID)
	return page, nil
}
