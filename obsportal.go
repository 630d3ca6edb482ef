// Package obsportal assembles the observation portal: storage, sessions,
// renderers, and the HTTP components, behind a single constructor.
package obsportal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/macro-obs/obsportal/components/auth"
	schedulecomp "github.com/macro-obs/obsportal/components/schedule"
	"github.com/macro-obs/obsportal/internal/store"
	"github.com/macro-obs/obsportal/pkg/api"
	"github.com/macro-obs/obsportal/pkg/render"
	"github.com/macro-obs/obsportal/pkg/renderers/html"
)

const defaultAssetPath = "/assets"

type Option func(*config)

type config struct {
	store          *store.Store
	databasePath   string
	sessionSecret  []byte
	sessionTTL     time.Duration
	secureCookies  bool
	maxUploadBytes int64
	themeCfg       *theme.RendererConfig
	renderer       render.Renderer
	assetPath      string
	openAPIPath    string
}

// WithDatabasePath opens (creating if needed) the SQLite database at path.
func WithDatabasePath(path string) Option {
	return func(cfg *config) {
		cfg.databasePath = path
	}
}

// WithStore supplies an already-open store; the portal will not close it.
func WithStore(s *store.Store) Option {
	return func(cfg *config) {
		cfg.store = s
	}
}

// WithSessionSecret sets the key session cookies are signed with. Required.
func WithSessionSecret(secret []byte) Option {
	return func(cfg *config) {
		cfg.sessionSecret = secret
	}
}

// WithSessionTTL bounds how long a login stays valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(cfg *config) {
		cfg.sessionTTL = ttl
	}
}

// WithSecureCookies marks session cookies HTTPS-only.
func WithSecureCookies(secure bool) Option {
	return func(cfg *config) {
		cfg.secureCookies = secure
	}
}

// WithMaxUploadBytes bounds schedule file uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(cfg *config) {
		cfg.maxUploadBytes = n
	}
}

// WithTheme applies a theme configuration to the built-in HTML renderer.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.themeCfg = themeCfg
	}
}

// WithRenderer swaps the page renderer. The default is the HTML renderer
// with its embedded template bundle.
func WithRenderer(renderer render.Renderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithAssetPath changes the URL prefix the embedded CSS/JS is served under.
func WithAssetPath(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.assetPath = path
		}
	}
}

// Portal is the assembled application. Handler() is what the server binds.
type Portal struct {
	store     *store.Store
	ownsStore bool
	sessions  *auth.Sessions
	registry  *render.Registry
	handler   http.Handler
}

// New assembles the portal. A session secret is required; everything else
// has workable defaults.
func New(options ...Option) (*Portal, error) {
	cfg := config{
		databasePath:   "obsportal.db",
		sessionTTL:     auth.DefaultSessionTTL,
		maxUploadBytes: schedulecomp.DefaultMaxUploadBytes,
		assetPath:      defaultAssetPath,
		openAPIPath:    "/api/openapi.json",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	st := cfg.store
	ownsStore := false
	if st == nil {
		opened, err := store.Open(cfg.databasePath)
		if err != nil {
			return nil, err
		}
		st = opened
		ownsStore = true
	}

	renderer := cfg.renderer
	if renderer == nil {
		built, err := html.New(
			html.WithTheme(cfg.themeCfg),
			html.WithAssetPath(cfg.assetPath),
		)
		if err != nil {
			return nil, err
		}
		renderer = built
	}

	registry := render.NewRegistry()
	if err := registry.Register(renderer); err != nil {
		return nil, err
	}

	sessions, err := auth.NewSessions(cfg.sessionSecret, cfg.sessionTTL, cfg.secureCookies)
	if err != nil {
		return nil, err
	}

	authComponent, err := auth.New(
		auth.WithStore(st),
		auth.WithSessions(sessions),
		auth.WithRenderer(renderer),
	)
	if err != nil {
		return nil, err
	}

	scheduleComponent, err := schedulecomp.New(
		schedulecomp.WithStore(st),
		schedulecomp.WithRenderer(renderer),
		schedulecomp.WithMaxUploadBytes(cfg.maxUploadBytes),
	)
	if err != nil {
		return nil, err
	}

	doc, err := api.Document(context.Background())
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := authComponent.RegisterRoutes(mux); err != nil {
		return nil, err
	}
	if err := scheduleComponent.RegisterRoutes(mux); err != nil {
		return nil, err
	}
	mux.Handle(cfg.openAPIPath, api.Handler(doc))
	mux.Handle(cfg.assetPath+"/", http.StripPrefix(cfg.assetPath+"/",
		http.FileServerFS(html.AssetsFS())))

	return &Portal{
		store:     st,
		ownsStore: ownsStore,
		sessions:  sessions,
		registry:  registry,
		handler:   sessions.WithViewer(mux),
	}, nil
}

// Handler returns the root HTTP handler with session resolution applied.
func (p *Portal) Handler() http.Handler {
	return p.handler
}

// Store exposes the portal's store, for the admin tooling.
func (p *Portal) Store() *store.Store {
	return p.store
}

// Sessions exposes the session manager.
func (p *Portal) Sessions() *auth.Sessions {
	return p.sessions
}

// Renderers lists the registered renderer names.
func (p *Portal) Renderers() []string {
	return p.registry.List()
}

// Close releases resources the portal opened itself. A store supplied via
// WithStore stays open.
func (p *Portal) Close() error {
	if !p.ownsStore {
		return nil
	}
	if err := p.store.Close(); err != nil {
		return fmt.Errorf("obsportal: close store: %w", err)
	}
	return nil
}
