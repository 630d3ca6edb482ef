// Package auth is the account component: registration, login, logout, and
// the session middleware the rest of the portal uses to identify viewers.
package auth

import (
	"fmt"
	"net/http"
)

// Mux is the minimal interface required to register net/http handlers.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Component wires the auth handler, its configuration, and routing helpers.
type Component struct {
	opts    Options
	handler *handler
}

// New constructs the component with default options plus any overrides.
// Store, Sessions, and Renderer are required.
func New(fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)
	if opts.Store == nil {
		return nil, fmt.Errorf("auth: store is required")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("auth: sessions are required")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("auth: renderer is required")
	}
	return &Component{opts: opts, handler: newHandler(opts)}, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Sessions exposes the session manager for other components.
func (c *Component) Sessions() *Sessions {
	return c.opts.Sessions
}

// RegisterRoutes registers the login, register, logout, and account routes
// on mux. The account page requires a login.
func (c *Component) RegisterRoutes(mux Mux) error {
	if mux == nil {
		return fmt.Errorf("auth: missing mux")
	}
	mux.Handle(c.opts.LoginPath, http.HandlerFunc(c.handler.login))
	mux.Handle(c.opts.RegisterPath, http.HandlerFunc(c.handler.register))
	mux.Handle(c.opts.LogoutPath, http.HandlerFunc(c.handler.logout))
	mux.Handle(c.opts.AccountPath, RequireLogin(http.HandlerFunc(c.handler.account)))
	return nil
}
