// Package schedule is the portal component that renders the submission page
// and accepts observation requests, singly or as uploaded schedule files.
package schedule

import (
	"fmt"
	"net/http"

	"github.com/macro-obs/obsportal/components/auth"
)

// Mux is the minimal interface required to register net/http handlers.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Component wires the scheduling handler, its configuration, and routing.
type Component struct {
	opts    Options
	handler *handler
}

// New constructs the component with default options plus any overrides.
// Store and Renderer are required.
func New(fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)
	if opts.Store == nil {
		return nil, fmt.Errorf("schedule: store is required")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("schedule: renderer is required")
	}
	return &Component{opts: opts, handler: newHandler(opts)}, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	return NewOptions(func(o *Options) { *o = c.opts })
}

// RegisterRoutes registers the portal routes on mux. The submission page,
// both submission endpoints, and the observation listing require a login;
// the home page, FAQ, and health check do not.
func (c *Component) RegisterRoutes(mux Mux) error {
	if mux == nil {
		return fmt.Errorf("schedule: missing mux")
	}
	mux.Handle(c.opts.HomePath, http.HandlerFunc(c.handler.home))
	mux.Handle(c.opts.SubmitPagePath, auth.RequireLogin(http.HandlerFunc(c.handler.submit)))
	mux.Handle(c.opts.SinglePath, auth.RequireLogin(http.HandlerFunc(c.handler.single)))
	mux.Handle(c.opts.ObservationsPath, auth.RequireLogin(http.HandlerFunc(c.handler.observations)))
	mux.Handle(c.opts.FAQPath, http.HandlerFunc(c.handler.faq))
	mux.Handle(c.opts.HealthPath, http.HandlerFunc(c.handler.health))
	return nil
}
