package auth

import (
	"golang.org/x/time/rate"

	"github.com/macro-obs/obsportal/internal/store"
	"github.com/macro-obs/obsportal/pkg/render"
)

type Options struct {
	Store    *store.Store
	Sessions *Sessions
	Renderer render.Renderer

	LoginPath    string
	RegisterPath string
	LogoutPath   string
	AccountPath  string
	// AfterLogin is where a successful login or registration lands.
	AfterLogin string

	// LoginRate and LoginBurst bound login attempts per client IP.
	LoginRate  rate.Limit
	LoginBurst int

	// MinPasswordLength gates registration and password resets.
	MinPasswordLength int
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		LoginPath:         "/login",
		RegisterPath:      "/register",
		LogoutPath:        "/logout",
		AccountPath:       "/account",
		AfterLogin:        "/submit",
		LoginRate:         rate.Every(defaultLoginInterval),
		LoginBurst:        5,
		MinPasswordLength: 8,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.RegisterPath == "" {
		opts.RegisterPath = "/register"
	}
	if opts.LogoutPath == "" {
		opts.LogoutPath = "/logout"
	}
	if opts.AccountPath == "" {
		opts.AccountPath = "/account"
	}
	if opts.AfterLogin == "" {
		opts.AfterLogin = "/submit"
	}
	if opts.LoginRate <= 0 {
		opts.LoginRate = rate.Every(defaultLoginInterval)
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 8
	}
	return opts
}

func WithStore(s *store.Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Store = s
	}
}

func WithSessions(sessions *Sessions) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Sessions = sessions
	}
}

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithAfterLogin(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AfterLogin = path
	}
}

func WithLoginRate(limit rate.Limit, burst int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LoginRate = limit
		o.LoginBurst = burst
	}
}

func WithMinPasswordLength(n int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MinPasswordLength = n
	}
}
