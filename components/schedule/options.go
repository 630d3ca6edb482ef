package schedule

import (
	"github.com/macro-obs/obsportal/components/auth"
	"github.com/macro-obs/obsportal/internal/store"
	"github.com/macro-obs/obsportal/pkg/render"
	"github.com/macro-obs/obsportal/pkg/visibility"
)

// DefaultMaxUploadBytes bounds schedule file uploads.
const DefaultMaxUploadBytes = 2 << 20

type Options struct {
	Store    *store.Store
	Renderer render.Renderer
	// Evaluator decides per-field visibility; defaults to the minRole gate.
	Evaluator visibility.Evaluator
	// Guard, when set, runs before the observation list handler.
	Guard auth.Guard

	HomePath         string
	SubmitPagePath   string
	SinglePath       string
	UploadPath       string
	ObservationsPath string
	FAQPath          string
	HealthPath       string

	MaxUploadBytes int64
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Evaluator:        visibility.RoleEvaluator(),
		HomePath:         "/",
		SubmitPagePath:   "/submit",
		SinglePath:       "/schedule",
		UploadPath:       "/submit",
		ObservationsPath: "/observations",
		FAQPath:          "/faq",
		HealthPath:       "/healthz",
		MaxUploadBytes:   DefaultMaxUploadBytes,
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
	if opts.Evaluator == nil {
		opts.Evaluator = visibility.RoleEvaluator()
	}
	if opts.HomePath == "" {
		opts.HomePath = "/"
	}
	if opts.SubmitPagePath == "" {
		opts.SubmitPagePath = "/submit"
	}
	if opts.SinglePath == "" {
		opts.SinglePath = "/schedule"
	}
	if opts.UploadPath == "" {
		opts.UploadPath = "/submit"
	}
	if opts.ObservationsPath == "" {
		opts.ObservationsPath = "/observations"
	}
	if opts.FAQPath == "" {
		opts.FAQPath = "/faq"
	}
	if opts.HealthPath == "" {
		opts.HealthPath = "/healthz"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
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

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithEvaluator(evaluator visibility.Evaluator) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Evaluator = evaluator
	}
}

func WithGuard(guard auth.Guard) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithMaxUploadBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxUploadBytes = n
	}
}
