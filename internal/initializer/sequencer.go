// Package initializer brings a freshly started goose backend into a usable
// state: an agent for the chosen provider and model, the developer extension,
// and optionally an extension handed over through a deep link.
package initializer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/DevSymphony/goosectl/internal/goosed"
)

// DefaultExtension is the built-in capability attached to every new agent.
const DefaultExtension = "developer"

// Backend is the subset of the goosed client the sequencer drives.
type Backend interface {
	AddAgent(ctx context.Context, provider, model string) error
	Extend(ctx context.Context, ext goosed.ExtensionConfig) error
	ExtendFromURL(ctx context.Context, link string) (goosed.FullExtensionConfig, error)
}

// Options carries the values the caller resolved from its own configuration.
type Options struct {
	// DeepLink, when set, is attached after the default extension.
	DeepLink string
}

// Result describes what a successful Initialize attached.
type Result struct {
	// DeepLinked is the extension resolved from Options.DeepLink, exactly as
	// the backend received it. Nil when no deep link was given.
	DeepLinked *goosed.FullExtensionConfig
}

// Sequencer runs the initialization steps strictly one after another.
//
// Concurrent Initialize calls are not serialized against each other; the
// backend keeps whichever registration lands last.
type Sequencer struct {
	backend Backend
	logger  zerolog.Logger
}

// New creates a Sequencer over backend.
func New(backend Backend, logger zerolog.Logger) *Sequencer {
	return &Sequencer{backend: backend, logger: logger}
}

// Initialize registers an agent for provider/model, then attaches the
// default extension and the optional deep-linked extension. The first failing
// step aborts the rest; its error is logged and returned unchanged.
func (s *Sequencer) Initialize(ctx context.Context, provider, model string, opts Options) (Result, error) {
	log := s.logger.With().Str("provider", provider).Str("model", model).Logger()
	log.Info().Msg("initializing system")

	res, err := s.run(ctx, log, provider, model, opts)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize system")
		return Result{}, err
	}

	log.Info().Msg("system initialized")
	return res, nil
}

func (s *Sequencer) run(ctx context.Context, log zerolog.Logger, provider, model string, opts Options) (Result, error) {
	if err := s.backend.AddAgent(ctx, provider, model); err != nil {
		return Result{}, err
	}

	log.Debug().Str("extension", DefaultExtension).Msg("attaching builtin extension")
	if err := s.backend.Extend(ctx, goosed.Builtin(DefaultExtension)); err != nil {
		return Result{}, err
	}

	if opts.DeepLink == "" {
		return Result{}, nil
	}

	log.Debug().Str("deep_link", opts.DeepLink).Msg("attaching deep-linked extension")
	ext, err := s.backend.ExtendFromURL(ctx, opts.DeepLink)
	if err != nil {
		return Result{}, err
	}
	log.Debug().Str("extension", ext.Name).Str("id", ext.ID).Msg("deep-linked extension attached")
	return Result{DeepLinked: &ext}, nil
}
