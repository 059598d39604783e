package retrieval

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Factory builds the engine. Concurrent first calls share one build.
type Factory func(ctx context.Context) (Engine, error)

// DefaultRetryInterval is the shortest gap between two failed builds.
const DefaultRetryInterval = 5 * time.Second

type builtEngine struct {
	engine Engine
}

// LazyEngine defers engine construction to the first Ask. A failed build is
// retried by the first call after RetryInterval; calls inside that window
// report the last failure as ErrNotReady.
type LazyEngine struct {
	factory       Factory
	logger        *zerolog.Logger
	RetryInterval time.Duration

	built  atomic.Pointer[builtEngine]
	flight singleflight.Group

	mu       sync.Mutex
	lastErr  error
	failedAt time.Time
}

func NewLazyEngine(factory Factory, logger *zerolog.Logger) *LazyEngine {
	return &LazyEngine{
		factory:       factory,
		logger:        logger,
		RetryInterval: DefaultRetryInterval,
	}
}

func (l *LazyEngine) Ask(ctx context.Context, question string) (*Result, error) {
	engine, err := l.get(ctx)
	if err != nil {
		return nil, err
	}

	return engine.Ask(ctx, question)
}

// Ready is false while the last build failed or when no factory is configured.
func (l *LazyEngine) Ready() bool {
	if l.factory == nil {
		return false
	}
	if l.built.Load() != nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr == nil
}

func (l *LazyEngine) get(ctx context.Context) (Engine, error) {
	if b := l.built.Load(); b != nil {
		return b.engine, nil
	}

	if l.factory == nil {
		return nil, fmt.Errorf("%w: no engine configured", ErrNotReady)
	}

	if err := l.recentFailure(); err != nil {
		return nil, err
	}

	v, err, _ := l.flight.Do("build", func() (any, error) {
		// A flight that finished between the load above and this call already built it.
		if b := l.built.Load(); b != nil {
			return b.engine, nil
		}
		if err := l.recentFailure(); err != nil {
			return nil, err
		}

		l.logger.Info().Msg("Loading RAG engine")

		// The first caller's cancellation must not poison the shared engine.
		engine, err := l.factory(context.WithoutCancel(ctx))
		if err != nil {
			wrapped := fmt.Errorf("%w: %w", ErrNotReady, err)
			l.mu.Lock()
			l.lastErr = wrapped
			l.failedAt = time.Now()
			l.mu.Unlock()
			l.logger.Error().Err(err).Msg("RAG engine failed to load")
			return nil, wrapped
		}

		l.built.Store(&builtEngine{engine: engine})
		l.mu.Lock()
		l.lastErr = nil
		l.mu.Unlock()
		l.logger.Info().Msg("RAG engine ready")
		return engine, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(Engine), nil
}

func (l *LazyEngine) recentFailure() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lastErr != nil && time.Since(l.failedAt) < l.RetryInterval {
		return l.lastErr
	}
	return nil
}
