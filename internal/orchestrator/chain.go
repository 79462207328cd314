// Package orchestrator runs translation services as an ordered fallback
// chain: each service is attempted in turn until one succeeds.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/valpere/poptran/internal/translator"
)

// ProviderExhaustedError is returned when every attempt in a chain failed.
// Err aggregates the individual attempt errors in order.
type ProviderExhaustedError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ProviderExhaustedError) Error() string {
	return fmt.Sprintf("%s: all %d translation attempts failed: %v", e.Provider, e.Attempts, e.Err)
}

func (e *ProviderExhaustedError) Unwrap() error { return e.Err }

// ErrEmptyChain is returned by Execute on a chain without services.
var ErrEmptyChain = errors.New("no translation services configured")

type Chain struct {
	provider string
	services []translator.TranslationService
	logger   *zap.Logger
}

// NewChain builds a chain for the named provider. Nil services are skipped
// so optional fallbacks can be passed unconditionally.
func NewChain(provider string, logger *zap.Logger, services ...translator.TranslationService) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	list := make([]translator.TranslationService, 0, len(services))
	for _, svc := range services {
		if svc != nil {
			list = append(list, svc)
		}
	}
	return &Chain{
		provider: provider,
		services: list,
		logger:   logger,
	}
}

// Names returns the attempt order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.services))
	for i, svc := range c.services {
		names[i] = svc.Name()
	}
	return names
}

func (c *Chain) Len() int {
	return len(c.services)
}

// Execute tries each service in order and returns the first successful result.
// Failed attempts are logged at debug level only; callers decide what the
// user sees.
func (c *Chain) Execute(ctx context.Context, req translator.TranslateRequest) (*translator.Result, error) {
	if len(c.services) == 0 {
		return nil, fmt.Errorf("%s: %w", c.provider, ErrEmptyChain)
	}

	var errs error
	attempts := 0
	for _, svc := range c.services {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}

		attempts++
		start := time.Now()
		res, err := svc.Translate(ctx, req)
		latency := time.Since(start)
		if err == nil && res != nil {
			c.logger.Debug("translation served",
				zap.String("provider", c.provider),
				zap.String("service", svc.Name()),
				zap.Int("attempt", attempts),
				zap.Duration("latency", latency))
			return res, nil
		}
		if err == nil {
			err = fmt.Errorf("%s: no result", svc.Name())
		}

		c.logger.Debug("translation attempt failed",
			zap.String("provider", c.provider),
			zap.String("service", svc.Name()),
			zap.Int("attempt", attempts),
			zap.Duration("latency", latency),
			zap.Error(err))
		errs = multierr.Append(errs, err)
	}

	return nil, &ProviderExhaustedError{
		Provider: c.provider,
		Attempts: attempts,
		Err:      errs,
	}
}
