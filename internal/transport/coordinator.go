package transport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fitnessmcp/toolserver/internal/config"
	"github.com/fitnessmcp/toolserver/internal/notify"
	"github.com/fitnessmcp/toolserver/internal/telemetry"
	"github.com/fitnessmcp/toolserver/internal/toolregistry"
)

// ErrNoTransportsEnabled is returned by NewCoordinator when a Config enables
// none of stdio, HTTP, or SSE, per spec §4.9's startup invariant.
var ErrNoTransportsEnabled = errors.New("transport: no transports enabled")

// Coordinator owns the shared process-wide resources (registry, Context,
// notification bus) and starts whichever subset of transports the
// configuration enables. It requires at least one enabled transport.
type Coordinator struct {
	cfg      config.TransportConfig
	registry *toolregistry.Registry
	rc       *toolregistry.Context
	bus      *notify.Bus
	logger   telemetry.Logger

	stdio *Stdio
	http  *HTTP
}

// NewCoordinator validates cfg and wires up the enabled transports. It
// returns ErrNoTransportsEnabled if cfg enables none of stdio/http/sse.
func NewCoordinator(cfg config.TransportConfig, registry *toolregistry.Registry, rc *toolregistry.Context, bus *notify.Bus, logger telemetry.Logger) (*Coordinator, error) {
	if !cfg.Stdio && !cfg.HTTP && !cfg.SSE {
		return nil, ErrNoTransportsEnabled
	}

	c := &Coordinator{cfg: cfg, registry: registry, rc: rc, bus: bus, logger: logger}

	if cfg.Stdio {
		c.stdio = NewStdio(os.Stdin, os.Stdout, registry, rc, logger)
	}
	if cfg.HTTP {
		var sse *SSE
		if cfg.SSE {
			sse = NewSSE(bus, logger)
		}
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		c.http = NewHTTP(addr, registry, rc, logger, bus, sse)
	} else if cfg.SSE {
		// SSE with no HTTP transport has nowhere to mount; this is a
		// configuration error caught here rather than silently dropped.
		return nil, fmt.Errorf("transport: sse requires http to be enabled")
	}

	return c, nil
}

// Run starts every enabled transport and blocks until ctx is cancelled or
// one of them returns a non-context error, in which case the others are
// cancelled too.
func (c *Coordinator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if c.stdio != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.stdio.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("stdio transport: %w", err)
				cancel()
			}
		}()
	}
	if c.http != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.http.Run(ctx); err != nil {
				errCh <- fmt.Errorf("http transport: %w", err)
				cancel()
			}
		}()
	}

	wg.Wait()
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
