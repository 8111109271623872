// Package controller wires together the corpus server, the optional
// admin server and process lifecycle (signal handling, panic recovery)
// into one unit the CLI layer can start and stop.
package controller

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/packetd/imgserve/admin"
	"github.com/packetd/imgserve/httpcore"
	"github.com/packetd/imgserve/internal/sigs"
	"github.com/packetd/imgserve/logger"
)

// Config bundles the corpus server and admin server configuration
// needed to start the whole process.
type Config struct {
	Server httpcore.Config
	Admin  admin.Config
	Logger logger.Options
}

// Controller owns the corpus server and the admin server and
// coordinates their startup and shutdown.
type Controller struct {
	cfg    Config
	server *httpcore.Server
	admin  *admin.Server

	cancel context.CancelFunc
}

// New builds a Controller, preloading the corpus blob and constructing
// the worker pool. It does not bind any listener yet.
func New(cfg Config) (*Controller, error) {
	logger.SetOptions(cfg.Logger)

	server, err := httpcore.New(cfg.Server)
	if err != nil {
		return nil, err
	}

	return &Controller{
		cfg:    cfg,
		server: server,
		admin:  admin.New(cfg.Admin),
	}, nil
}

// Start runs the corpus server and, if enabled, the admin server, and
// blocks until a termination signal arrives or ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	ignoreNoisySignals()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	errCh := make(chan error, 2)
	go func() {
		errCh <- c.server.Run(ctx)
	}()
	go func() {
		if err := c.admin.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	term := sigs.Terminate()
	select {
	case <-term:
		logger.Infof("received termination signal, shutting down")
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			cancel()
			return err
		}
	}

	return c.Stop(context.Background())
}

// Stop tears down the admin server and drains the corpus server's
// worker pool.
func (c *Controller) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	var result error
	if err := c.admin.Shutdown(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	c.server.Stop()
	return result
}
