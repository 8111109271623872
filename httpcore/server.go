package httpcore

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/imgserve/logger"
)

// acceptSlowThreshold is the point past which a single accept() wait is
// logged; it does not change backpressure, only reports it.
const acceptSlowThreshold = 50 * time.Millisecond

// Config describes everything needed to stand up the corpus server.
type Config struct {
	Addr        string        `config:"addr"`
	CorpusPath  string        `config:"corpus"`
	StaticRoot  string        `config:"static"`
	Workers     int           `config:"workers"`
	IdleTimeout time.Duration `config:"idle_timeout"`
}

// Server owns the listener, the worker pool and the memory-mapped
// corpus blob for the lifetime of the process.
type Server struct {
	cfg      Config
	blob     *BlobStore
	resolver *Resolver
	pool     *Pool
	listener net.Listener
}

// New preloads the corpus blob and builds the resolver and worker
// pool, but does not bind a listener yet -- that happens in Run, so a
// bind failure can be reported without tearing down an already-mapped
// blob unnecessarily.
func New(cfg Config) (*Server, error) {
	blob, err := OpenBlobStore(cfg.CorpusPath)
	if err != nil {
		return nil, errors.Wrap(err, "preload corpus blob")
	}
	logger.Infof("corpus blob loaded from %s: %s", cfg.CorpusPath, blob.describe())

	if cfg.IdleTimeout > 0 {
		KeepAliveIdleTimeout = cfg.IdleTimeout
	}

	resolver := &Resolver{Blob: blob, StaticRoot: cfg.StaticRoot}
	pool := NewPool(cfg.Workers, resolver)

	return &Server{
		cfg:      cfg,
		blob:     blob,
		resolver: resolver,
		pool:     pool,
	}, nil
}

// Run binds the listener and accepts connections until ctx is
// cancelled. The accept loop is a simple linear scan: every accepted
// connection is handed to the pool, which blocks internally until a
// worker slot is free, so backpressure comes from the listen backlog
// filling up rather than from any queue this server maintains.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	s.listener = ln
	logger.Infof("server: waiting for connections on http://%s/", ln.Addr().String())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		waitStart := time.Now()
		conn, err := ln.Accept()
		if waited := time.Since(waitStart); waited > acceptSlowThreshold {
			logger.Debugf("accept() waited %s for a connection", waited)
		}
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			logger.Warnf("accept error: %v", err)
			continue
		}
		s.pool.Dispatch(conn)
	}
}

// Stop drains the worker pool and releases the mapped corpus blob. The
// listener itself is closed by Run's context-cancellation goroutine.
func (s *Server) Stop() {
	s.pool.Stop()
	if err := s.blob.Close(); err != nil {
		logger.Warnf("failed unmapping corpus blob: %v", err)
	}
}
