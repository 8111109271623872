// Package admin runs the server's optional observability surface --
// metrics, pprof and runtime log-level control -- on a listener
// entirely separate from the hand-rolled corpus protocol, so none of
// its net/http machinery ever touches the wire surface the spec fixes.
package admin

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"

	"github.com/packetd/imgserve/logger"
)

// defaultMaxConns bounds how many scrapers/operators can hit the admin
// surface at once. It is generous for a side channel that was never meant
// to take the corpus listener's traffic, just to keep a runaway poller
// from opening an unbounded number of sockets.
const defaultMaxConns = 64

// Config controls whether the admin server runs at all and where.
type Config struct {
	Enabled  bool   `config:"enabled"`
	Address  string `config:"address"`
	Pprof    bool   `config:"pprof"`
	Timeout  time.Duration
	MaxConns int `config:"max_conns"`
}

// Server wraps a plain net/http server behind a gorilla/mux router.
type Server struct {
	cfg    Config
	router *mux.Router
	http   *http.Server
}

// New builds the router and registers the standard routes. It does not
// start listening until Start is called.
func New(cfg Config) *Server {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxConns == 0 {
		cfg.MaxConns = defaultMaxConns
	}

	router := mux.NewRouter()
	s := &Server{
		cfg:    cfg,
		router: router,
		http: &http.Server{
			Addr:         cfg.Address,
			Handler:      router,
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
	}

	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/-/loglevel", s.handleLogLevel).Methods(http.MethodPost)
	if cfg.Pprof {
		s.registerPprofRoutes()
	}
	return s
}

func (s *Server) registerPprofRoutes() {
	s.router.HandleFunc("/debug/pprof/", pprof.Index)
	s.router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	s.router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	s.router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	s.router.HandleFunc("/debug/pprof/trace", pprof.Trace)
	s.router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
}

func (s *Server) handleLogLevel(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	if level == "" {
		http.Error(w, "missing level form value", http.StatusBadRequest)
		return
	}
	logger.SetLoggerLevel(level)
	w.Write([]byte("ok\n"))
}

// ListenAndServe starts the HTTP server, bounding its concurrent
// connections with netutil.LimitListener. It is a no-op if the admin
// surface is disabled. This limit applies only to the admin listener;
// the corpus listener implements its own, separate admission control
// via the fixed-size worker pool.
func (s *Server) ListenAndServe() error {
	if !s.cfg.Enabled {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	ln = netutil.LimitListener(ln, s.cfg.MaxConns)

	logger.Infof("admin server listening on %s (max %d conns)", s.cfg.Address, s.cfg.MaxConns)
	return s.http.Serve(ln)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	return s.http.Shutdown(ctx)
}
