package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/packetd/imgserve/admin"
	"github.com/packetd/imgserve/confengine"
	"github.com/packetd/imgserve/controller"
	"github.com/packetd/imgserve/httpcore"
	"github.com/packetd/imgserve/logger"
)

const defaultWorkers = 5

var serveFlags struct {
	corpus      string
	static      string
	workers     int
	idleTimeout time.Duration
	adminAddr   string
	adminPprof  bool
	logLevel    string
	logFile     string
}

var serveCmd = &cobra.Command{
	Use:   "serve <port>",
	Short: "start the image corpus server on the given TCP port",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.corpus, "corpus", "cifar/data_batch_1.bin", "path to the fixed-stride image corpus blob")
	f.StringVar(&serveFlags.static, "static", "static", "static asset root directory")
	f.IntVar(&serveFlags.workers, "workers", defaultWorkers, "fixed worker pool size")
	f.DurationVar(&serveFlags.idleTimeout, "idle-timeout", httpcore.DefaultKeepAliveIdleTimeout, "keep-alive idle timeout, overridable for testing")
	f.StringVar(&serveFlags.adminAddr, "admin-addr", "", "address for the admin server (metrics/pprof); empty disables it")
	f.BoolVar(&serveFlags.adminPprof, "admin-pprof", false, "expose pprof routes on the admin server")
	f.StringVar(&serveFlags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&serveFlags.logFile, "log-file", "", "log file path; empty logs to stdout")
}

func runServe(cmd *cobra.Command, args []string) error {
	port, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", args[0], err)
	}

	cfg := controller.Config{
		Server: httpcore.Config{
			Addr:        fmt.Sprintf(":%d", port),
			CorpusPath:  serveFlags.corpus,
			StaticRoot:  serveFlags.static,
			Workers:     serveFlags.workers,
			IdleTimeout: serveFlags.idleTimeout,
		},
		Admin: admin.Config{
			Enabled: serveFlags.adminAddr != "",
			Address: serveFlags.adminAddr,
			Pprof:   serveFlags.adminPprof,
		},
		Logger: logger.Options{
			Stdout:   serveFlags.logFile == "",
			Level:    serveFlags.logLevel,
			Filename: serveFlags.logFile,
		},
	}

	// The file sits between flag defaults and flags the caller actually
	// passed: load it first so it overwrites defaults, then reapply only
	// the flags cobra marks Changed so an explicit flag always wins last.
	if configPath != "" {
		conf, err := confengine.LoadConfigPath(configPath)
		if err != nil {
			return fmt.Errorf("load config %q: %w", configPath, err)
		}
		if err := conf.Unpack(&cfg); err != nil {
			return fmt.Errorf("unpack config %q: %w", configPath, err)
		}
		applyChangedFlags(cmd, &cfg)
	}
	cfg.Server.Addr = fmt.Sprintf(":%d", port)

	ctrl, err := controller.New(cfg)
	if err != nil {
		return err
	}
	return ctrl.Start(context.Background())
}

// applyChangedFlags reapplies every flag the caller explicitly set on
// top of cfg, so a flag wins over a config file value even though the
// file was unpacked after the flags' defaults were first applied.
func applyChangedFlags(cmd *cobra.Command, cfg *controller.Config) {
	f := cmd.Flags()
	if f.Changed("corpus") {
		cfg.Server.CorpusPath = serveFlags.corpus
	}
	if f.Changed("static") {
		cfg.Server.StaticRoot = serveFlags.static
	}
	if f.Changed("workers") {
		cfg.Server.Workers = serveFlags.workers
	}
	if f.Changed("idle-timeout") {
		cfg.Server.IdleTimeout = serveFlags.idleTimeout
	}
	if f.Changed("admin-addr") {
		cfg.Admin.Address = serveFlags.adminAddr
		cfg.Admin.Enabled = true
	}
	if f.Changed("admin-pprof") {
		cfg.Admin.Pprof = serveFlags.adminPprof
	}
	if f.Changed("log-level") {
		cfg.Logger.Level = serveFlags.logLevel
	}
	if f.Changed("log-file") {
		cfg.Logger.Filename = serveFlags.logFile
		cfg.Logger.Stdout = false
	}
}
