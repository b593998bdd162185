package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-vertx/internal/config"
	"go-vertx/internal/logging"
	"go-vertx/server"
	"go-vertx/vertx"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Loads vertx.yaml, builds the dispatch tree and serves it until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		cfgPath, _ := cmd.Flags().GetString("config")
		if dir == "" {
			dir = getProjectRoot()
		}
		if cfgPath == "" {
			cfgPath = filepath.Join(dir, config.FileName)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, dir, cfgPath)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// app is everything runServe wires together, split out so tests can drive
// the router without binding a port.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *server.Server
	handler http.Handler
}

func newApp(dir, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath, logging.New(slog.LevelInfo))
	if err != nil {
		return nil, err
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level)

	tree, err := buildTree(cfg, dir, logger)
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}

	srv, err := server.NewServer(tree,
		server.WithTimeout(time.Duration(cfg.RequestTimeoutMs)*time.Millisecond),
		server.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, server: srv, handler: newRouter(srv)}, nil
}

// rebuild re-reads the config file and builds a fresh tree. Listener
// settings such as addr only take effect on restart.
func (a *app) rebuild(dir, cfgPath string) server.BuildFunc {
	return func() (*vertx.Node, error) {
		cfg, err := config.Load(cfgPath, a.logger)
		if err != nil {
			return nil, err
		}
		return buildTree(cfg, dir, a.logger)
	}
}

func runServe(ctx context.Context, dir, cfgPath string) error {
	a, err := newApp(dir, cfgPath)
	if err != nil {
		return err
	}
	logger := a.logger

	if a.cfg.HotReload {
		if err := a.server.EnableHotReload(ctx, cfgPath, a.rebuild(dir, cfgPath)); err != nil {
			logger.Warn("hot reload disabled", "error", err)
		}
	}

	httpSrv := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("vertx listening",
			"addr", a.cfg.Addr,
			"timeout_ms", a.cfg.RequestTimeoutMs,
			"hot_reload", a.cfg.HotReload,
			"nodes", a.server.Health().Nodes,
		)
		for _, rule := range a.cfg.Static {
			logger.Info("static rule", "prefix", rule.Prefix, "dir", filepath.Join(dir, rule.Dir))
		}
		serverErrors <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)

	case <-ctx.Done():
		logger.Info("shutdown signal received, draining requests")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return httpSrv.Close()
		}
		logger.Info("server stopped gracefully")
		return nil
	}
}
