package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/labelscan/pkg/api"
	"github.com/hazyhaar/labelscan/pkg/mcpquic"
)

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	addr := fs.String("addr", "", "HTTP listen address (overrides config)")
	fs.Parse(args)

	cfg, logger := setup(*cfgPath)
	if *addr != "" {
		cfg.Addr = *addr
	}

	scanner, reg, closeStore, err := openScanner(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	cat := scanner.Catalog()
	logger.Info("catalog loaded", "id", cat.ID, "categories", cat.Len(), "terms", cat.TermCount(),
		"recognizer", scanner.CanRecognize())

	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGHUP: hot reload the catalog manifest.
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	go func() {
		for range sighup {
			if reg.Path() == "" {
				logger.Info("SIGHUP ignored, built-in catalog")
				continue
			}
			if err := reg.Reload(); err != nil {
				logger.Error("catalog reload failed, keeping previous", "error", err)
				continue
			}
			c := reg.Current()
			logger.Info("catalog reloaded", "id", c.ID, "version", c.Version, "categories", c.Len())
		}
	}()

	if cfg.MCPAddr != "" {
		tlsCfg, err := mcpquic.ServerTLS(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			logger.Error("mcp tls", "error", err)
			os.Exit(1)
		}
		ln, err := mcpquic.Listen(cfg.MCPAddr, tlsCfg, api.NewMCPServer(scanner, logger, version), logger)
		if err != nil {
			logger.Error("mcp listen", "addr", cfg.MCPAddr, "error", err)
			os.Exit(1)
		}
		defer ln.Close()
		go func() {
			if err := ln.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("mcp server error", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(scanner, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("labelscan listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
