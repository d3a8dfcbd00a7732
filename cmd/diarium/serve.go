package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/quietloop/diarium/internal/api"
	"github.com/quietloop/diarium/internal/ollama"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over MCP (stdio)",
	Long: `Serve the journal tools over the Model Context Protocol on stdio.

When server.http_port is configured, a read-only HTTP API is also exposed
on localhost. Logs go to stderr so stdout stays clean for the MCP
transport.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServe() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// stdout carries the MCP transport; everything else goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(a.cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prompt generation degrades to standing prompts without the model, so
	// an unreachable Ollama is a warning, not a startup failure.
	if err := ollama.EnsureReady(ctx, a.model, a.cfg.Ollama.Model, os.Stderr); err != nil {
		slog.Warn("Ollama not ready, falling back to standing prompts", "error", err)
	}

	mcpSrv := api.NewMCPServer(api.MCPDeps{Journal: a.svc})

	var httpSrv *http.Server
	errCh := make(chan error, 1)
	if a.cfg.Server.HTTPPort != 0 {
		addr := fmt.Sprintf("127.0.0.1:%d", a.cfg.Server.HTTPPort)
		httpSrv = &http.Server{
			Addr:    addr,
			Handler: api.NewAppHandler(api.AppDeps{Journal: a.svc}),
		}
		go func() {
			slog.Info("HTTP API listening", "addr", addr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()
	}

	stdioSrv := server.NewStdioServer(mcpSrv)
	stdioDone := make(chan error, 1)
	go func() {
		stdioDone <- stdioSrv.Listen(ctx, os.Stdin, os.Stdout)
	}()
	slog.Info("MCP server started (stdio transport)", "vault", a.cfg.Vault.Dir)

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	case err := <-stdioDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server error: %w", err)
		}
	}

	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
	return nil
}
