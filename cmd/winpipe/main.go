// Command winpipe bridges a display-protocol client over TCP to a
// separate presenter process.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/winpipe-go/winpipe/internal/config"
	"github.com/winpipe-go/winpipe/internal/connserver"
	"github.com/winpipe-go/winpipe/internal/introspect"
	"github.com/winpipe-go/winpipe/internal/registry"
)

var version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "server":
		serve(os.Args[2:])
	case "version":
		fmt.Printf("winpipe v%s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func serve(args []string) {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	port := fs.Uint("port", 9999, "port to listen on")
	debug := fs.Bool("debug", false, "enable verbose logging")
	configPath := fs.String("config", "", "path to a winpipe.yaml config file")
	presenterAddr := fs.String("presenter", "", "presenter address (e.g. 127.0.0.1:9998); empty disables frame forwarding")
	introspectAddr := fs.String("introspect", "", "introspection HTTP address (e.g. 127.0.0.1:9997); empty disables introspection")
	_ = fs.Parse(args)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", *configPath, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	portSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "port" {
			portSet = true
		}
	})
	if portSet || *configPath == "" {
		cfg.Server.Address = fmt.Sprintf("0.0.0.0:%d", *port)
	}
	if *presenterAddr != "" {
		cfg.Presenter.Enabled = true
		cfg.Presenter.Address = *presenterAddr
	}
	if *introspectAddr != "" {
		cfg.Introspect.Enabled = true
		cfg.Introspect.Address = *introspectAddr
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	logger, closer := setupLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if closer != nil {
		defer closer.Close()
	}
	logger.Info("winpipe starting", "version", version)

	globals := registry.New(cfg.Globals.VersionOverrides)

	presenterAddrForConn := ""
	if cfg.Presenter.Enabled {
		presenterAddrForConn = cfg.Presenter.Address
	}
	srv := connserver.New(cfg.Server.Address, presenterAddrForConn, globals, logger)

	var introspectSrv *introspect.Server
	if cfg.Introspect.Enabled {
		introspectSrv = introspect.New(cfg.Introspect, logger)
		srv.WithObservers(introspectSrv.Metrics, introspectSrv.Tracer)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx)
	}()

	if introspectSrv != nil {
		go func() {
			if err := introspectSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("introspect server stopped", "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("winpipe ready", "address", cfg.Server.Address)

	var serveErr error
	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			serveErr = err
		}
	}

	cancel()
	if introspectSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := introspectSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("introspect shutdown error", "error", err)
		}
	}

	logger.Info("winpipe stopped")
	if serveErr != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format, output string) (*slog.Logger, io.Closer) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	writer, closer := resolveLogOutput(output)
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), closer
}

func resolveLogOutput(output string) (io.Writer, io.Closer) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return os.Stdout, nil
		}
		return f, f
	}
}

func printUsage() {
	fmt.Println(`winpipe - display-protocol-over-TCP bridge

Usage:
  winpipe <command> [options]

Commands:
  server   Start the server
  version  Show version
  help     Show this help

Server options:
  --port N          port to listen on (default 9999)
  --debug           enable verbose logging
  --config PATH     path to a winpipe.yaml config file
  --presenter ADDR   presenter address; enables pixel forwarding
  --introspect ADDR  introspection HTTP address; enables health/metrics/trace

Signals:
  SIGINT/SIGTERM   Graceful shutdown

Examples:
  winpipe server
  winpipe server --port 9999 --presenter 127.0.0.1:9998
  winpipe version`)
}
