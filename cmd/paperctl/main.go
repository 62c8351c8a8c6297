// Command paperctl browses and edits the paper catalog from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"paperpulse/internal/apiclient"
	"paperpulse/internal/config"
	"paperpulse/internal/logger"
	"paperpulse/internal/query"
	"paperpulse/internal/resource"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	config.LoadEnvFiles()
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return exitUsage
	}

	log, err := logger.New(cfg.LogLevel, "paperctl")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return exitUsage
	}
	defer func() { _ = log.Sync() }()

	registry := prometheus.NewRegistry()
	metrics, err := query.NewMetrics(registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metrics: %v\n", err)
		return exitAPI
	}

	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
		RPS:     cfg.RPS,
	}, log)
	cache := query.New(query.Config{TTL: cfg.CacheTTL, Metrics: metrics})

	a := &app{
		catalog:  resource.NewCatalog(client, cache),
		gatherer: registry,
		out:      os.Stdout,
		errOut:   os.Stderr,
		log:      log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	if len(args) == 1 && args[0] == "shell" {
		return a.shell(ctx, os.Stdin)
	}
	return a.run(ctx, args)
}
