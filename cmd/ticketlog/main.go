// Command ticketlog consumes ticket events and appends them to a log file.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-console/internal/config"
	"github.com/iliyamo/cinema-console/internal/logger"
	"github.com/iliyamo/cinema-console/internal/queue"
)

func main() {
	envFile := pflag.String("env-file", ".env", "KEY=VALUE file loaded before reading the environment, if present")
	url := pflag.String("amqp-url", "", "broker URL (default $CINEMA_EVENTS_AMQP_URL)")
	queueName := pflag.String("queue", "tickets.events", "queue to consume")
	logPath := pflag.String("log-path", "logs/tickets.log", "file receiving one line per event")
	level := pflag.String("log-level", "info", "log level")
	pflag.Parse()

	log, err := logger.New(logger.Options{Level: *level, Output: "stderr"})
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatal("load env", zap.Error(err))
	}
	if *url == "" {
		*url = os.Getenv(config.EnvPrefix + "_EVENTS_AMQP_URL")
	}
	if *url == "" {
		log.Fatal("no broker configured", zap.String("hint", "set --amqp-url or "+config.EnvPrefix+"_EVENTS_AMQP_URL"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: *url, Queue: *queueName, LogPath: *logPath, Log: log.Named("queue")}
	log.Info("consuming", zap.String("queue", *queueName), zap.String("log_path", *logPath))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("consumer stopped", zap.Error(err))
	}
	log.Info("stopped")
}
