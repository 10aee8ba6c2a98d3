// Command cinema is the staff console of the cinema ticket office.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-console/internal/cache"
	"github.com/iliyamo/cinema-console/internal/command"
	"github.com/iliyamo/cinema-console/internal/config"
	"github.com/iliyamo/cinema-console/internal/console"
	"github.com/iliyamo/cinema-console/internal/logger"
	"github.com/iliyamo/cinema-console/internal/service"
	"github.com/iliyamo/cinema-console/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.StringP("config", "c", "db_config.yaml", "database configuration document")
	envFile := pflag.String("env-file", ".env", "KEY=VALUE file loaded before the configuration, if present")
	logLevel := pflag.String("log-level", "", "override log.level (debug, info, warn, error)")
	logOutput := pflag.String("log-output", "", "override log.output (file path, stderr or stdout)")
	pflag.Parse()

	con := console.NewStdio()
	con.Println("Cinema ticket sales app")

	if err := config.LoadEnv(*envFile); err != nil {
		con.Errorf("%v", err)
		return 1
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		con.Errorf("%v", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logOutput != "" {
		cfg.Log.Output = *logOutput
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Output: cfg.Log.Output})
	if err != nil {
		con.Errorf("%v", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	} else if cfg.Redis.Enabled {
		log.Warn("redis unreachable, lookups go to the database", zap.String("addr", cfg.Redis.Addr))
	}

	var events command.Publisher = service.NopPublisher{}
	if cfg.Events.AMQPURL != "" {
		events = service.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, log)
	}

	mgr, err := session.NewManager(cfg, con, session.Options{
		Cache:   cache.New(rdb, cfg.Cache),
		Limiter: cache.NewLoginLimiter(rdb, cfg.LoginLimit),
		Events:  events,
		Policy:  command.NewAccessPolicy(cfg.Access),
		Log:     log,
	})
	if err != nil {
		con.Errorf("%v", err)
		return 1
	}

	log.Info("starting", zap.String("config", *configPath), zap.String("database", cfg.Database))
	if err := mgr.Run(context.Background()); err != nil {
		if errors.Is(err, session.ErrBootstrap) {
			con.Errorf("Could not connect to %s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
		} else {
			con.Errorf("%v", err)
		}
		log.Error("session manager stopped", zap.Error(err))
		return 1
	}
	con.Println("Bye!")
	return 0
}
