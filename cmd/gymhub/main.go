// Package main is the gymhub command: HTTP API, migrations, notifier worker and expiry job.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/config"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/notify"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/repository"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:           "gymhub",
	Short:         "Gym management backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "config/.env", "dotenv file read before the process environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(notifierCmd)
	rootCmd.AddCommand(expireCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// app holds what every command needs.
type app struct {
	cfg  *config.Config
	log  *zap.SugaredLogger
	repo repository.Repository
}

func loadConfig() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// bootstrap loads configuration and opens the repository. The caller must call close.
func bootstrap(ctx context.Context) (*app, func(), error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	repo, err := repository.New(ctx, "postgres", log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return nil, nil, err
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return nil, nil, err
	}

	closeFn := func() {
		_ = repo.OnStop(context.Background())
		_ = log.Sync()
	}
	return &app{cfg: cfg, log: log, repo: repo}, closeFn, nil
}

// publisher returns the Kafka outbox publisher, or a logging one when no brokers are configured.
func (a *app) publisher() notify.Publisher {
	brokers := a.cfg.Kafka.BrokerList()
	if len(brokers) == 0 {
		a.log.Warnw("kafka brokers not configured, notifications are only logged")
		return notify.NewLogPublisher(a.log)
	}
	return notify.NewKafkaPublisher(a.log, brokers, a.cfg.Kafka.NotificationsTopic)
}
