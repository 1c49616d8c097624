package main

import (
	"errors"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/notify"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/usecase"

	"github.com/spf13/cobra"
)

var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Deliver queued SMS and email notifications from Kafka",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, closeFn, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		brokers := a.cfg.Kafka.BrokerList()
		if len(brokers) == 0 {
			return errors.New("kafka.brokers is required for the notifier")
		}
		if a.cfg.Notifier.GatewayURL == "" {
			return errors.New("notifier.gateway_url is required")
		}

		reader := notify.NewKafkaReader(brokers, a.cfg.Kafka.NotificationsTopic, a.cfg.Kafka.GroupID)
		defer func() { _ = reader.Close() }()

		uc := usecase.New(a.log, ctx, a.repo, a.cfg, notify.NewLogPublisher(a.log))
		defer uc.Wait()

		sender := notify.NewHTTPSender(a.cfg.Notifier.GatewayURL, a.cfg.Notifier.GatewayToken, a.cfg.Notifier.Timeout)
		return notify.NewWorker(a.log, reader, sender, uc.UpdateNotificationStatus).Run(ctx)
	},
}
