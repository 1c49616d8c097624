package main

import (
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/usecase"

	"github.com/spf13/cobra"
)

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Expire lapsed memberships and send renewal reminders once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, closeFn, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		publisher := a.publisher()
		defer func() { _ = publisher.Close() }()

		uc := usecase.New(a.log, ctx, a.repo, a.cfg, publisher)
		res, err := uc.ExpireMemberships(ctx, time.Now())
		uc.Wait()
		if err != nil {
			return err
		}
		a.log.Infow("expiry pass finished", "expired", res.Expired, "reminded", res.Reminded)
		return nil
	},
}
