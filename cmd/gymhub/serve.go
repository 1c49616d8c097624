package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/transport/http/middleware"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/transport/http/server/handlers-fiber"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/usecase"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/pkg/masker"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the membership expiry job",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, closeFn, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if fields, err := masker.KeyValues(a.cfg); err == nil {
		a.log.Infow("configuration loaded", fields...)
	}

	publisher := a.publisher()
	defer func() { _ = publisher.Close() }()

	uc := usecase.New(a.log, ctx, a.repo, a.cfg, publisher)
	if n, err := uc.SeedTemplates(ctx); err != nil {
		a.log.Warnw("template seeding failed", "error", err)
	} else if n > 0 {
		a.log.Infow("default templates seeded", "count", n)
	}

	serv := newServer(a, uc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return uc.RunExpiryJob(gctx)
	})
	g.Go(func() error {
		a.log.Infow("http server listening", "addr", a.cfg.ServerAddr())
		if err := serv.Listen(a.cfg.ServerAddr()); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdown(serv, a.cfg.Server.ShutdownTimeout, a.log)
		return nil
	})

	err = g.Wait()
	uc.Wait()
	return err
}

func newServer(a *app, uc usecase.InterfaceUsecase) *fiber.App {
	serv := fiber.New(fiber.Config{
		ReadTimeout:  a.cfg.HTTP.RequestTimeout,
		WriteTimeout: a.cfg.HTTP.RequestTimeout,
		BodyLimit:    a.cfg.Server.BodyLimit,
		ErrorHandler: handlers_fiber.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(cors.New(cors.Config{
		AllowOrigins: a.cfg.Server.CORSOriginList(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	serv.Use(middleware.RequestLogger(a.log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	auth := middleware.NewAuth(a.log, a.cfg.Auth.JWTSecret, a.cfg.Auth.ProfileCacheTTL, uc)
	handlers_fiber.NewHandler(a.log, uc).Register(serv, auth.Handler())
	return serv
}

func shutdown(serv *fiber.App, timeout time.Duration, log *zap.SugaredLogger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", timeout)
	}
}
