package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/alerting"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/config"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/biogas-plant-operations/internal/http"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/logger"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init(config.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	persister, closePersister, err := service.NewPersister(ctx, config.PersistenceBackend(), db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("backend", config.PersistenceBackend()).Msg("persistence init failed")
	}
	defer closePersister()

	alerts := alerting.New(ctx, persister, logger.WithComponent("alerting"))
	svcs := service.New(db, alerts, config.SystemAlarmLimit())

	refresher := service.NewRefresher(svcs.Repos, alerts, config.KpiRefreshInterval(), logger.WithComponent("refresher"))
	go refresher.Run(ctx)

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svcs)

	go func() {
		<-ctx.Done()
		logger.Logger.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	logger.Logger.Info().Str("addr", addr).Str("backend", config.PersistenceBackend()).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		logger.Logger.Error().Err(err).Msg("server exit")
	}
}
