package main

import (
	"context"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/config"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/database"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/logger"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/repository"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init(config.LogLevel())
	lg := logger.WithComponent("ingestor")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		lg.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	readings := service.NewReadingService(repository.New(db))

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		lg.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := readings.FromMQTT(ctx, msg.Topic(), msg.Payload()); err != nil {
			lg.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}

	topic := config.MQTTTopic()
	if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
		lg.Fatal().Err(token.Error()).Str("topic", topic).Msg("subscribe failed")
	}

	lg.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
	lg.Info().Msg("ingestor stopped")
}
