package main

import (
	"encoding/json"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/config"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/service"
)

// Typical digester ranges; spread occasionally pushes a value past
// common alert thresholds.
var ranges = map[domain.Parameter]struct{ base, spread float64 }{
	domain.ParamFosTac: {0.30, 0.15},
	domain.ParamCH4:    {52, 8},
	domain.ParamCO2:    {42, 6},
	domain.ParamH2S:    {150, 120},
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	topic := config.MQTTTopic()
	for i := 0; i < 100; i++ {
		for _, p := range domain.KnownParameters() {
			r := ranges[p]
			msg := service.ReadingMessage{
				Parameter: p,
				Value:     r.base + (rand.Float64()*2-1)*r.spread,
				SensorID:  "digester-01",
				Timestamp: time.Now(),
			}
			payload, _ := json.Marshal(msg)
			token := client.Publish(topic, 0, false, payload)
			token.Wait()
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
