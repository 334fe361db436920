package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/metrics"
)

// ReadingLister reads stored KPI readings.
type ReadingLister interface {
	ReadingsSince(ctx context.Context, since time.Time) ([]domain.KpiReading, error)
}

type readingWriter interface {
	InsertReading(ctx context.Context, rd *domain.KpiReading) error
}

// KpiService builds the KPI cards of the dashboard.
type KpiService struct {
	readings ReadingLister
	now      func() time.Time
}

func NewKpiService(readings ReadingLister) *KpiService {
	return &KpiService{readings: readings}
}

// KpiSummary describes one KPI over a recent window.
type KpiSummary struct {
	Parameter domain.Parameter `json:"parameter"`
	Label     string           `json:"label"`
	Count     int              `json:"count"`
	Latest    float64          `json:"latest"`
	LatestAt  time.Time        `json:"latest_at"`
	Average   float64          `json:"average"`
	Min       float64          `json:"min"`
	Max       float64          `json:"max"`
}

// Summary aggregates the readings of the last window per known KPI.
// KPIs without readings in the window are omitted.
func (s *KpiService) Summary(ctx context.Context, window time.Duration) ([]KpiSummary, error) {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	readings, err := s.readings.ReadingsSince(ctx, now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("failed to get readings: %w", err)
	}

	points := make(map[domain.Parameter][]aggregator.Point)
	for _, rd := range readings {
		if math.IsNaN(rd.Value) {
			continue
		}
		points[rd.Parameter] = append(points[rd.Parameter], aggregator.Point{Value: rd.Value, Timestamp: rd.MeasuredAt})
	}

	var out []KpiSummary
	for _, p := range domain.KnownParameters() {
		pts := points[p]
		if len(pts) == 0 {
			continue
		}
		sum := KpiSummary{
			Parameter: p,
			Label:     p.Label(),
			Count:     len(pts),
			Average:   aggregator.Average(pts),
			Min:       pts[0].Value,
			Max:       pts[0].Value,
		}
		for _, pt := range pts {
			sum.Min = math.Min(sum.Min, pt.Value)
			sum.Max = math.Max(sum.Max, pt.Value)
			if !pt.Timestamp.Before(sum.LatestAt) {
				sum.Latest = pt.Value
				sum.LatestAt = pt.Timestamp
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

// ReadingService stores KPI readings arriving from plant sensors.
type ReadingService struct {
	repos readingWriter
}

func NewReadingService(repos readingWriter) *ReadingService {
	return &ReadingService{repos: repos}
}

// ReadingMessage is the MQTT payload published by sensors and the simulator.
type ReadingMessage struct {
	Parameter domain.Parameter `json:"parameter"`
	Value     float64          `json:"value"`
	SensorID  string           `json:"sensor_id"`
	Timestamp time.Time        `json:"timestamp"`
}

func (s *ReadingService) FromMQTT(ctx context.Context, topic string, payload []byte) error {
	var msg ReadingMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		metrics.IngestedReadingsTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("decode reading from %s: %w", topic, err)
	}
	if !msg.Parameter.Known() {
		metrics.IngestedReadingsTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("unknown parameter %q on %s", msg.Parameter, topic)
	}
	if math.IsNaN(msg.Value) || math.IsInf(msg.Value, 0) {
		metrics.IngestedReadingsTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("non-finite value for %s on %s", msg.Parameter, topic)
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	rd := &domain.KpiReading{
		Parameter:  msg.Parameter,
		Value:      msg.Value,
		SensorID:   msg.SensorID,
		MeasuredAt: msg.Timestamp,
	}
	if err := s.repos.InsertReading(ctx, rd); err != nil {
		return err
	}
	metrics.IngestedReadingsTotal.WithLabelValues("stored").Inc()
	return nil
}
