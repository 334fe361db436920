package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/metrics"
)

type SnapshotSource interface {
	LatestSnapshot(ctx context.Context) (domain.KpiSnapshot, error)
}

type SnapshotEvaluator interface {
	Evaluate(snapshot domain.KpiSnapshot) []domain.TriggeredAlert
}

// Refresher pulls one KPI snapshot per tick and evaluates the custom
// rules against it. Cycles run on a single goroutine, so two refreshes
// never overlap; ticks that arrive while a fetch is in flight coalesce.
type Refresher struct {
	source    SnapshotSource
	evaluator SnapshotEvaluator
	interval  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewRefresher(source SnapshotSource, evaluator SnapshotEvaluator, interval time.Duration, logger zerolog.Logger) *Refresher {
	timeout := interval
	if timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	return &Refresher{
		source:    source,
		evaluator: evaluator,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Run refreshes immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("kpi refresher started")
	for {
		if _, err := r.RefreshOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error().Err(err).Msg("kpi refresh failed")
		}
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("kpi refresher stopped")
			return
		case <-ticker.C:
		}
	}
}

// RefreshOnce fetches the latest snapshot and evaluates it. A failed fetch
// evaluates nothing.
func (r *Refresher) RefreshOnce(ctx context.Context) ([]domain.TriggeredAlert, error) {
	start := time.Now()
	defer func() { metrics.KpiRefreshDuration.Observe(time.Since(start).Seconds()) }()

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snapshot, err := r.source.LatestSnapshot(fetchCtx)
	if err != nil {
		metrics.KpiRefreshTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("fetch kpi snapshot: %w", err)
	}
	metrics.KpiRefreshTotal.WithLabelValues("success").Inc()

	triggered := r.evaluator.Evaluate(snapshot)
	r.logger.Debug().
		Int("kpis", len(snapshot)).
		Int("triggered", len(triggered)).
		Msg("kpi snapshot evaluated")
	return triggered, nil
}
