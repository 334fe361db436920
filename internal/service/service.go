package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/alerting"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/metrics"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/repository"
)

type Services struct {
	Repos    *repository.Repos
	Alerts   *alerting.CustomAlerts
	Alarms   *alerting.Aggregator
	Kpis     *KpiService
	Readings *ReadingService
}

func New(db *sqlx.DB, alerts *alerting.CustomAlerts, alarmLimit int) *Services {
	repos := repository.New(db)
	return &Services{
		Repos:    repos,
		Alerts:   alerts,
		Alarms:   alerting.NewAggregator(SystemAlarmFeed{Repos: repos, Limit: alarmLimit}, alerts),
		Kpis:     NewKpiService(repos),
		Readings: NewReadingService(repos),
	}
}

// SystemAlarmFeed adapts the alarm repository to the aggregator.
type SystemAlarmFeed struct {
	Repos interface {
		SystemAlarms(ctx context.Context, limit int) ([]domain.SystemAlarmRecord, error)
	}
	Limit int
}

func (f SystemAlarmFeed) SystemAlarms(ctx context.Context) ([]domain.SystemAlarmRecord, error) {
	alarms, err := f.Repos.SystemAlarms(ctx, f.Limit)
	if err != nil {
		metrics.SystemAlarmFetchFailuresTotal.Inc()
		return nil, err
	}
	return alarms, nil
}
