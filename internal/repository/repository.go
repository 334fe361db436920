package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

// Repos is the read side of the plant database plus the reading insert
// used by the ingestor.
type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) InsertReading(ctx context.Context, rd *domain.KpiReading) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO kpi_readings(parameter, value, sensor_id, measured_at) VALUES ($1,$2,$3,$4)`,
		rd.Parameter, rd.Value, rd.SensorID, rd.MeasuredAt)
	if err != nil {
		return fmt.Errorf("insert kpi reading: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent value of every KPI that has at
// least one reading. KPIs never measured are absent from the snapshot.
func (r *Repos) LatestSnapshot(ctx context.Context) (domain.KpiSnapshot, error) {
	var rows []struct {
		Parameter domain.Parameter `db:"parameter"`
		Value     float64          `db:"value"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT DISTINCT ON (parameter) parameter, value
		FROM kpi_readings
		ORDER BY parameter, measured_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query latest kpis: %w", err)
	}
	snap := make(domain.KpiSnapshot, len(rows))
	for _, row := range rows {
		snap[row.Parameter] = row.Value
	}
	return snap, nil
}

// ReadingsSince lists readings measured after since, oldest first.
func (r *Repos) ReadingsSince(ctx context.Context, since time.Time) ([]domain.KpiReading, error) {
	var out []domain.KpiReading
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, parameter, value, sensor_id, measured_at
		FROM kpi_readings
		WHERE measured_at > $1
		ORDER BY measured_at`, since)
	if err != nil {
		return nil, fmt.Errorf("query kpi readings: %w", err)
	}
	return out, nil
}

// SystemAlarms lists the most recent backend alarms with their type label.
func (r *Repos) SystemAlarms(ctx context.Context, limit int) ([]domain.SystemAlarmRecord, error) {
	var out []domain.SystemAlarmRecord
	err := r.db.SelectContext(ctx, &out, `
		SELECT a.id,
		       a.fecha_hora_activacion,
		       a.descripcion,
		       t.nombre AS tipo_alarma,
		       a.severidad::text AS severidad,
		       a.resuelta,
		       a.equipo_id::text AS equipo_id
		FROM alarmas a
		LEFT JOIN tipos_alarma t ON t.id = a.tipo_alarma_id
		ORDER BY a.fecha_hora_activacion DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query system alarms: %w", err)
	}
	return out, nil
}
