package alerting

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

// Alarm type labels for the merged view.
const (
	SystemAlarmType = "Sistema"
	CustomAlarmType = "Personalizada"
)

// SystemAlarmSource fetches backend-originated alarms.
type SystemAlarmSource interface {
	SystemAlarms(ctx context.Context) ([]domain.SystemAlarmRecord, error)
}

// Merge normalizes system alarms and triggered alerts into one list,
// system alarms first. The two id spaces are disjoint, so nothing is
// deduplicated. The result is unsorted.
func Merge(system []domain.SystemAlarmRecord, triggered []domain.TriggeredAlert) []domain.AlarmDisplayItem {
	out := make([]domain.AlarmDisplayItem, 0, len(system)+len(triggered))
	for _, a := range system {
		out = append(out, fromSystemAlarm(a))
	}
	for _, t := range triggered {
		out = append(out, fromTriggeredAlert(t))
	}
	return out
}

func fromSystemAlarm(a domain.SystemAlarmRecord) domain.AlarmDisplayItem {
	item := domain.AlarmDisplayItem{
		ID:           strconv.FormatInt(a.ID, 10),
		Timestamp:    a.ActivatedAt,
		Description:  a.Description,
		AlarmType:    SystemAlarmType,
		Severity:     domain.SeverityInfo,
		EquipmentRef: a.EquipmentRef,
	}
	if a.AlarmType != nil && *a.AlarmType != "" {
		item.AlarmType = *a.AlarmType
	}
	if a.Severity != nil && *a.Severity != "" {
		item.Severity = *a.Severity
	}
	if a.Resolved != nil {
		item.IsResolved = *a.Resolved
	}
	return item
}

func fromTriggeredAlert(t domain.TriggeredAlert) domain.AlarmDisplayItem {
	return domain.AlarmDisplayItem{
		ID:          t.ID,
		Timestamp:   t.Timestamp,
		Description: t.Description,
		AlarmType:   CustomAlarmType,
		Severity:    t.Severity,
		IsCustom:    true,
	}
}

// TriggeredSource supplies the current triggered alert history.
type TriggeredSource interface {
	TriggeredAlerts() []domain.TriggeredAlert
}

// Aggregator builds the merged alarm view on every read.
type Aggregator struct {
	system    SystemAlarmSource
	triggered TriggeredSource
}

func NewAggregator(system SystemAlarmSource, triggered TriggeredSource) *Aggregator {
	return &Aggregator{system: system, triggered: triggered}
}

// View merges fresh system alarms with the triggered alert log. If the
// system fetch fails, the custom alerts are still returned together with
// an error wrapping domain.ErrFetchFailure.
func (a *Aggregator) View(ctx context.Context) ([]domain.AlarmDisplayItem, error) {
	triggered := a.triggered.TriggeredAlerts()
	system, err := a.system.SystemAlarms(ctx)
	if err != nil {
		return Merge(nil, triggered), fmt.Errorf("%w: %w", domain.ErrFetchFailure, err)
	}
	return Merge(system, triggered), nil
}
