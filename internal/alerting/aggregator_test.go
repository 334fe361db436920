package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestMerge_NormalizesBothSources(t *testing.T) {
	crit := domain.SeverityCritical
	resolved := true
	activated := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	system := []domain.SystemAlarmRecord{
		{ID: 7, ActivatedAt: activated, Description: "Presión alta en digestor", AlarmType: strPtr("Presión"), Severity: &crit, Resolved: &resolved, EquipmentRef: strPtr("DIG-01")},
		{ID: 8, ActivatedAt: activated, Description: "Sin tipo"},
	}
	triggered := []domain.TriggeredAlert{makeAlert("t1"), makeAlert("t2")}

	items := Merge(system, triggered)
	if len(items) != len(system)+len(triggered) {
		t.Fatalf("expected %d items, got %d", len(system)+len(triggered), len(items))
	}

	first := items[0]
	if first.ID != "7" || first.AlarmType != "Presión" || first.Severity != domain.SeverityCritical || !first.IsResolved || first.IsCustom {
		t.Errorf("unexpected system item: %+v", first)
	}
	if first.EquipmentRef == nil || *first.EquipmentRef != "DIG-01" {
		t.Errorf("expected equipment ref DIG-01, got %v", first.EquipmentRef)
	}

	second := items[1]
	if second.AlarmType != SystemAlarmType || second.Severity != domain.SeverityInfo || second.IsResolved {
		t.Errorf("expected defaults for nullable fields, got %+v", second)
	}

	for i, item := range items[2:] {
		if !item.IsCustom || item.IsResolved || item.AlarmType != CustomAlarmType {
			t.Errorf("custom item %d not normalized: %+v", i, item)
		}
		if item.ID != triggered[i].ID || item.Severity != triggered[i].Severity {
			t.Errorf("custom item %d lost identity: %+v", i, item)
		}
	}
}

func TestMerge_PartitionByIsCustom(t *testing.T) {
	system := make([]domain.SystemAlarmRecord, 5)
	for i := range system {
		system[i] = domain.SystemAlarmRecord{ID: int64(i + 1)}
	}
	triggered := []domain.TriggeredAlert{makeAlert("a"), makeAlert("b"), makeAlert("c")}

	custom := 0
	for _, item := range Merge(system, triggered) {
		if item.IsCustom {
			custom++
		}
	}
	if custom != 3 {
		t.Errorf("expected 3 custom items, got %d", custom)
	}
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("expected empty merge, got %d items", len(got))
	}
}

type stubAlarmSource struct {
	alarms []domain.SystemAlarmRecord
	err    error
}

func (s stubAlarmSource) SystemAlarms(context.Context) ([]domain.SystemAlarmRecord, error) {
	return s.alarms, s.err
}

type stubTriggered []domain.TriggeredAlert

func (s stubTriggered) TriggeredAlerts() []domain.TriggeredAlert { return s }

func TestAggregatorView(t *testing.T) {
	triggered := stubTriggered{makeAlert("t1")}
	src := stubAlarmSource{alarms: []domain.SystemAlarmRecord{{ID: 1}, {ID: 2}}}

	items, err := NewAggregator(src, triggered).View(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
}

func TestAggregatorView_FetchFailureKeepsCustomAlerts(t *testing.T) {
	triggered := stubTriggered{makeAlert("t1"), makeAlert("t2")}
	cause := errors.New("connection refused")
	src := stubAlarmSource{err: cause}

	items, err := NewAggregator(src, triggered).View(context.Background())
	if !errors.Is(err, domain.ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected underlying cause to be wrapped, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected custom alerts to survive, got %d items", len(items))
	}
	for _, item := range items {
		if !item.IsCustom {
			t.Errorf("expected only custom items, got %+v", item)
		}
	}
}
