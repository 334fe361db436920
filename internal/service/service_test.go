package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/alerting"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/config"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

type stubSnapshots struct {
	snap  domain.KpiSnapshot
	err   error
	calls int
}

func (s *stubSnapshots) LatestSnapshot(context.Context) (domain.KpiSnapshot, error) {
	s.calls++
	return s.snap, s.err
}

func newAlerts(t *testing.T) *alerting.CustomAlerts {
	t.Helper()
	alerts := alerting.New(context.Background(), alerting.NewMemoryPersister(), zerolog.Nop())
	alerts.AddRule(domain.AlertRule{ID: "fos", Parameter: domain.ParamFosTac, Condition: domain.GreaterThan, Threshold: 0.4, Severity: domain.SeverityCritical})
	return alerts
}

func TestRefresher_RefreshOnceEvaluatesSnapshot(t *testing.T) {
	alerts := newAlerts(t)
	src := &stubSnapshots{snap: domain.KpiSnapshot{domain.ParamFosTac: 0.45, domain.ParamCH4: 53}}
	r := NewRefresher(src, alerts, time.Minute, zerolog.Nop())

	fired, err := r.RefreshOnce(context.Background())
	if err != nil {
		t.Fatalf("RefreshOnce: %v", err)
	}
	if len(fired) != 1 || fired[0].RuleID != "fos" {
		t.Fatalf("expected fos alert, got %+v", fired)
	}
	if len(alerts.TriggeredAlerts()) != 1 {
		t.Fatalf("expected alert recorded in log")
	}

	// Unchanged snapshot on the next cycle fires again.
	if _, err := r.RefreshOnce(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(alerts.TriggeredAlerts()) != 2 {
		t.Errorf("expected re-trigger on unchanged snapshot, log has %d", len(alerts.TriggeredAlerts()))
	}
}

func TestRefresher_FetchFailureEvaluatesNothing(t *testing.T) {
	alerts := newAlerts(t)
	cause := errors.New("db down")
	r := NewRefresher(&stubSnapshots{err: cause}, alerts, time.Minute, zerolog.Nop())

	_, err := r.RefreshOnce(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if len(alerts.TriggeredAlerts()) != 0 {
		t.Error("no alerts expected after failed fetch")
	}
}

func TestRefresher_RunStopsOnCancel(t *testing.T) {
	src := &stubSnapshots{snap: domain.KpiSnapshot{}}
	r := NewRefresher(src, newAlerts(t), 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if src.calls < 1 {
		t.Errorf("expected at least one refresh, got %d", src.calls)
	}
}

type stubAlarmRepo struct {
	limit int
	err   error
}

func (s *stubAlarmRepo) SystemAlarms(_ context.Context, limit int) ([]domain.SystemAlarmRecord, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []domain.SystemAlarmRecord{{ID: 1, Description: "Nivel bajo"}}, nil
}

func TestSystemAlarmFeed(t *testing.T) {
	repo := &stubAlarmRepo{}
	feed := SystemAlarmFeed{Repos: repo, Limit: 25}

	alarms, err := feed.SystemAlarms(context.Background())
	if err != nil || len(alarms) != 1 {
		t.Fatalf("unexpected result %v, %v", alarms, err)
	}
	if repo.limit != 25 {
		t.Errorf("expected limit 25, got %d", repo.limit)
	}

	repo.err = errors.New("timeout")
	if _, err := feed.SystemAlarms(context.Background()); err == nil {
		t.Error("expected fetch error to propagate")
	}
}

func TestNewPersister(t *testing.T) {
	ctx := context.Background()

	p, closeFn, err := NewPersister(ctx, config.BackendMemory, nil)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	closeFn()
	if _, ok := p.(*alerting.MemoryPersister); !ok {
		t.Errorf("expected MemoryPersister, got %T", p)
	}

	viper.Set("SQLITE_PATH", filepath.Join(t.TempDir(), "alerts.db"))
	defer viper.Set("SQLITE_PATH", nil)
	p, closeFn, err = NewPersister(ctx, config.BackendSQLite, nil)
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer closeFn()
	if err := p.Save(ctx, alerting.StorageKey, []byte(`{}`)); err != nil {
		t.Fatalf("sqlite save: %v", err)
	}

	if _, _, err := NewPersister(ctx, "localStorage", nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
