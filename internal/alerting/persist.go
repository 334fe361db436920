package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

// Storage keys of the persistence collaborator.
const (
	StorageKey         = "custom-alerts-storage"
	DashboardConfigKey = "dashboard-config-storage"
)

// ErrKeyNotFound is returned by a Persister when nothing was stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// Persister is the durable key-value collaborator behind the alert state.
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// persistedState is the document written under StorageKey.
type persistedState struct {
	State struct {
		Rules           []domain.AlertRule      `json:"rules"`
		TriggeredAlerts []domain.TriggeredAlert `json:"triggeredAlerts"`
	} `json:"state"`
	Version int `json:"version"`
}

func encodeState(rules []domain.AlertRule, alerts []domain.TriggeredAlert) ([]byte, error) {
	var doc persistedState
	doc.State.Rules = rules
	doc.State.TriggeredAlerts = alerts
	if doc.State.Rules == nil {
		doc.State.Rules = []domain.AlertRule{}
	}
	if doc.State.TriggeredAlerts == nil {
		doc.State.TriggeredAlerts = []domain.TriggeredAlert{}
	}
	return json.Marshal(doc)
}

func decodeState(data []byte) ([]domain.AlertRule, []domain.TriggeredAlert, error) {
	var doc persistedState
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	return doc.State.Rules, doc.State.TriggeredAlerts, nil
}

// MemoryPersister keeps documents in process memory. It backs tests and
// the "memory" persistence backend.
type MemoryPersister struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes int
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (m *MemoryPersister) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryPersister) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	m.writes++
	return nil
}

// Writes reports how many Save calls succeeded.
func (m *MemoryPersister) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
