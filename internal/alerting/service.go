package alerting

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/metrics"
)

const saveTimeout = 5 * time.Second

// CustomAlerts owns the rule store and the triggered alert log for the
// life of the process. Every mutation serializes the full state and hands
// it to the Persister; a failed write is logged and the in-memory state
// stays authoritative.
type CustomAlerts struct {
	mu        sync.RWMutex
	rules     *RuleStore
	log       *TriggeredAlertLog
	evaluator Evaluator
	persister Persister
	logger    zerolog.Logger
}

type Option func(*CustomAlerts)

// WithEvaluator replaces the default clock and id generator.
func WithEvaluator(e Evaluator) Option {
	return func(c *CustomAlerts) { c.evaluator = e }
}

// New restores the persisted state, or starts empty when nothing usable
// is stored.
func New(ctx context.Context, persister Persister, logger zerolog.Logger, opts ...Option) *CustomAlerts {
	c := &CustomAlerts{persister: persister, logger: logger}
	for _, opt := range opts {
		opt(c)
	}

	rules, alerts := c.restore(ctx)
	c.rules = NewRuleStore(rules, c.persist)
	c.log = NewTriggeredAlertLog(alerts, LogCapacity, c.persist)
	metrics.RulesConfigured.Set(float64(c.rules.Len()))

	c.logger.Info().
		Int("rules", c.rules.Len()).
		Int("triggered_alerts", c.log.Len()).
		Msg("custom alerts restored")
	return c
}

func (c *CustomAlerts) restore(ctx context.Context) ([]domain.AlertRule, []domain.TriggeredAlert) {
	data, err := c.persister.Load(ctx, StorageKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("load").Inc()
		c.logger.Error().Err(err).Str("key", StorageKey).Msg("failed to load alert state, starting empty")
		return nil, nil
	}
	rules, alerts, err := decodeState(data)
	if err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("decode").Inc()
		c.logger.Warn().Err(err).Str("key", StorageKey).Msg("stored alert state is corrupt, starting empty")
		return nil, nil
	}
	return rules, alerts
}

// persist runs as the change hook of both stores; the caller holds c.mu.
func (c *CustomAlerts) persist() {
	data, err := encodeState(c.rules.rules, c.log.entries)
	if err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("encode").Inc()
		c.logger.Error().Err(err).Msg("failed to encode alert state")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := c.persister.Save(ctx, StorageKey, data); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("save").Inc()
		c.logger.Error().Err(err).Str("key", StorageKey).Msg("failed to persist alert state")
	}
}

// AddRule stores a pre-validated rule.
func (c *CustomAlerts) AddRule(rule domain.AlertRule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules.Add(rule)
	metrics.RulesConfigured.Set(float64(c.rules.Len()))
	c.logger.Info().
		Str("rule_id", rule.ID).
		Str("parameter", string(rule.Parameter)).
		Str("severity", string(rule.Severity)).
		Msg("rule added")
}

// RemoveRule deletes a rule; unknown ids are a no-op.
func (c *CustomAlerts) RemoveRule(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.rules.Len()
	c.rules.Remove(id)
	if c.rules.Len() != before {
		metrics.RulesConfigured.Set(float64(c.rules.Len()))
		c.logger.Info().Str("rule_id", id).Msg("rule removed")
	}
}

func (c *CustomAlerts) ListRules() []domain.AlertRule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rules.List()
}

// TriggeredAlerts returns the alert history, newest first.
func (c *CustomAlerts) TriggeredAlerts() []domain.TriggeredAlert {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.List()
}

// Evaluate runs the current rules against a fresh snapshot and records
// whatever fires. Call it once per KPI refresh.
func (c *CustomAlerts) Evaluate(snapshot domain.KpiSnapshot) []domain.TriggeredAlert {
	c.mu.Lock()
	defer c.mu.Unlock()

	rules := c.rules.List()
	triggered := c.evaluator.Evaluate(rules, snapshot)
	c.log.Append(triggered)

	metrics.RulesEvaluatedTotal.Add(float64(len(rules)))
	for _, a := range triggered {
		metrics.AlertsTriggeredTotal.WithLabelValues(string(a.Severity)).Inc()
		c.logger.Info().
			Str("alert_id", a.ID).
			Str("rule_id", a.RuleID).
			Str("severity", string(a.Severity)).
			Msg(a.Description)
	}
	return triggered
}
