package alerting

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

// Evaluator matches rules against a KPI snapshot. The zero value uses the
// wall clock and random ids.
type Evaluator struct {
	Now   func() time.Time
	NewID func(now time.Time) string
}

// Evaluate runs the default Evaluator.
func Evaluate(rules []domain.AlertRule, snapshot domain.KpiSnapshot) []domain.TriggeredAlert {
	return Evaluator{}.Evaluate(rules, snapshot)
}

// Evaluate returns one alert per rule whose condition holds for the
// snapshot, in rule order. Rules over unmeasured KPIs never fire. Every
// call re-fires on a holding condition; there is no suppression window.
func (e Evaluator) Evaluate(rules []domain.AlertRule, snapshot domain.KpiSnapshot) []domain.TriggeredAlert {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	newID := defaultAlertID
	if e.NewID != nil {
		newID = e.NewID
	}

	at := now()
	var out []domain.TriggeredAlert
	for _, rule := range rules {
		value, ok := snapshot.Value(rule.Parameter)
		if !ok {
			continue
		}
		if !Matches(rule.Condition, value, rule.Threshold) {
			continue
		}
		out = append(out, domain.TriggeredAlert{
			ID:          newID(at),
			RuleID:      rule.ID,
			Timestamp:   at,
			Description: Describe(rule, value),
			Severity:    rule.Severity,
		})
	}
	return out
}

// Matches applies a condition. equalTo is exact float equality with no
// tolerance, so it rarely holds for continuously varying KPIs.
func Matches(cond domain.Condition, value, threshold float64) bool {
	switch cond {
	case domain.GreaterThan:
		return value > threshold
	case domain.LessThan:
		return value < threshold
	case domain.EqualTo:
		return value == threshold
	}
	return false
}

// Describe renders e.g. "FOS/TAC > 0.4 (actual: 0.45)".
func Describe(rule domain.AlertRule, value float64) string {
	return fmt.Sprintf("%s %s %s (actual: %.2f)",
		rule.Parameter.Label(),
		rule.Condition.Symbol(),
		strconv.FormatFloat(rule.Threshold, 'f', -1, 64),
		value,
	)
}

func defaultAlertID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
