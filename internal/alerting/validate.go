package alerting

import (
	"math"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

// ValidateRule checks a rule the way the rule form does before it is
// handed to the store. It returns a *domain.ValidationError listing every
// problem, or nil.
func ValidateRule(rule domain.AlertRule) error {
	var details []domain.FieldError
	if !rule.Parameter.Known() {
		details = append(details, domain.FieldError{Field: "parameter", Problem: "unknown", Hint: "Use fosTac, ch4, co2 or h2s"})
	}
	if !rule.Condition.Known() {
		details = append(details, domain.FieldError{Field: "condition", Problem: "unknown", Hint: "Use greaterThan, lessThan or equalTo"})
	}
	if math.IsNaN(rule.Threshold) || math.IsInf(rule.Threshold, 0) {
		details = append(details, domain.FieldError{Field: "threshold", Problem: "not a finite number"})
	} else if rule.Threshold <= 0 {
		details = append(details, domain.FieldError{Field: "threshold", Problem: "must be positive"})
	}
	if !rule.Severity.Known() {
		details = append(details, domain.FieldError{Field: "severity", Problem: "unknown", Hint: "Use info, warning or critical"})
	}
	if len(details) > 0 {
		return &domain.ValidationError{Details: details}
	}
	return nil
}
