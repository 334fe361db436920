package alerting

import (
	"errors"
	"math"
	"testing"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

func TestRuleStore_AddListRemove(t *testing.T) {
	changes := 0
	store := NewRuleStore(nil, func() { changes++ })

	store.Add(domain.AlertRule{ID: "a", Parameter: domain.ParamCH4})
	store.Add(domain.AlertRule{ID: "b", Parameter: domain.ParamFosTac})
	store.Add(domain.AlertRule{ID: "c", Parameter: domain.ParamH2S})

	got := store.List()
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("expected insertion order [a b c], got %+v", got)
	}

	store.Remove("b")
	got = store.List()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("expected [a c] after remove, got %+v", got)
	}
	if changes != 4 {
		t.Errorf("expected 4 change notifications, got %d", changes)
	}
}

func TestRuleStore_RemoveUnknownIsNoop(t *testing.T) {
	changes := 0
	store := NewRuleStore([]domain.AlertRule{{ID: "a"}, {ID: "b"}}, func() { changes++ })

	store.Remove("missing")

	got := store.List()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("store should be unchanged, got %+v", got)
	}
	if changes != 0 {
		t.Errorf("expected no change notification, got %d", changes)
	}
}

func TestRuleStore_DuplicateRulesAllowed(t *testing.T) {
	store := NewRuleStore(nil, nil)
	rule := domain.AlertRule{ID: "x", Parameter: domain.ParamCH4, Condition: domain.LessThan, Threshold: 50}
	store.Add(rule)
	rule.ID = "y"
	store.Add(rule)
	if store.Len() != 2 {
		t.Fatalf("expected 2 rules, got %d", store.Len())
	}
}

func TestValidateRule(t *testing.T) {
	valid := domain.AlertRule{Parameter: domain.ParamFosTac, Condition: domain.GreaterThan, Threshold: 0.4, Severity: domain.SeverityCritical}
	if err := ValidateRule(valid); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}

	tests := []struct {
		name  string
		rule  domain.AlertRule
		field string
	}{
		{"zero threshold", domain.AlertRule{Parameter: domain.ParamCH4, Condition: domain.LessThan, Threshold: 0, Severity: domain.SeverityInfo}, "threshold"},
		{"negative threshold", domain.AlertRule{Parameter: domain.ParamCH4, Condition: domain.LessThan, Threshold: -1, Severity: domain.SeverityInfo}, "threshold"},
		{"nan threshold", domain.AlertRule{Parameter: domain.ParamCH4, Condition: domain.LessThan, Threshold: math.NaN(), Severity: domain.SeverityInfo}, "threshold"},
		{"unknown parameter", domain.AlertRule{Parameter: "ph", Condition: domain.LessThan, Threshold: 1, Severity: domain.SeverityInfo}, "parameter"},
		{"unknown condition", domain.AlertRule{Parameter: domain.ParamCH4, Condition: ">=", Threshold: 1, Severity: domain.SeverityInfo}, "condition"},
		{"unknown severity", domain.AlertRule{Parameter: domain.ParamCH4, Condition: domain.LessThan, Threshold: 1, Severity: "fatal"}, "severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.rule)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(verr.Details) != 1 || verr.Details[0].Field != tt.field {
				t.Errorf("expected one problem on %q, got %+v", tt.field, verr.Details)
			}
		})
	}
}
