package alerting

import (
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

// RuleStore holds the user-defined alert rules in insertion order.
// It is not safe for concurrent use on its own; CustomAlerts serializes access.
type RuleStore struct {
	rules    []domain.AlertRule
	onChange func()
}

// NewRuleStore seeds the store with previously persisted rules. onChange
// runs after every mutation and may be nil.
func NewRuleStore(initial []domain.AlertRule, onChange func()) *RuleStore {
	return &RuleStore{
		rules:    append([]domain.AlertRule(nil), initial...),
		onChange: onChange,
	}
}

// Add appends a rule. Input is assumed to be validated already.
func (s *RuleStore) Add(rule domain.AlertRule) {
	s.rules = append(s.rules, rule)
	s.changed()
}

// Remove deletes the rule with the given id. Unknown ids are ignored and
// do not trigger a write.
func (s *RuleStore) Remove(id string) {
	kept := make([]domain.AlertRule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(s.rules) {
		return
	}
	s.rules = kept
	s.changed()
}

// List returns a copy of the rules in insertion order.
func (s *RuleStore) List() []domain.AlertRule {
	out := make([]domain.AlertRule, len(s.rules))
	copy(out, s.rules)
	return out
}

func (s *RuleStore) Len() int { return len(s.rules) }

func (s *RuleStore) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
