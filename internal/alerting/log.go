package alerting

import (
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
)

// LogCapacity bounds the triggered alert history.
const LogCapacity = 50

// TriggeredAlertLog keeps the most recent triggered alerts, newest first.
// When full, the oldest entries by position are dropped; timestamps are
// never consulted, so clock skew cannot reorder eviction.
type TriggeredAlertLog struct {
	entries  []domain.TriggeredAlert
	cap      int
	onChange func()
}

// NewTriggeredAlertLog seeds the log with persisted entries (already newest
// first) and applies the capacity bound to them.
func NewTriggeredAlertLog(initial []domain.TriggeredAlert, capacity int, onChange func()) *TriggeredAlertLog {
	if capacity < 1 {
		capacity = LogCapacity
	}
	l := &TriggeredAlertLog{cap: capacity, onChange: onChange}
	l.entries = truncate(append([]domain.TriggeredAlert(nil), initial...), capacity)
	return l
}

// Append prepends a batch of alerts, keeping their relative order, then
// truncates to capacity. An empty batch is a no-op and writes nothing.
func (l *TriggeredAlertLog) Append(alerts []domain.TriggeredAlert) {
	if len(alerts) == 0 {
		return
	}
	next := make([]domain.TriggeredAlert, 0, len(alerts)+len(l.entries))
	next = append(next, alerts...)
	next = append(next, l.entries...)
	l.entries = truncate(next, l.cap)
	if l.onChange != nil {
		l.onChange()
	}
}

// List returns a copy of the log, newest first.
func (l *TriggeredAlertLog) List() []domain.TriggeredAlert {
	out := make([]domain.TriggeredAlert, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *TriggeredAlertLog) Len() int { return len(l.entries) }

func (l *TriggeredAlertLog) Cap() int { return l.cap }

func truncate(entries []domain.TriggeredAlert, capacity int) []domain.TriggeredAlert {
	if len(entries) > capacity {
		return entries[:capacity]
	}
	return entries
}
