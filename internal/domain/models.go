package domain

import (
	"math"
	"time"
)

// Parameter names a monitored plant KPI.
type Parameter string

const (
	ParamFosTac Parameter = "fosTac"
	ParamCH4    Parameter = "ch4"
	ParamCO2    Parameter = "co2"
	ParamH2S    Parameter = "h2s"
)

var parameterLabels = map[Parameter]string{
	ParamFosTac: "FOS/TAC",
	ParamCH4:    "CH4",
	ParamCO2:    "CO2",
	ParamH2S:    "H2S",
}

// KnownParameters lists the KPIs the plant reports, in display order.
func KnownParameters() []Parameter {
	return []Parameter{ParamFosTac, ParamCH4, ParamCO2, ParamH2S}
}

func (p Parameter) Known() bool {
	_, ok := parameterLabels[p]
	return ok
}

// Label returns the display label, or the raw name for parameters
// added outside the known set.
func (p Parameter) Label() string {
	if l, ok := parameterLabels[p]; ok {
		return l
	}
	return string(p)
}

type Condition string

const (
	GreaterThan Condition = "greaterThan"
	LessThan    Condition = "lessThan"
	EqualTo     Condition = "equalTo"
)

func (c Condition) Known() bool {
	switch c {
	case GreaterThan, LessThan, EqualTo:
		return true
	}
	return false
}

func (c Condition) Symbol() string {
	switch c {
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case EqualTo:
		return "="
	}
	return string(c)
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Known() bool {
	return s.Rank() > 0
}

// Rank orders severities info < warning < critical. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityCritical:
		return 3
	}
	return 0
}

// AlertRule is a user-authored threshold condition over one KPI.
// Rules are immutable once stored; edits are a remove followed by an add.
type AlertRule struct {
	ID        string    `json:"id"`
	Parameter Parameter `json:"parameter"`
	Condition Condition `json:"condition"`
	Threshold float64   `json:"threshold"`
	Severity  Severity  `json:"severity"`
}

// TriggeredAlert records that a rule's condition held at evaluation time.
type TriggeredAlert struct {
	ID          string    `json:"id"`
	RuleID      string    `json:"ruleId"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
}

// KpiSnapshot maps each KPI to its latest value. A missing key or NaN
// means the KPI was not measured in this refresh.
type KpiSnapshot map[Parameter]float64

// Value returns the measured value and whether it is usable.
func (s KpiSnapshot) Value(p Parameter) (float64, bool) {
	v, ok := s[p]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// SystemAlarmRecord is a backend-originated alarm row. Nullable columns
// are pointers.
type SystemAlarmRecord struct {
	ID           int64     `db:"id" json:"id"`
	ActivatedAt  time.Time `db:"fecha_hora_activacion" json:"activatedAt"`
	Description  string    `db:"descripcion" json:"description"`
	AlarmType    *string   `db:"tipo_alarma" json:"alarmType,omitempty"`
	Severity     *Severity `db:"severidad" json:"severity,omitempty"`
	Resolved     *bool     `db:"resuelta" json:"resolved,omitempty"`
	EquipmentRef *string   `db:"equipo_id" json:"equipmentRef,omitempty"`
}

// AlarmDisplayItem is the normalized union of system alarms and custom
// alerts. It is rebuilt on every read and never persisted.
type AlarmDisplayItem struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Description  string    `json:"description"`
	AlarmType    string    `json:"alarmType"`
	Severity     Severity  `json:"severity"`
	IsResolved   bool      `json:"isResolved"`
	IsCustom     bool      `json:"isCustom"`
	EquipmentRef *string   `json:"equipmentRef,omitempty"`
}

// KpiReading is one measurement written by the ingestor.
type KpiReading struct {
	ID         int64     `db:"id" json:"id"`
	Parameter  Parameter `db:"parameter" json:"parameter"`
	Value      float64   `db:"value" json:"value"`
	SensorID   string    `db:"sensor_id" json:"sensor_id"`
	MeasuredAt time.Time `db:"measured_at" json:"measured_at"`
}
