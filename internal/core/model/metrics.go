package model

import "time"

// BasicMetrics is the first metric family: revenue, check counts, checklist
// completion and problem tallies, all from a single pass over the shift.
type BasicMetrics struct {
	TotalRevenue           float64        `json:"totalRevenue"`
	TotalCash              float64        `json:"totalCash"`
	TotalCard              float64        `json:"totalCard"`
	ChecksCount            int            `json:"checksCount"`
	TasksCompleted         int            `json:"tasksCompleted"`
	TasksTotal             int            `json:"tasksTotal"`
	TasksCompletionPercent float64        `json:"tasksCompletionPercent"`
	ProblemsCount          int            `json:"problemsCount"`
	ProblemsByCategory     map[string]int `json:"problemsByCategory"`
	ProblemsBySeverity     map[string]int `json:"problemsBySeverity"`
}

// IdlePeriod is a gap between consecutive sales (or between a sale and a
// shift boundary) longer than the idle threshold.
type IdlePeriod struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes float64   `json:"durationMinutes"`
}

// PeakHour is one hour-of-day bucket of order counts.
type PeakHour struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

// OperationalMetrics describes the tempo of the shift.
type OperationalMetrics struct {
	TimeBetweenChecks    []float64    `json:"timeBetweenChecks"` // seconds, in order
	AvgTimeBetweenOrders float64      `json:"avgTimeBetweenOrders"`
	ChecksPerHour        float64      `json:"checksPerHour"`
	IdlePeriods          []IdlePeriod `json:"idlePeriods"`
	PeakHours            []PeakHour   `json:"peakHours"`
}

// Deviation is an absolute and relative difference from a baseline.
type Deviation struct {
	Absolute float64 `json:"absolute"`
	Percent  float64 `json:"percent"`
}

// FinancialMetrics splits revenue by payment method and compares the shift's
// average check against a caller-supplied point baseline.
type FinancialMetrics struct {
	CashShare         float64   `json:"cashShare"`
	CardShare         float64   `json:"cardShare"`
	AvgCheck          float64   `json:"avgCheck"`
	AvgCheckDeviation Deviation `json:"avgCheckDeviation"`
}

// QualityMetrics reports service-quality signals. ProblemReactionTimeSeconds
// stays nil until a problem-resolved event kind exists to pair against
// problem reports; nil means "not measurable", which is different from a
// shift with no problems at all.
type QualityMetrics struct {
	CancelledChecksCount       int      `json:"cancelledChecksCount"`
	CancelledChecksAmount      float64  `json:"cancelledChecksAmount"`
	CancelledChecksShare       float64  `json:"cancelledChecksShare"`
	ProblemReactionTimeSeconds *float64 `json:"problemReactionTimeSeconds,omitempty"`
	ChecklistViolations        int      `json:"checklistViolations"`
}
