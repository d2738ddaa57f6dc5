package messaging

import "time"

// ShiftClosedNotice is the JSON payload sent to the report queue when a
// shift-closed event lands in the log. The report worker replays the shift
// and emails the summary.
type ShiftClosedNotice struct {
	ShiftID    string    `json:"shiftId"`
	CompanyID  *string   `json:"companyId,omitempty"`
	PointID    *string   `json:"pointId,omitempty"`
	EmployeeID *string   `json:"employeeId,omitempty"`
	ClosedAt   time.Time `json:"closedAt"`
}
