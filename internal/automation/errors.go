package automation

import "errors"

var (
	ErrNotFound       = errors.New("automation not found")
	ErrAlertNotFound  = errors.New("alert not found")
	ErrInvalidInput   = errors.New("invalid input data")
	ErrInvalidTrigger = errors.New("trigger must be kpi{metricId, comparator, threshold} or date{dateField, offsetDays}")
	ErrInvalidAction  = errors.New("action must be alert, task or email")
	ErrAdminOnly      = errors.New("only the business Admin can manage automations")
	ErrNotEntitled    = errors.New("automations are not included in the current plan")
)
