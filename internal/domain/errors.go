package domain

import "errors"

var (
	ErrReportNotFound = errors.New("report not found")
	ErrAlertNotFound  = errors.New("alert not found")
)
