package payroll

import "errors"

var (
	ErrRunNotFound  = errors.New("payroll run not found")
	ErrLineNotFound = errors.New("payroll line not found")
)
