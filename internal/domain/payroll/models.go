package payroll

import (
	"time"

	"leopay/internal/domain/employee"
)

// Run is one payroll cycle for one calendar month. Its line membership is
// fixed at creation; only each line's ad-hoc ledger may change afterwards.
type Run struct {
	ID         string    `json:"id"`
	Month      string    `json:"month"`
	IssuedDate string    `json:"issuedDate"`
	CreatedAt  time.Time `json:"createdAt"`
	LineCount  int       `json:"lineCount,omitempty"`
}

// Line is one employee's pay record within a run. Identity fields and the
// twelve statutory amounts are copied from the employee at run creation and
// never re-read, so later roster edits leave past runs untouched.
type Line struct {
	ID          string `json:"id"`
	RunID       string `json:"runId"`
	EmployeeRef string `json:"employeeRef"`

	Name        string `json:"name"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	EmployeeNo  string `json:"employeeNo"`
	Passport    string `json:"passport"`
	EPFNo       string `json:"epfNo"`
	SOCSONo     string `json:"socsoNo"`
	Gender      string `json:"gender"`

	Salary        float64                   `json:"salary"`
	Deductions    employee.StatutoryAmounts `json:"deductions"`
	Contributions employee.StatutoryAmounts `json:"contributions"`

	StatutoryTotal  float64 `json:"statutoryDeductionsTotal"`
	AdhocTotal      float64 `json:"adhocDeductionsTotal"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetPay          float64 `json:"netPay"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdhocDeduction is one operator-entered adjustment on a line. The full set
// for a line is replaced wholesale on every save.
type AdhocDeduction struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry is one submitted ad-hoc deduction row, before filtering.
type Entry struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Totals carries the three derived fields written back after a ledger save.
type Totals struct {
	AdhocTotal      float64 `json:"adhocDeductionsTotal"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetPay          float64 `json:"netPay"`
}

// CreateResult reports a run creation, including employee ids that did not
// resolve and were skipped.
type CreateResult struct {
	RunID      string   `json:"runId"`
	LineCount  int      `json:"lineCount"`
	SkippedIDs []string `json:"skippedEmployeeIds,omitempty"`
}
