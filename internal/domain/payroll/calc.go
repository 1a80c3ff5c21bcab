package payroll

import "leopay/internal/domain/employee"

// Snapshot copies an employee's identity and statutory figures into a new
// line and derives its totals. The line starts with an empty ad-hoc ledger.
func Snapshot(emp employee.Employee) Line {
	statutoryTotal := emp.Deductions.Total()
	return Line{
		EmployeeRef:     emp.ID,
		Name:            emp.Name,
		Role:            emp.Role,
		Email:           emp.Email,
		Nationality:     emp.Nationality,
		EmployeeNo:      emp.EmployeeNo,
		Passport:        emp.Passport,
		EPFNo:           emp.EPFNo,
		SOCSONo:         emp.SOCSONo,
		Gender:          emp.Gender,
		Salary:          emp.BaseSalary,
		Deductions:      emp.Deductions,
		Contributions:   emp.Contributions,
		StatutoryTotal:  statutoryTotal,
		AdhocTotal:      0,
		TotalDeductions: statutoryTotal,
		NetPay:          emp.BaseSalary - statutoryTotal,
	}
}

// FilterEntries drops entries with an empty name or zero amount and assigns
// each kept entry its index in the submitted list, so stored sort orders can
// have gaps where rows were filtered out.
func FilterEntries(entries []Entry) (kept []AdhocDeduction, adhocTotal float64) {
	for idx, entry := range entries {
		if entry.Name == "" || entry.Amount == 0 {
			continue
		}
		kept = append(kept, AdhocDeduction{
			Name:      entry.Name,
			Amount:    entry.Amount,
			SortOrder: idx,
		})
		adhocTotal += entry.Amount
	}
	return kept, adhocTotal
}

// Recompute derives the dependent totals for a line. The two results must
// always be persisted together with the adhoc total that produced them.
func Recompute(salary, statutoryTotal, adhocTotal float64) Totals {
	totalDeductions := statutoryTotal + adhocTotal
	return Totals{
		AdhocTotal:      adhocTotal,
		TotalDeductions: totalDeductions,
		NetPay:          salary - totalDeductions,
	}
}
