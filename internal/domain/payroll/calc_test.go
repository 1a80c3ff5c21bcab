package payroll

import (
	"testing"

	"leopay/internal/domain/employee"
)

func sampleEmployee() employee.Employee {
	return employee.Employee{
		ID:          "emp-1",
		Name:        "John Tan",
		Role:        "Software Engineer",
		Nationality: "Malaysian",
		EmployeeNo:  "EMP001",
		Passport:    "A12345678",
		EPFNo:       "EPF123456",
		SOCSONo:     "SOCSO123456",
		Gender:      "Male",
		BaseSalary:  5500,
		Deductions:  employee.StatutoryAmounts{EPF: 605, SOCSO: 24.5, EIS: 8.25, Zakat: 0, PCB: 150, HRDF: 5.5},
		Contributions: employee.StatutoryAmounts{
			EPF: 715, SOCSO: 85.75, EIS: 8.25,
		},
	}
}

func TestSnapshotDerivesStatutoryTotals(t *testing.T) {
	line := Snapshot(sampleEmployee())

	if line.StatutoryTotal != 793.25 {
		t.Fatalf("expected statutory total 793.25, got %v", line.StatutoryTotal)
	}
	if line.AdhocTotal != 0 {
		t.Fatalf("expected adhoc total 0 on a new line, got %v", line.AdhocTotal)
	}
	if line.TotalDeductions != 793.25 {
		t.Fatalf("expected total deductions 793.25, got %v", line.TotalDeductions)
	}
	if line.NetPay != 4706.75 {
		t.Fatalf("expected net pay 4706.75, got %v", line.NetPay)
	}
}

func TestSnapshotCopiesIdentityAndAmounts(t *testing.T) {
	emp := sampleEmployee()
	line := Snapshot(emp)

	if line.EmployeeRef != emp.ID {
		t.Fatalf("expected employee ref %q, got %q", emp.ID, line.EmployeeRef)
	}
	if line.Name != emp.Name || line.Passport != emp.Passport || line.SOCSONo != emp.SOCSONo {
		t.Fatalf("identity fields not copied: %+v", line)
	}
	if line.Deductions != emp.Deductions {
		t.Fatalf("deductions not copied: %+v", line.Deductions)
	}
	if line.Contributions != emp.Contributions {
		t.Fatalf("contributions not copied: %+v", line.Contributions)
	}
}

func TestSnapshotZeroSalary(t *testing.T) {
	line := Snapshot(employee.Employee{ID: "emp-2", Name: "Unpaid Intern"})
	if line.StatutoryTotal != 0 || line.NetPay != 0 || line.TotalDeductions != 0 {
		t.Fatalf("expected all-zero totals, got %+v", line)
	}
}

func TestFilterEntriesDropsBlankAndZero(t *testing.T) {
	kept, total := FilterEntries([]Entry{
		{Name: "Advance", Amount: 200},
		{Name: "", Amount: 50},
		{Name: "Laptop damage", Amount: 0},
		{Name: "Parking fine", Amount: 75.5},
	})

	if len(kept) != 2 {
		t.Fatalf("expected 2 kept entries, got %d", len(kept))
	}
	if total != 275.5 {
		t.Fatalf("expected total 275.5, got %v", total)
	}
}

func TestFilterEntriesKeepsOriginalIndexAsSortOrder(t *testing.T) {
	kept, _ := FilterEntries([]Entry{
		{Name: "", Amount: 10},
		{Name: "Advance", Amount: 200},
		{Name: "Skip", Amount: 0},
		{Name: "Levy", Amount: 30},
	})

	if kept[0].SortOrder != 1 {
		t.Fatalf("expected first kept entry to keep index 1, got %d", kept[0].SortOrder)
	}
	if kept[1].SortOrder != 3 {
		t.Fatalf("expected second kept entry to keep index 3, got %d", kept[1].SortOrder)
	}
}

func TestFilterEntriesEmptyInput(t *testing.T) {
	kept, total := FilterEntries(nil)
	if len(kept) != 0 || total != 0 {
		t.Fatalf("expected empty result, got %v entries, total %v", len(kept), total)
	}
}

func TestRecomputeHoldsInvariants(t *testing.T) {
	totals := Recompute(5500, 793.25, 200)

	if totals.TotalDeductions != totals.AdhocTotal+793.25 {
		t.Fatalf("total deductions invariant broken: %+v", totals)
	}
	if totals.NetPay != 5500-totals.TotalDeductions {
		t.Fatalf("net pay invariant broken: %+v", totals)
	}
	if totals.TotalDeductions != 993.25 || totals.NetPay != 4506.75 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestRecomputeWithEmptyLedgerResetsToStatutory(t *testing.T) {
	totals := Recompute(5500, 793.25, 0)
	if totals.AdhocTotal != 0 || totals.TotalDeductions != 793.25 || totals.NetPay != 4706.75 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}
