package employee

import "time"

// StatutoryAmounts holds one flat amount per statutory scheme. The same shape
// serves employee-side deductions and employer-side contributions; amounts
// are supplied per employee, never computed from rates.
type StatutoryAmounts struct {
	EPF   float64 `json:"epf"`
	SOCSO float64 `json:"socso"`
	EIS   float64 `json:"eis"`
	Zakat float64 `json:"zakat"`
	PCB   float64 `json:"pcb"`
	HRDF  float64 `json:"hrdf"`
}

// Total sums the six scheme amounts, absent fields counting as zero.
func (a StatutoryAmounts) Total() float64 {
	return a.EPF + a.SOCSO + a.EIS + a.Zakat + a.PCB + a.HRDF
}

type Employee struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Role          string           `json:"role"`
	Email         string           `json:"email"`
	Nationality   string           `json:"nationality"`
	EmployeeNo    string           `json:"employeeNo"`
	Passport      string           `json:"passport"`
	EPFNo         string           `json:"epfNo"`
	SOCSONo       string           `json:"socsoNo"`
	Gender        string           `json:"gender"`
	BaseSalary    float64          `json:"baseSalary"`
	Deductions    StatutoryAmounts `json:"deductions"`
	Contributions StatutoryAmounts `json:"contributions"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
