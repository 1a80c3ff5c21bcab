package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id, name, role, email, nationality, employee_no, passport, epf_no, socso_no, gender,
    base_salary,
    epf_deduction, socso_deduction, eis_deduction, zakat_deduction, pcb_deduction, hrdf_deduction,
    employer_epf, employer_socso, employer_eis, employer_zakat, employer_pcb, employer_hrdf,
    created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Role, &e.Email, &e.Nationality, &e.EmployeeNo, &e.Passport, &e.EPFNo, &e.SOCSONo, &e.Gender,
		&e.BaseSalary,
		&e.Deductions.EPF, &e.Deductions.SOCSO, &e.Deductions.EIS, &e.Deductions.Zakat, &e.Deductions.PCB, &e.Deductions.HRDF,
		&e.Contributions.EPF, &e.Contributions.SOCSO, &e.Contributions.EIS, &e.Contributions.Zakat, &e.Contributions.PCB, &e.Contributions.HRDF,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+employeeColumns+" FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT"+employeeColumns+" FROM employees WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) Create(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      name, role, email, nationality, employee_no, passport, epf_no, socso_no, gender,
      base_salary,
      epf_deduction, socso_deduction, eis_deduction, zakat_deduction, pcb_deduction, hrdf_deduction,
      employer_epf, employer_socso, employer_eis, employer_zakat, employer_pcb, employer_hrdf
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
    RETURNING id
  `,
		emp.Name, emp.Role, emp.Email, emp.Nationality, emp.EmployeeNo, emp.Passport, emp.EPFNo, emp.SOCSONo, emp.Gender,
		emp.BaseSalary,
		emp.Deductions.EPF, emp.Deductions.SOCSO, emp.Deductions.EIS, emp.Deductions.Zakat, emp.Deductions.PCB, emp.Deductions.HRDF,
		emp.Contributions.EPF, emp.Contributions.SOCSO, emp.Contributions.EIS, emp.Contributions.Zakat, emp.Contributions.PCB, emp.Contributions.HRDF,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update overwrites every editable field; the payroll snapshot model means
// existing payroll lines are unaffected by roster edits.
func (s *Store) Update(ctx context.Context, id string, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET
      name = $1, role = $2, email = $3, nationality = $4, employee_no = $5,
      passport = $6, epf_no = $7, socso_no = $8, gender = $9,
      base_salary = $10,
      epf_deduction = $11, socso_deduction = $12, eis_deduction = $13,
      zakat_deduction = $14, pcb_deduction = $15, hrdf_deduction = $16,
      employer_epf = $17, employer_socso = $18, employer_eis = $19,
      employer_zakat = $20, employer_pcb = $21, employer_hrdf = $22,
      updated_at = now()
    WHERE id = $23
  `,
		emp.Name, emp.Role, emp.Email, emp.Nationality, emp.EmployeeNo,
		emp.Passport, emp.EPFNo, emp.SOCSONo, emp.Gender,
		emp.BaseSalary,
		emp.Deductions.EPF, emp.Deductions.SOCSO, emp.Deductions.EIS,
		emp.Deductions.Zakat, emp.Deductions.PCB, emp.Deductions.HRDF,
		emp.Contributions.EPF, emp.Contributions.SOCSO, emp.Contributions.EIS,
		emp.Contributions.Zakat, emp.Contributions.PCB, emp.Contributions.HRDF,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
