package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leopay/internal/domain/employee"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// CreateRun creates the run and one snapshot line per resolvable employee in
// one transaction: either the run and all of its lines exist, or nothing
// does. Ids that do not resolve are skipped and reported, not errored.
func (s *Store) CreateRun(ctx context.Context, month, issuedDate string, employeeIDs []string) (CreateResult, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return CreateResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var result CreateResult
	if err := tx.QueryRow(ctx, `
    INSERT INTO payroll_runs (month, issued_date)
    VALUES ($1, $2)
    RETURNING id
  `, month, issuedDate).Scan(&result.RunID); err != nil {
		return CreateResult{}, err
	}

	for _, employeeID := range employeeIDs {
		emp, err := getEmployeeForSnapshot(ctx, tx, employeeID)
		if errors.Is(err, pgx.ErrNoRows) {
			result.SkippedIDs = append(result.SkippedIDs, employeeID)
			continue
		}
		if err != nil {
			return CreateResult{}, err
		}

		line := Snapshot(emp)
		if _, err := tx.Exec(ctx, `
      INSERT INTO payroll_lines (
        run_id, employee_ref,
        name, role, email, nationality, employee_no, passport, epf_no, socso_no, gender,
        salary,
        epf_deduction, socso_deduction, eis_deduction, zakat_deduction, pcb_deduction, hrdf_deduction,
        employer_epf, employer_socso, employer_eis, employer_zakat, employer_pcb, employer_hrdf,
        statutory_deductions_total, adhoc_deductions_total, total_deductions, net_pay
      )
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
    `,
			result.RunID, line.EmployeeRef,
			line.Name, line.Role, line.Email, line.Nationality, line.EmployeeNo, line.Passport, line.EPFNo, line.SOCSONo, line.Gender,
			line.Salary,
			line.Deductions.EPF, line.Deductions.SOCSO, line.Deductions.EIS, line.Deductions.Zakat, line.Deductions.PCB, line.Deductions.HRDF,
			line.Contributions.EPF, line.Contributions.SOCSO, line.Contributions.EIS, line.Contributions.Zakat, line.Contributions.PCB, line.Contributions.HRDF,
			line.StatutoryTotal, line.AdhocTotal, line.TotalDeductions, line.NetPay,
		); err != nil {
			return CreateResult{}, err
		}
		result.LineCount++
	}

	if err := tx.Commit(ctx); err != nil {
		return CreateResult{}, err
	}
	return result, nil
}

func getEmployeeForSnapshot(ctx context.Context, tx pgx.Tx, id string) (employee.Employee, error) {
	var e employee.Employee
	err := tx.QueryRow(ctx, `
    SELECT id, name, role, email, nationality, employee_no, passport, epf_no, socso_no, gender,
           base_salary,
           epf_deduction, socso_deduction, eis_deduction, zakat_deduction, pcb_deduction, hrdf_deduction,
           employer_epf, employer_socso, employer_eis, employer_zakat, employer_pcb, employer_hrdf
    FROM employees
    WHERE id = $1
  `, id).Scan(
		&e.ID, &e.Name, &e.Role, &e.Email, &e.Nationality, &e.EmployeeNo, &e.Passport, &e.EPFNo, &e.SOCSONo, &e.Gender,
		&e.BaseSalary,
		&e.Deductions.EPF, &e.Deductions.SOCSO, &e.Deductions.EIS, &e.Deductions.Zakat, &e.Deductions.PCB, &e.Deductions.HRDF,
		&e.Contributions.EPF, &e.Contributions.SOCSO, &e.Contributions.EIS, &e.Contributions.Zakat, &e.Contributions.PCB, &e.Contributions.HRDF,
	)
	return e, err
}

func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    SELECT id, month, issued_date, created_at
    FROM payroll_runs
    WHERE id = $1
  `, id).Scan(&run.ID, &run.Month, &run.IssuedDate, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.month, r.issued_date, r.created_at, COUNT(l.id)
    FROM payroll_runs r
    LEFT JOIN payroll_lines l ON l.run_id = r.id
    GROUP BY r.id, r.month, r.issued_date, r.created_at
    ORDER BY r.created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Month, &run.IssuedDate, &run.CreatedAt, &run.LineCount); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const lineColumns = `
    id, run_id, employee_ref,
    name, role, email, nationality, employee_no, passport, epf_no, socso_no, gender,
    salary,
    epf_deduction, socso_deduction, eis_deduction, zakat_deduction, pcb_deduction, hrdf_deduction,
    employer_epf, employer_socso, employer_eis, employer_zakat, employer_pcb, employer_hrdf,
    statutory_deductions_total, adhoc_deductions_total, total_deductions, net_pay,
    created_at, updated_at`

func scanLine(row pgx.Row) (Line, error) {
	var l Line
	err := row.Scan(
		&l.ID, &l.RunID, &l.EmployeeRef,
		&l.Name, &l.Role, &l.Email, &l.Nationality, &l.EmployeeNo, &l.Passport, &l.EPFNo, &l.SOCSONo, &l.Gender,
		&l.Salary,
		&l.Deductions.EPF, &l.Deductions.SOCSO, &l.Deductions.EIS, &l.Deductions.Zakat, &l.Deductions.PCB, &l.Deductions.HRDF,
		&l.Contributions.EPF, &l.Contributions.SOCSO, &l.Contributions.EIS, &l.Contributions.Zakat, &l.Contributions.PCB, &l.Contributions.HRDF,
		&l.StatutoryTotal, &l.AdhocTotal, &l.TotalDeductions, &l.NetPay,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (s *Store) ListLines(ctx context.Context, runID string) ([]Line, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+lineColumns+" FROM payroll_lines WHERE run_id = $1 ORDER BY created_at, id", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *Store) GetLine(ctx context.Context, runID, lineID string) (Line, error) {
	line, err := scanLine(s.DB.QueryRow(ctx,
		"SELECT"+lineColumns+" FROM payroll_lines WHERE run_id = $1 AND id = $2", runID, lineID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Line{}, ErrLineNotFound
	}
	return line, err
}

func (s *Store) ListDeductions(ctx context.Context, lineID string) ([]AdhocDeduction, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, amount, sort_order, created_at
    FROM adhoc_deductions
    WHERE line_id = $1
    ORDER BY sort_order
  `, lineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deductions []AdhocDeduction
	for rows.Next() {
		var d AdhocDeduction
		if err := rows.Scan(&d.ID, &d.Name, &d.Amount, &d.SortOrder, &d.CreatedAt); err != nil {
			return nil, err
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}

// SaveDeductions replaces the line's ad-hoc ledger wholesale and recomputes
// its derived totals. The delete/insert/update sequence runs in a single
// transaction with the line row locked, so concurrent saves on the same line
// serialize instead of interleaving.
func (s *Store) SaveDeductions(ctx context.Context, runID, lineID string, entries []Entry) (Totals, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Totals{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var salary, statutoryTotal float64
	err = tx.QueryRow(ctx, `
    SELECT salary, statutory_deductions_total
    FROM payroll_lines
    WHERE run_id = $1 AND id = $2
    FOR UPDATE
  `, runID, lineID).Scan(&salary, &statutoryTotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return Totals{}, ErrLineNotFound
	}
	if err != nil {
		return Totals{}, err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM adhoc_deductions WHERE line_id = $1", lineID); err != nil {
		return Totals{}, err
	}

	kept, adhocTotal := FilterEntries(entries)
	for _, deduction := range kept {
		if _, err := tx.Exec(ctx, `
      INSERT INTO adhoc_deductions (line_id, name, amount, sort_order)
      VALUES ($1,$2,$3,$4)
    `, lineID, deduction.Name, deduction.Amount, deduction.SortOrder); err != nil {
			return Totals{}, err
		}
	}

	totals := Recompute(salary, statutoryTotal, adhocTotal)
	if _, err := tx.Exec(ctx, `
    UPDATE payroll_lines
    SET adhoc_deductions_total = $1, total_deductions = $2, net_pay = $3, updated_at = now()
    WHERE id = $4
  `, totals.AdhocTotal, totals.TotalDeductions, totals.NetPay, lineID); err != nil {
		return Totals{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Totals{}, err
	}
	return totals, nil
}
