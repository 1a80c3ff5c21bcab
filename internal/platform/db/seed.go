package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"leopay/internal/domain/auth"
	"leopay/internal/domain/employee"
	"leopay/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	if cfg.SeedSampleData {
		if err := ensureSampleRoster(ctx, pool); err != nil {
			return err
		}
	}

	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, "INSERT INTO users (email, password_hash) VALUES ($1, $2)", email, hash)
	return err
}

// ensureSampleRoster loads a small demo roster, only when the table is empty.
func ensureSampleRoster(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	store := employee.NewStore(pool)
	for _, emp := range sampleRoster() {
		if _, err := store.Create(ctx, emp); err != nil {
			return err
		}
	}
	return nil
}

func sampleRoster() []employee.Employee {
	return []employee.Employee{
		{
			Name: "John Tan", Role: "Software Engineer", Nationality: "Malaysian",
			EmployeeNo: "EMP001", Passport: "A12345678", EPFNo: "EPF123456", SOCSONo: "SOCSO123456",
			Gender: "Male", BaseSalary: 5500,
			Deductions:    employee.StatutoryAmounts{EPF: 605.00, SOCSO: 24.50, EIS: 8.25, PCB: 150.00, HRDF: 5.50},
			Contributions: employee.StatutoryAmounts{EPF: 715.00, SOCSO: 85.75, EIS: 8.25},
		},
		{
			Name: "Sarah Lim", Role: "Product Manager", Nationality: "Malaysian",
			EmployeeNo: "EMP002", Passport: "B98765432", EPFNo: "EPF789012", SOCSONo: "SOCSO789012",
			Gender: "Female", BaseSalary: 7200,
			Deductions:    employee.StatutoryAmounts{EPF: 792.00, SOCSO: 24.50, EIS: 10.80, Zakat: 144.00, PCB: 250.00, HRDF: 7.20},
			Contributions: employee.StatutoryAmounts{EPF: 936.00, SOCSO: 85.75, EIS: 10.80},
		},
		{
			Name: "Ahmad Ibrahim", Role: "UI/UX Designer", Nationality: "Malaysian",
			EmployeeNo: "EMP003", Passport: "C11223344", EPFNo: "EPF345678", SOCSONo: "SOCSO345678",
			Gender: "Male", BaseSalary: 4800,
			Deductions:    employee.StatutoryAmounts{EPF: 528.00, SOCSO: 24.50, EIS: 7.20, PCB: 80.00, HRDF: 4.80},
			Contributions: employee.StatutoryAmounts{EPF: 624.00, SOCSO: 84.35, EIS: 7.20},
		},
		{
			Name: "Michelle Wong", Role: "HR Manager", Nationality: "Malaysian",
			EmployeeNo: "EMP004", Passport: "D55667788", EPFNo: "EPF901234", SOCSONo: "SOCSO901234",
			Gender: "Female", BaseSalary: 6000,
			Deductions:    employee.StatutoryAmounts{EPF: 660.00, SOCSO: 24.50, EIS: 9.00, PCB: 180.00, HRDF: 6.00},
			Contributions: employee.StatutoryAmounts{EPF: 780.00, SOCSO: 85.75, EIS: 9.00},
		},
	}
}
