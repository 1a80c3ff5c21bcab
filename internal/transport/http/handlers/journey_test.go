package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"leopay/internal/app/server"
	"leopay/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		MigrationsDir:      "../../../../migrations",
		RunMigrations:      true,
		RunSeed:            true,
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

func TestPayrollJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeID := createEmployee(t, client, ts.URL, token)

	// A well-formed id that resolves to nothing must be skipped, not fail
	// the whole run.
	bogusID := "00000000-0000-0000-0000-000000000000"
	runID, skipped := createRun(t, client, ts.URL, token, []string{employeeID, bogusID})
	if len(skipped) != 1 || skipped[0] != bogusID {
		t.Fatalf("expected skipped ids [%s], got %v", bogusID, skipped)
	}

	lineID := fetchOnlyLine(t, client, ts.URL, token, runID)

	totals := saveDeductions(t, client, ts.URL, token, runID, lineID, []map[string]any{
		{"name": "Advance", "amount": 200},
		{"name": "", "amount": 50},
		{"name": "Phone", "amount": 0},
	})
	assertTotals(t, totals, 200, 993.25, 4506.75)

	// Saving the same ledger again replaces it wholesale; totals must not
	// drift.
	totals = saveDeductions(t, client, ts.URL, token, runID, lineID, []map[string]any{
		{"name": "Advance", "amount": 200},
		{"name": "", "amount": 50},
		{"name": "Phone", "amount": 0},
	})
	assertTotals(t, totals, 200, 993.25, 4506.75)

	deductions := fetchDeductions(t, client, ts.URL, token, runID, lineID)
	if len(deductions) != 1 {
		t.Fatalf("expected 1 stored deduction, got %d", len(deductions))
	}
	if deductions[0]["name"] != "Advance" {
		t.Fatalf("expected Advance, got %v", deductions[0]["name"])
	}

	// An empty ledger resets the ad-hoc total.
	totals = saveDeductions(t, client, ts.URL, token, runID, lineID, nil)
	assertTotals(t, totals, 0, 793.25, 4706.75)

	base := fmt.Sprintf("%s/api/v1/payroll/runs/%s", ts.URL, runID)
	checkDownload(t, client, base+"/lines/"+lineID+"/payslip", token, "application/pdf", "%PDF")
	checkDownload(t, client, base+"/payslips", token, "application/pdf", "%PDF")
	checkDownload(t, client, base+"/payslips.zip", token, "application/zip", "PK")
}

func TestEndpointsRequireAuth(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	app, err := server.New(context.Background(), testConfig(dbURL))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	getJSONStatus(t, ts.Client(), ts.URL+"/api/v1/employees", "", http.StatusUnauthorized)
	getJSONStatus(t, ts.Client(), ts.URL+"/api/v1/payroll/runs", "", http.StatusUnauthorized)
}

func TestUnknownEmployeeAndRunReturn404(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	token := login(t, ts.Client(), ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	missing := "00000000-0000-0000-0000-000000000000"

	getJSONStatus(t, ts.Client(), ts.URL+"/api/v1/employees/"+missing, token, http.StatusNotFound)
	getJSONStatus(t, ts.Client(), ts.URL+"/api/v1/payroll/runs/"+missing, token, http.StatusNotFound)
	getJSONStatus(t, ts.Client(), ts.URL+"/api/v1/payroll/runs/"+missing+"/payslips", token, http.StatusNotFound)
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/employees", token, map[string]any{
		"name":        fmt.Sprintf("Journey Tester %d", time.Now().UnixNano()),
		"role":        "Software Engineer",
		"nationality": "Malaysian",
		"employeeNo":  "EMP999",
		"gender":      "Male",
		"baseSalary":  5500,
		"deductions": map[string]any{
			"epf": 605, "socso": 24.5, "eis": 8.25, "zakat": 0, "pcb": 150, "hrdf": 5.5,
		},
		"contributions": map[string]any{
			"epf": 715, "socso": 85.75, "eis": 8.25,
		},
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode employee response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected employee id")
	}
	return id
}

func createRun(t *testing.T, client *http.Client, baseURL, token string, employeeIDs []string) (string, []string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/payroll/runs", token, map[string]any{
		"month":       "2025-12",
		"issuedDate":  "2025-12-28",
		"employeeIds": employeeIDs,
	})
	var payload struct {
		RunID      string   `json:"runId"`
		LineCount  int      `json:"lineCount"`
		SkippedIDs []string `json:"skippedEmployeeIds"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode run response: %v", err)
	}
	if payload.RunID == "" {
		t.Fatal("expected run id")
	}
	if payload.LineCount != 1 {
		t.Fatalf("expected 1 line, got %d", payload.LineCount)
	}
	return payload.RunID, payload.SkippedIDs
}

func fetchOnlyLine(t *testing.T, client *http.Client, baseURL, token, runID string) string {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/payroll/runs/"+runID, token)
	var payload struct {
		Lines []struct {
			ID     string  `json:"id"`
			NetPay float64 `json:"netPay"`
		} `json:"lines"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode run detail: %v", err)
	}
	if len(payload.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(payload.Lines))
	}
	if payload.Lines[0].NetPay != 4706.75 {
		t.Fatalf("expected snapshot net pay 4706.75, got %v", payload.Lines[0].NetPay)
	}
	return payload.Lines[0].ID
}

func saveDeductions(t *testing.T, client *http.Client, baseURL, token, runID, lineID string, entries []map[string]any) map[string]float64 {
	t.Helper()
	url := fmt.Sprintf("%s/api/v1/payroll/runs/%s/lines/%s/deductions", baseURL, runID, lineID)
	resp := putJSON(t, client, url, token, map[string]any{"adhocDeductions": entries})
	var totals map[string]float64
	if err := json.Unmarshal(resp.Data, &totals); err != nil {
		t.Fatalf("failed to decode totals: %v", err)
	}
	return totals
}

func assertTotals(t *testing.T, totals map[string]float64, adhoc, total, net float64) {
	t.Helper()
	if totals["adhocDeductionsTotal"] != adhoc {
		t.Fatalf("adhoc total = %v, want %v", totals["adhocDeductionsTotal"], adhoc)
	}
	if totals["totalDeductions"] != total {
		t.Fatalf("total deductions = %v, want %v", totals["totalDeductions"], total)
	}
	if totals["netPay"] != net {
		t.Fatalf("net pay = %v, want %v", totals["netPay"], net)
	}
}

func fetchDeductions(t *testing.T, client *http.Client, baseURL, token, runID, lineID string) []map[string]any {
	t.Helper()
	url := fmt.Sprintf("%s/api/v1/payroll/runs/%s/lines/%s/deductions", baseURL, runID, lineID)
	resp := getJSON(t, client, url, token)
	var payload struct {
		AdhocDeductions []map[string]any `json:"adhocDeductions"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode deductions: %v", err)
	}
	return payload.AdhocDeductions
}

func checkDownload(t *testing.T, client *http.Client, url, token, wantType, wantPrefix string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	if got := resp.Header.Get("Content-Type"); got != wantType {
		t.Fatalf("content type = %q, want %q", got, wantType)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "attachment") {
		t.Fatalf("expected attachment disposition, got %q", resp.Header.Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(raw, []byte(wantPrefix)) {
		t.Fatalf("body does not start with %q", wantPrefix)
	}
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body)
}

func putJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body)
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func getJSONStatus(t *testing.T, client *http.Client, url, token string, want int) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
	}
}
