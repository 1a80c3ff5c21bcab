package payrollhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leopay/internal/domain/payroll"
	"leopay/internal/payslip"
	"leopay/internal/transport/http/api"
	"leopay/internal/transport/http/middleware"
	"leopay/internal/transport/http/shared"
)

type Handler struct {
	Store   *payroll.Store
	Company payslip.Company
}

func NewHandler(db *pgxpool.Pool, company payslip.Company) *Handler {
	return &Handler{Store: payroll.NewStore(db), Company: company}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll/runs", func(r chi.Router) {
		r.Get("/", h.handleListRuns)
		r.Post("/", h.handleCreateRun)
		r.Get("/{runID}", h.handleGetRun)
		r.Get("/{runID}/lines/{lineID}/deductions", h.handleGetDeductions)
		r.Put("/{runID}/lines/{lineID}/deductions", h.handleSaveDeductions)
		r.Get("/{runID}/lines/{lineID}/payslip", h.handleDownloadPayslip)
		r.Get("/{runID}/payslips", h.handleDownloadCombined)
		r.Get("/{runID}/payslips.zip", h.handleDownloadZip)
	})
}

type createRunPayload struct {
	Month       string   `json:"month"`
	IssuedDate  string   `json:"issuedDate"`
	EmployeeIDs []string `json:"employeeIds"`
}

type deductionEntryPayload struct {
	Name   string       `json:"name"`
	Amount shared.Money `json:"amount"`
}

type saveDeductionsPayload struct {
	Deductions []deductionEntryPayload `json:"adhocDeductions"`
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_runs_failed", "failed to list payroll runs", requestID)
		return
	}
	if runs == nil {
		runs = []payroll.Run{}
	}
	api.Success(w, runs, requestID)
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createRunPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("month", payload.Month, "month is required")
	v.Month("month", payload.Month)
	v.Required("issuedDate", payload.IssuedDate, "issued date is required")
	v.Date("issuedDate", payload.IssuedDate)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Store.CreateRun(r.Context(), payload.Month, payload.IssuedDate, payload.EmployeeIDs)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_create_failed", "failed to create payroll run", requestID)
		return
	}
	api.Created(w, result, requestID)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_run_not_found", "payroll run not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to load payroll run", requestID)
		return
	}

	lines, err := h.Store.ListLines(r.Context(), run.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to load payroll lines", requestID)
		return
	}
	if lines == nil {
		lines = []payroll.Line{}
	}

	api.Success(w, map[string]any{"run": run, "lines": lines}, requestID)
}

func (h *Handler) handleGetDeductions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	line, err := h.Store.GetLine(r.Context(), chi.URLParam(r, "runID"), chi.URLParam(r, "lineID"))
	if errors.Is(err, payroll.ErrLineNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_line_not_found", "payroll line not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_line_failed", "failed to load payroll line", requestID)
		return
	}

	deductions, err := h.Store.ListDeductions(r.Context(), line.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_line_failed", "failed to load deductions", requestID)
		return
	}
	if deductions == nil {
		deductions = []payroll.AdhocDeduction{}
	}

	api.Success(w, map[string]any{"line": line, "adhocDeductions": deductions}, requestID)
}

func (h *Handler) handleSaveDeductions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload saveDeductionsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	entries := make([]payroll.Entry, 0, len(payload.Deductions))
	for _, d := range payload.Deductions {
		entries = append(entries, payroll.Entry{Name: d.Name, Amount: d.Amount.Float64()})
	}

	totals, err := h.Store.SaveDeductions(r.Context(), chi.URLParam(r, "runID"), chi.URLParam(r, "lineID"), entries)
	if errors.Is(err, payroll.ErrLineNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_line_not_found", "payroll line not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "deductions_save_failed", "failed to save deductions", requestID)
		return
	}
	api.Success(w, totals, requestID)
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_run_not_found", "payroll run not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payroll run", requestID)
		return
	}

	line, err := h.Store.GetLine(r.Context(), run.ID, chi.URLParam(r, "lineID"))
	if errors.Is(err, payroll.ErrLineNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_line_not_found", "payroll line not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payroll line", requestID)
		return
	}

	deductions, err := h.Store.ListDeductions(r.Context(), line.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load deductions", requestID)
		return
	}

	var buf bytes.Buffer
	pages := []payslip.Page{{Line: line, Deductions: deductions}}
	if err := payslip.Render(&buf, h.Company, run, pages); err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", requestID)
		return
	}
	writeAttachment(w, "application/pdf", payslip.FileName(line.Name, run.Month), buf.Bytes())
}

func (h *Handler) handleDownloadCombined(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	run, pages, ok := h.loadRunPages(r.Context(), w, chi.URLParam(r, "runID"), requestID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := payslip.Render(&buf, h.Company, run, pages); err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslips", requestID)
		return
	}
	writeAttachment(w, "application/pdf", payslip.CombinedFileName(run.Month), buf.Bytes())
}

func (h *Handler) handleDownloadZip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	run, pages, ok := h.loadRunPages(r.Context(), w, chi.URLParam(r, "runID"), requestID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := payslip.RenderZip(&buf, h.Company, run, pages); err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip archive", requestID)
		return
	}
	writeAttachment(w, "application/zip", payslip.ZipFileName(run.Month), buf.Bytes())
}

// loadRunPages fetches a run and one render page per line. On failure it
// writes the error response and returns ok=false.
func (h *Handler) loadRunPages(ctx context.Context, w http.ResponseWriter, runID, requestID string) (payroll.Run, []payslip.Page, bool) {
	run, err := h.Store.GetRun(ctx, runID)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "payroll_run_not_found", "payroll run not found", requestID)
		return payroll.Run{}, nil, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payroll run", requestID)
		return payroll.Run{}, nil, false
	}

	lines, err := h.Store.ListLines(ctx, run.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payroll lines", requestID)
		return payroll.Run{}, nil, false
	}

	pages := make([]payslip.Page, 0, len(lines))
	for _, line := range lines {
		deductions, err := h.Store.ListDeductions(ctx, line.ID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load deductions", requestID)
			return payroll.Run{}, nil, false
		}
		pages = append(pages, payslip.Page{Line: line, Deductions: deductions})
	}
	return run, pages, true
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	_, _ = w.Write(body)
}
