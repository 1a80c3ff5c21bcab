package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leopay/internal/domain/employee"
	"leopay/internal/transport/http/api"
	"leopay/internal/transport/http/middleware"
	"leopay/internal/transport/http/shared"
)

type Handler struct {
	Store *employee.Store
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{Store: employee.NewStore(db)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleGet)
		r.Put("/{employeeID}", h.handleUpdate)
		r.Delete("/{employeeID}", h.handleDelete)
	})
}

// statutoryPayload mirrors employee.StatutoryAmounts with lenient money
// parsing so a client sending "" or a numeric string does not get a 400.
type statutoryPayload struct {
	EPF   shared.Money `json:"epf"`
	SOCSO shared.Money `json:"socso"`
	EIS   shared.Money `json:"eis"`
	Zakat shared.Money `json:"zakat"`
	PCB   shared.Money `json:"pcb"`
	HRDF  shared.Money `json:"hrdf"`
}

func (p statutoryPayload) amounts() employee.StatutoryAmounts {
	return employee.StatutoryAmounts{
		EPF:   p.EPF.Float64(),
		SOCSO: p.SOCSO.Float64(),
		EIS:   p.EIS.Float64(),
		Zakat: p.Zakat.Float64(),
		PCB:   p.PCB.Float64(),
		HRDF:  p.HRDF.Float64(),
	}
}

type employeePayload struct {
	Name          string           `json:"name"`
	Role          string           `json:"role"`
	Email         string           `json:"email"`
	Nationality   string           `json:"nationality"`
	EmployeeNo    string           `json:"employeeNo"`
	Passport      string           `json:"passport"`
	EPFNo         string           `json:"epfNo"`
	SOCSONo       string           `json:"socsoNo"`
	Gender        string           `json:"gender"`
	BaseSalary    shared.Money     `json:"baseSalary"`
	Deductions    statutoryPayload `json:"deductions"`
	Contributions statutoryPayload `json:"contributions"`
}

func (p employeePayload) toEmployee() employee.Employee {
	return employee.Employee{
		Name:          strings.TrimSpace(p.Name),
		Role:          p.Role,
		Email:         p.Email,
		Nationality:   p.Nationality,
		EmployeeNo:    p.EmployeeNo,
		Passport:      p.Passport,
		EPFNo:         p.EPFNo,
		SOCSONo:       p.SOCSONo,
		Gender:        p.Gender,
		BaseSalary:    p.BaseSalary.Float64(),
		Deductions:    p.Deductions.amounts(),
		Contributions: p.Contributions.amounts(),
	}
}

func (p employeePayload) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Required("name", strings.TrimSpace(p.Name), "name is required")
	v.NonNegative("baseSalary", p.BaseSalary.Float64())
	v.NonNegative("deductions.epf", p.Deductions.EPF.Float64())
	v.NonNegative("deductions.socso", p.Deductions.SOCSO.Float64())
	v.NonNegative("deductions.eis", p.Deductions.EIS.Float64())
	v.NonNegative("deductions.zakat", p.Deductions.Zakat.Float64())
	v.NonNegative("deductions.pcb", p.Deductions.PCB.Float64())
	v.NonNegative("deductions.hrdf", p.Deductions.HRDF.Float64())
	v.NonNegative("contributions.epf", p.Contributions.EPF.Float64())
	v.NonNegative("contributions.socso", p.Contributions.SOCSO.Float64())
	v.NonNegative("contributions.eis", p.Contributions.EIS.Float64())
	v.NonNegative("contributions.zakat", p.Contributions.Zakat.Float64())
	v.NonNegative("contributions.pcb", p.Contributions.PCB.Float64())
	v.NonNegative("contributions.hrdf", p.Contributions.HRDF.Float64())
	return v
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employees, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to list employees", requestID)
		return
	}
	if employees == nil {
		employees = []employee.Employee{}
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.validate().Reject(w, requestID) {
		return
	}

	id, err := h.Store.Create(r.Context(), payload.toEmployee())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	emp, err := h.Store.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.validate().Reject(w, requestID) {
		return
	}

	id := chi.URLParam(r, "employeeID")
	err := h.Store.Update(r.Context(), id, payload.toEmployee())
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", requestID)
		return
	}
	api.Success(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	err := h.Store.Delete(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestID)
}
