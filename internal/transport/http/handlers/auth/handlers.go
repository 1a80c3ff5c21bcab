package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leopay/internal/domain/auth"
	"leopay/internal/transport/http/api"
	"leopay/internal/transport/http/middleware"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	Store     *auth.Store
	JWTSecret string
}

func NewHandler(db *pgxpool.Pool, jwtSecret string) *Handler {
	return &Handler{Store: auth.NewStore(db), JWTSecret: jwtSecret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	email := strings.TrimSpace(strings.ToLower(payload.Email))
	if email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", requestID)
		return
	}

	user, err := h.Store.FindUserByEmail(r.Context(), email)
	if err != nil {
		// Indistinguishable from a bad password on purpose.
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{UserID: user.ID, Email: user.Email}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", requestID)
		return
	}

	_ = h.Store.UpdateLastLogin(r.Context(), user.ID)

	api.Success(w, map[string]string{"token": token}, requestID)
}

// handleLogout exists so clients have a symmetric endpoint to call; tokens
// are stateless, so dropping the token client-side is the whole logout.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}
