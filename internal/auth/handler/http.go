package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"storegate/internal/auth/service"
	"storegate/internal/telemetry"
)

// AuthAPI is the part of the auth service the HTTP layer depends on.
type AuthAPI interface {
	Signup(ctx context.Context, reg service.Registration, device service.DeviceContext, storeID string) (*service.TokenPair, error)
	Login(ctx context.Context, creds service.Credentials, device service.DeviceContext) (*service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyEmail(ctx context.Context, verificationToken string) error
}

// AuthHandler exposes the auth service over HTTP.
type AuthHandler struct {
	svc      AuthAPI
	audit    telemetry.AuditSink
	requests metric.Int64Counter
}

func NewAuthHandler(svc AuthAPI, audit telemetry.AuditSink) *AuthHandler {
	if audit == nil {
		audit = telemetry.NopSink{}
	}
	meter := otel.Meter("storegate/auth")
	requests, err := meter.Int64Counter("auth.requests",
		metric.WithDescription("Auth operations by outcome"))
	if err != nil {
		log.Printf("auth handler: register counter: %v", err)
	}
	return &AuthHandler{svc: svc, audit: audit, requests: requests}
}

// Mount registers the auth routes on r.
func (h *AuthHandler) Mount(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
		r.Post("/refresh", h.refresh)
		r.Post("/logout", h.logout)
		r.Post("/verify-email", h.verifyEmail)
	})
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type tokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "signup", http.StatusBadRequest, errors.New("malformed request body"))
		return
	}
	storeID := r.Header.Get("X-Store-ID")
	pair, err := h.svc.Signup(r.Context(), service.Registration{Email: req.Email, Password: req.Password}, deviceFromRequest(r), storeID)
	if err != nil {
		h.writeServiceError(w, r, "signup", err)
		return
	}
	h.observe(r, "signup", "ok")
	writeJSON(w, http.StatusCreated, toTokenPairResponse(pair))
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "login", http.StatusBadRequest, errors.New("malformed request body"))
		return
	}
	pair, err := h.svc.Login(r.Context(), service.Credentials{Email: req.Email, Password: req.Password}, deviceFromRequest(r))
	if err != nil {
		h.writeServiceError(w, r, "login", err)
		return
	}
	h.observe(r, "login", "ok")
	writeJSON(w, http.StatusOK, toTokenPairResponse(pair))
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "refresh", http.StatusBadRequest, errors.New("malformed request body"))
		return
	}
	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeServiceError(w, r, "refresh", err)
		return
	}
	h.observe(r, "refresh", "ok")
	writeJSON(w, http.StatusOK, toTokenPairResponse(pair))
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "logout", http.StatusBadRequest, errors.New("malformed request body"))
		return
	}
	if err := h.svc.Logout(r.Context(), req.RefreshToken); err != nil {
		h.writeServiceError(w, r, "logout", err)
		return
	}
	h.observe(r, "logout", "ok")
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "verify_email", http.StatusBadRequest, errors.New("malformed request body"))
		return
	}
	if err := h.svc.VerifyEmail(r.Context(), req.Token); err != nil {
		h.writeServiceError(w, r, "verify_email", err)
		return
	}
	h.observe(r, "verify_email", "ok")
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError translates service sentinels to HTTP status codes. Anything
// unrecognized is a 500 with a generic body; the cause goes to the log only.
func (h *AuthHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrInvalidVerification),
		errors.Is(err, service.ErrSessionRevoked):
		h.writeError(w, r, op, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, r, op, http.StatusNotFound, err)
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		h.writeError(w, r, op, http.StatusConflict, err)
	default:
		log.Printf("auth %s: %v", op, err)
		h.observe(r, op, "error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, op string, status int, err error) {
	h.observe(r, op, "denied")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// observe counts the outcome and writes one audit record for the request.
func (h *AuthHandler) observe(r *http.Request, op, outcome string) {
	ctx := r.Context()
	if h.requests != nil {
		h.requests.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("outcome", outcome),
			))
	}
	h.audit.Record(ctx, &telemetry.AuditRecord{
		Operation: op,
		Outcome:   outcome,
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
		At:        time.Now().UTC(),
	})
}

func toTokenPairResponse(pair *service.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:      pair.Access.Value,
		AccessExpiresAt:  pair.Access.ExpiresAt,
		RefreshToken:     pair.Refresh.Value,
		RefreshExpiresAt: pair.Refresh.ExpiresAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("auth handler: write response: %v", err)
	}
}

// deviceFromRequest builds the device context from the user agent and the
// client address. X-Forwarded-For wins over RemoteAddr when a proxy set it.
func deviceFromRequest(r *http.Request) service.DeviceContext {
	return service.DeviceContext{
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
