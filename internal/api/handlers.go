package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/invoixe/invoixe/internal/auth"
	"github.com/invoixe/invoixe/internal/currency"
	"github.com/invoixe/invoixe/internal/ledger"
	"github.com/invoixe/invoixe/internal/receipt"
)

type Handler struct {
	Auth    auth.Authenticator
	Service *Service
	Log     *slog.Logger
}

// NewRouter wires the HTTP surface. Creation requires a caller
// identity; lookup and verification are public, mirroring the
// QR-code flow where anyone holding a receipt can check it.
func NewRouter(h *Handler) http.Handler {
	if h.Log == nil {
		h.Log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/receipts", h.CreateReceipt)
		r.Get("/receipts/{id}", h.GetReceipt)
		r.Get("/receipts/{id}/qr", h.ReceiptQR)
		r.Get("/verify/{id}", h.Verify)
	})

	return r
}

func (h *Handler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Auth.Authenticate(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	var req CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	rec, err := h.Service.CreateReceipt(r.Context(), claims.UID, req)
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, receipt.ErrMalformedReceipt):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, ledger.ErrDuplicateID):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"receipt":          rec.SealedReceipt,
		"verification_url": h.verificationURL(r, rec.ID),
	})
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Service.GetReceipt(r.Context(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "receipt not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"receipt":          rec.SealedReceipt,
		"currency_symbol":  currency.Symbol(rec.Currency),
		"verification_url": h.verificationURL(r, rec.ID),
	})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Service.VerifyReceipt(r.Context(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "receipt not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"receipt_id":     result.ReceiptID,
		"valid":          result.Valid,
		"hash_valid":     result.HashValid,
		"checksum_valid": result.ChecksumValid,
		"receipt":        result.Receipt,
	})
}

func (h *Handler) verificationURL(r *http.Request, id string) string {
	base := h.Service.BaseURL
	if base == "" && r.Host != "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/verify/" + id
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
