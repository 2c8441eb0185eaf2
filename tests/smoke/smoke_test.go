package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/invoixe/invoixe/internal/api"
	"github.com/invoixe/invoixe/internal/auth"
	"github.com/invoixe/invoixe/internal/ledger"
)

const devToken = "test-token"

// TestSmoke walks the full receipt lifecycle over HTTP: auth gate,
// creation, lookup, verification, tamper detection.
func TestSmoke(t *testing.T) {
	store := ledger.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := api.NewService(store, api.NewMetrics(prometheus.NewRegistry()), logger, "")

	router := api.NewRouter(&api.Handler{
		Auth:    &auth.MultiAuthenticator{DevToken: devToken},
		Service: service,
		Log:     logger,
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	// auth gate sanity check
	res, err := http.Post(srv.URL+"/v1/receipts", "application/json", bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	_ = res.Body.Close()

	receiptID := create(t, srv.URL)
	get(t, srv.URL, receiptID)
	verify(t, srv.URL, receiptID, true)

	tamper(t, store, receiptID)
	verify(t, srv.URL, receiptID, false)
}

func create(t *testing.T, baseURL string) string {
	t.Helper()

	body := bytes.NewBufferString(`{
		"customerName": "Alice",
		"date": "2024-01-01",
		"currency": "USD",
		"items": [{"name": "Widget", "quantity": 2, "price": 9.99}]
	}`)
	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/receipts", body)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+devToken)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	var payload struct {
		Receipt struct {
			ID     string `json:"id"`
			Hash   string `json:"hash"`
			Locked bool   `json:"locked"`
		} `json:"receipt"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Receipt.ID == "" || len(payload.Receipt.Hash) != 64 || !payload.Receipt.Locked {
		t.Fatalf("unexpected create payload: %+v", payload.Receipt)
	}
	return payload.Receipt.ID
}

func get(t *testing.T, baseURL, receiptID string) {
	t.Helper()

	res, err := http.Get(baseURL + "/v1/receipts/" + receiptID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var payload struct {
		CurrencySymbol string `json:"currency_symbol"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.CurrencySymbol != "$" {
		t.Fatalf("expected $ symbol, got %q", payload.CurrencySymbol)
	}
}

func verify(t *testing.T, baseURL, receiptID string, wantValid bool) {
	t.Helper()

	res, err := http.Get(baseURL + "/v1/verify/" + receiptID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var payload struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Valid != wantValid {
		t.Fatalf("valid = %v, want %v", payload.Valid, wantValid)
	}
}

func tamper(t *testing.T, store *ledger.InMemoryStore, receiptID string) {
	t.Helper()

	rec, err := store.GetReceiptByID(context.Background(), receiptID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	rec.Total = 0.01
	store.ReplaceReceipt(rec)
}
