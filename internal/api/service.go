package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/invoixe/invoixe/internal/ledger"
	"github.com/invoixe/invoixe/internal/receipt"
	"github.com/invoixe/invoixe/pkg/types"
)

var (
	// ErrInvalidRequest reports client input rejected before sealing.
	ErrInvalidRequest = errors.New("invalid receipt request")

	// ErrVerifyUnavailable means the verification could not be
	// completed (store failure, malformed stored record). Distinct
	// from a negative verdict: the caller must never conflate "could
	// not check" with "checked and it's invalid".
	ErrVerifyUnavailable = errors.New("verification could not be completed")
)

// CreateReceiptRequest is the creation payload. Total is optional; when
// omitted it is filled from the item sum. A client-supplied total is
// trusted as-is and covered by the hash, never recomputed.
type CreateReceiptRequest struct {
	CustomerName string       `json:"customerName"`
	Items        []types.Item `json:"items"`
	Date         string       `json:"date"`
	Currency     string       `json:"currency"`
	Total        *float64     `json:"total"`
}

// VerifyResult is the verification verdict plus the retrieved record
// for display.
type VerifyResult struct {
	ReceiptID     string
	Valid         bool
	HashValid     bool
	ChecksumValid bool
	Receipt       types.SealedReceipt
}

type Service struct {
	Store   ledger.Store
	Metrics *Metrics
	Log     *slog.Logger
	BaseURL string

	Now   func() time.Time
	NewID func() string
}

func NewService(store ledger.Store, metrics *Metrics, log *slog.Logger, baseURL string) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		Store:   store,
		Metrics: metrics,
		Log:     log,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Now:     time.Now,
		NewID:   receipt.NewID,
	}
}

// CreateReceipt builds, seals and persists a receipt for uid. The hash
// and checksum are computed from the exact in-memory record that is
// inserted; any sealing error aborts with nothing persisted.
func (s *Service) CreateReceipt(ctx context.Context, uid string, req CreateReceiptRequest) (ledger.Record, error) {
	if err := validateCreate(req); err != nil {
		return ledger.Record{}, err
	}

	cur := req.Currency
	if cur == "" {
		cur = "USD"
	}

	total := itemSum(req.Items)
	if req.Total != nil {
		total = *req.Total
	}

	rec := types.Receipt{
		ID:           s.NewID(),
		CustomerName: req.CustomerName,
		Items:        req.Items,
		Date:         req.Date,
		Currency:     cur,
		Total:        total,
		UserID:       uid,
		CreatedAt:    s.Now().UTC().Format(time.RFC3339),
		Version:      receipt.Version,
		TamperProof:  true,
	}

	sealed, err := receipt.Seal(rec)
	if err != nil {
		return ledger.Record{}, err
	}

	record := ledger.Record{SealedReceipt: sealed}
	err = s.Store.InsertReceipt(ctx, record)
	if errors.Is(err, ledger.ErrDuplicateID) {
		// Generator collisions are a usability concern; one fresh id
		// is enough at realistic volumes.
		rec.ID = s.NewID()
		if sealed, err = receipt.Seal(rec); err != nil {
			return ledger.Record{}, err
		}
		record = ledger.Record{SealedReceipt: sealed}
		err = s.Store.InsertReceipt(ctx, record)
	}
	if err != nil {
		return ledger.Record{}, err
	}

	s.Metrics.observeCreated()
	s.Log.InfoContext(ctx, "receipt created",
		"receipt_id", sealed.ID, "user_id", uid, "items", len(sealed.Items))
	return record, nil
}

// GetReceipt fetches a stored record by receipt id.
func (s *Service) GetReceipt(ctx context.Context, id string) (ledger.Record, error) {
	return s.Store.GetReceiptByID(ctx, id)
}

// VerifyReceipt fetches the record fresh from the store and re-derives
// both envelope digests from the currently stored field values. A
// mismatch is a verdict; store or digest failures surface as
// ErrVerifyUnavailable.
func (s *Service) VerifyReceipt(ctx context.Context, id string) (VerifyResult, error) {
	rec, err := s.Store.GetReceiptByID(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		s.Metrics.observeVerification("not_found")
		return VerifyResult{}, err
	}
	if err != nil {
		s.Metrics.observeVerification("error")
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrVerifyUnavailable, err)
	}

	report, err := receipt.VerifyFull(rec.SealedReceipt)
	if err != nil {
		s.Metrics.observeVerification("error")
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrVerifyUnavailable, err)
	}

	result := VerifyResult{
		ReceiptID:     id,
		Valid:         report.Valid(),
		HashValid:     report.HashValid,
		ChecksumValid: report.ChecksumValid,
		Receipt:       rec.SealedReceipt,
	}
	if result.Valid {
		s.Metrics.observeVerification("valid")
	} else {
		s.Metrics.observeVerification("invalid")
		s.Log.WarnContext(ctx, "tampering detected",
			"receipt_id", id, "hash_valid", report.HashValid, "checksum_valid", report.ChecksumValid)
	}
	return result, nil
}

func validateCreate(req CreateReceiptRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidRequest)
	}
	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidRequest)
	}
	for i, it := range req.Items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w: item %d: name is required", ErrInvalidRequest, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be positive", ErrInvalidRequest, i)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: item %d: price must be non-negative", ErrInvalidRequest, i)
		}
	}
	if req.Total != nil && *req.Total < 0 {
		return fmt.Errorf("%w: total must be non-negative", ErrInvalidRequest)
	}
	return nil
}

func itemSum(items []types.Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Quantity * it.Price
	}
	return total
}
