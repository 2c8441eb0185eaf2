// Package receipt implements the tamper-evidence core: protected-field
// normalization, digest and integrity-checksum derivation, receipt
// identifier generation, and the re-derivation protocol used to detect
// tampering after the fact.
//
// The checksum binds the primary hash to the receipt id, item count and
// total. It narrows hash-substitution attacks but is a known limitation
// against a replay that substitutes a different receipt with identical
// id, item count and total; no stronger property is claimed.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/invoixe/invoixe/internal/crypto"
	"github.com/invoixe/invoixe/pkg/types"
)

// Version tags every receipt created by this process.
const Version = "1.0"

// ErrMalformedReceipt reports a required protected field missing at
// canonicalization time. Creation aborts; nothing is persisted.
var ErrMalformedReceipt = errors.New("malformed receipt")

// Normalize returns a copy of r with the protected fields brought to
// canonical form: string fields trimmed, non-finite numbers coerced to
// zero, items sorted by name under root-locale collation. It fails with
// ErrMalformedReceipt when a required field is absent. Normalize is a
// pure function of the protected fields; the currency code and any
// envelope values on the input are ignored.
func Normalize(r types.Receipt) (types.Receipt, error) {
	if err := checkRequired(r); err != nil {
		return types.Receipt{}, err
	}

	out := r
	out.CustomerName = strings.TrimSpace(r.CustomerName)
	out.Total = finiteOrZero(r.Total)

	out.Items = make([]types.Item, len(r.Items))
	for i, it := range r.Items {
		out.Items[i] = types.Item{
			Name:     strings.TrimSpace(it.Name),
			Quantity: finiteOrZero(it.Quantity),
			Price:    finiteOrZero(it.Price),
		}
	}

	// Collators are not safe for concurrent use, so build one per call.
	c := collate.New(language.Und)
	sort.SliceStable(out.Items, func(i, j int) bool {
		return c.CompareString(out.Items[i].Name, out.Items[j].Name) < 0
	})

	return out, nil
}

func checkRequired(r types.Receipt) error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: missing id", ErrMalformedReceipt)
	case r.CustomerName == "":
		return fmt.Errorf("%w: missing customerName", ErrMalformedReceipt)
	case r.Items == nil:
		return fmt.Errorf("%w: missing items", ErrMalformedReceipt)
	case r.Date == "":
		return fmt.Errorf("%w: missing date", ErrMalformedReceipt)
	case r.UserID == "":
		return fmt.Errorf("%w: missing userId", ErrMalformedReceipt)
	case r.CreatedAt == "":
		return fmt.Errorf("%w: missing createdAt", ErrMalformedReceipt)
	case r.Version == "":
		return fmt.Errorf("%w: missing version", ErrMalformedReceipt)
	}
	return nil
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CanonicalBytes normalizes the protected fields of r and encodes them
// as canonical JSON. Same logical content always yields byte-identical
// output regardless of item order or numeric string formatting on the
// way in.
func CanonicalBytes(r types.Receipt) ([]byte, error) {
	n, err := Normalize(r)
	if err != nil {
		return nil, err
	}

	items := make([]any, len(n.Items))
	for i, it := range n.Items {
		items[i] = map[string]any{
			"name":     it.Name,
			"quantity": it.Quantity,
			"price":    it.Price,
		}
	}

	body := map[string]any{
		"id":           n.ID,
		"customerName": n.CustomerName,
		"items":        items,
		"date":         n.Date,
		"total":        n.Total,
		"userId":       n.UserID,
		"createdAt":    n.CreatedAt,
		"version":      n.Version,
		"tamperProof":  n.TamperProof,
	}

	canonical, err := crypto.Canonicalize(body)
	if err != nil {
		return nil, &crypto.DigestError{Err: err}
	}
	return canonical, nil
}

// ComputeHash derives the primary tamper-evidence digest of r: the
// salted SHA-256 of its canonical bytes, as 64 lowercase hex chars.
// This is the value persisted as the receipt's hash.
func ComputeHash(r types.Receipt) (string, error) {
	canonical, err := CanonicalBytes(r)
	if err != nil {
		return "", err
	}
	return crypto.SaltedDigestHex(canonical, crypto.DigestSalt), nil
}

type checksumPayload struct {
	ReceiptHash string          `json:"receiptHash"`
	ReceiptID   string          `json:"receiptId"`
	ItemCount   int             `json:"itemCount"`
	TotalAmount json.RawMessage `json:"totalAmount"`
}

// ComputeIntegrityChecksum derives the secondary digest binding hash to
// the receipt id, item count and total. The payload key order is fixed
// and the digest is unsalted, matching the envelope format of every
// receipt already in storage.
func ComputeIntegrityChecksum(hash, id string, itemCount int, total float64) (string, error) {
	payload, err := json.Marshal(checksumPayload{
		ReceiptHash: hash,
		ReceiptID:   id,
		ItemCount:   itemCount,
		TotalAmount: json.RawMessage(crypto.FormatNumber(total)),
	})
	if err != nil {
		return "", &crypto.DigestError{Err: err}
	}
	return crypto.DigestHex(payload), nil
}

// Seal attaches the integrity envelope to r: primary hash, integrity
// checksum, locked=true. The receipt itself is stored as submitted;
// normalization happens inside hashing on both the creation and the
// verification path, so the envelope is valid for the exact field
// values the caller persists.
func Seal(r types.Receipt) (types.SealedReceipt, error) {
	hash, err := ComputeHash(r)
	if err != nil {
		return types.SealedReceipt{}, err
	}
	checksum, err := ComputeIntegrityChecksum(hash, r.ID, len(r.Items), r.Total)
	if err != nil {
		return types.SealedReceipt{}, err
	}
	return types.SealedReceipt{
		Receipt:           r,
		Hash:              hash,
		IntegrityChecksum: checksum,
		Locked:            true,
	}, nil
}
