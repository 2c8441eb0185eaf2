package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/invoixe/invoixe/internal/ledger"
)

const qrSize = 256

// ReceiptQR renders a scannable PNG of the verification URL for a
// stored receipt. The rendering layer is purely a consumer of the
// finalized receipt id; it has no bearing on integrity.
func (h *Handler) ReceiptQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.Service.GetReceipt(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "receipt not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	png, err := qrcode.Encode(h.verificationURL(r, id), qrcode.Medium, qrSize)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
