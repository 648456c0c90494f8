package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
	"github.com/xenking/giftshop-storefront/internal/domain/review"
	"github.com/xenking/giftshop-storefront/internal/upstream"
)

// errorResponse is the error envelope every endpoint uses.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Debug("Encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Code: status, Message: message})
}

// writeDomainError maps client and upstream errors onto HTTP statuses. A
// backend status code is forwarded as-is so the caller sees what the backend
// said; transport failures become 502.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "product not found")
	case errors.Is(err, upstream.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, review.ErrRatingOutOfRange),
		errors.Is(err, review.ErrBlankSubmission):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			msg := statusErr.Message
			if msg == "" {
				msg = http.StatusText(statusErr.StatusCode)
			}
			writeError(w, r, statusErr.StatusCode, msg)
			return
		}
		zctx.From(r.Context()).Error("Upstream call failed", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "backend unavailable")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
