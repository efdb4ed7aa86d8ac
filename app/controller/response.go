package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"next-pos/models"
	"next-pos/pos"
	"next-pos/repository"
	"next-pos/service"
)

// ErrorResponse is the body of every non-submission error
// Example response:
// {
//   "error": "please select a warehouse"
// }
type ErrorResponse struct {
	Error string `json:"error"`
}

// Errors the operator can fix by changing the request or the session
var badRequestErrors = []error{
	pos.ErrNoLocation,
	pos.ErrNoCounterparty,
	pos.ErrNoCurrency,
	pos.ErrEmptyCart,
	pos.ErrPaymentIncomplete,
	pos.ErrUnknownPaymentStatus,
	pos.ErrUnknownDisposition,
	pos.ErrPaidAmountLocked,
	pos.ErrNegativePaidAmount,
	pos.ErrPaidAmountExceedsTotal,
	pos.ErrAccountMismatch,
	pos.ErrNegativeQuantity,
	pos.ErrNegativePrice,
	pos.ErrItemNotListed,
	service.ErrUnsupportedImageRef,
	service.ErrUnknownImageSize,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps an engine error to an HTTP status
func statusFor(err error) int {
	var remote *repository.RemoteError
	switch {
	case errors.Is(err, pos.ErrSubmissionInFlight), errors.Is(err, pos.ErrPaymentClosed):
		return http.StatusConflict
	case errors.Is(err, service.ErrTerminalNotFound), errors.Is(err, pos.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrImageSourceDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &remote):
		return http.StatusBadGateway
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err with its mapped status. Submission failures keep
// their structured title, detail and category.
func respondError(w http.ResponseWriter, handler string, err error) {
	var serverErr *models.ServerError
	if errors.As(err, &serverErr) {
		log.Printf("❌ %s: Submission failed [%s]: %v", handler, serverErr.Category, err)
		writeJSON(w, http.StatusUnprocessableEntity, serverErr)
		return
	}

	status := statusFor(err)
	log.Printf("❌ %s: %v (%d)", handler, err, status)
	writeError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, handler string, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("❌ %s: Failed to decode request body: %v", handler, err)
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
