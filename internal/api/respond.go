package api

import (
	"errors"
	"net/http"

	"lendhub/internal/database"
	"lendhub/internal/models"
	"lendhub/internal/service"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps business errors to HTTP status codes. Unknown errors are
// internal failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrItemNotFound),
		errors.Is(err, database.ErrBookingNotFound),
		errors.Is(err, database.ErrRequestNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrNotBooker),
		errors.Is(err, service.ErrViewForbidden),
		errors.Is(err, service.ErrEditForbidden),
		errors.Is(err, database.ErrOwnerBooking):
		return http.StatusForbidden

	case errors.Is(err, database.ErrBookingConflict),
		errors.Is(err, database.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, service.ErrAlreadyDecided),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrCommentForbidden),
		errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrEmptyRequest),
		errors.Is(err, database.ErrItemUnavailable),
		errors.Is(err, models.ErrUnknownState):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeError(w, status, message)
}
