package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"kakeistat/internal/catalog"
	"kakeistat/internal/httpx"
	"kakeistat/internal/platform/estat"
)

// writeServiceError maps download errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var estatErr *estat.Error
	switch {
	case errors.Is(err, catalog.ErrItemNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found", nil)
	case errors.As(err, &estatErr) && estatErr.Kind == estat.KindConfig:
		log.Printf("estat configuration error: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "CONFIGURATION_ERROR", estatErr.Message, nil)
	case errors.As(err, &estatErr):
		message := estatErr.Message
		if estatErr.Status != 0 {
			message = fmt.Sprintf("%s (status %d)", estatErr.Message, estatErr.Status)
		}
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", message, nil)
	case r.Context().Err() != nil:
		httpx.JSONError(w, r, http.StatusGatewayTimeout, "CANCELLED", "Request cancelled", nil)
	default:
		log.Printf("internal error: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
