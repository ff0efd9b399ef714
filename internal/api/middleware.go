package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"lendhub/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderActorID carries the acting user's id on every authenticated route.
const HeaderActorID = "X-Sharer-User-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware tags every request with an id and writes an access log
// line with the outcome.
func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")

		metrics.IncHTTP(endpointLabel(r.URL.Path), strconv.Itoa(rec.status))
	})
}

// endpointLabel collapses ids out of paths to keep metric cardinality low.
func endpointLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "/"
	}
	root := "/" + parts[0]
	if len(parts) == 1 {
		return root
	}
	switch parts[1] {
	case "search", "owner", "all", "bookings":
		return root + "/" + parts[1]
	}
	if len(parts) > 2 && parts[2] == "comment" {
		return root + "/{id}/comment"
	}
	return root + "/{id}"
}

// actorID extracts the acting user id from the request header.
func actorID(r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.Header.Get(HeaderActorID))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
