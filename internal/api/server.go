package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lendhub/internal/config"
	"lendhub/internal/domain"
	"lendhub/internal/export"

	"github.com/rs/zerolog"
)

// HTTPServer is the edge of the system: it parses and validates primitives,
// resolves the acting user id from the header and translates business errors
// to status codes. Business state stays in the services.
type HTTPServer struct {
	cfg      *config.Config
	users    domain.UserService
	items    domain.ItemService
	requests domain.RequestService
	bookings domain.BookingService
	store    domain.Store
	report   *export.Report
	limiter  domain.RateLimiter
	logger   *zerolog.Logger
	server   *http.Server
}

func NewHTTPServer(
	cfg *config.Config,
	users domain.UserService,
	items domain.ItemService,
	requests domain.RequestService,
	bookings domain.BookingService,
	store domain.Store,
	report *export.Report,
	limiter domain.RateLimiter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		users:    users,
		items:    items,
		requests: requests,
		bookings: bookings,
		store:    store,
		report:   report,
		limiter:  limiter,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/users", srv.handleUsers)
	mux.HandleFunc("/users/", srv.handleUserByID)
	mux.HandleFunc("/items", srv.handleItems)
	mux.HandleFunc("/items/search", srv.handleItemSearch)
	mux.HandleFunc("/items/", srv.handleItemByID)
	mux.HandleFunc("/requests", srv.handleRequests)
	mux.HandleFunc("/requests/all", srv.handleRequestsAll)
	mux.HandleFunc("/requests/", srv.handleRequestByID)
	mux.HandleFunc("/bookings", srv.handleBookings)
	mux.HandleFunc("/bookings/owner", srv.handleBookingsOwner)
	mux.HandleFunc("/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/reports/bookings", srv.handleBookingsReport)

	conn := newConnLimiter(0, 0)
	handler := loggingMiddleware(logger, conn.wrap(srv.actorRateLimit(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadHeaderSecs) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteSecs) * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the configured handler chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// actorRateLimit applies the per-actor business limit on authenticated routes.
func (s *HTTPServer) actorRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := actorID(r); ok && s.limiter != nil {
			window := time.Duration(s.cfg.Limits.RateLimitWindow) * time.Second
			allowed, err := s.limiter.CheckRateLimit(r.Context(), id, s.cfg.Limits.RateLimitRequests, window)
			if err != nil {
				s.logger.Error().Err(err).Int64("actor_id", id).Msg("rate limit check failed")
			} else if !allowed {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireActor resolves the actor header or writes a 400.
func (s *HTTPServer) requireActor(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := actorID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, HeaderActorID+" header is required")
		return 0, false
	}
	return id, true
}

// pathID parses the numeric id segment following the prefix and returns the
// remaining path, e.g. /items/7/comment -> 7, "comment".
func pathID(path, prefix string) (int64, string, error) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	idPart := rest
	var tail string
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		idPart, tail = rest[:i], rest[i+1:]
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid id %q", idPart)
	}
	return id, tail, nil
}

// pageParams reads from/size and converts the offset to a page index
// (from / size, integer division) the services consume as-is.
func (s *HTTPServer) pageParams(r *http.Request) (page, size int, err error) {
	size = s.cfg.HTTP.DefaultPageSize
	from := 0

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = strconv.Atoi(raw)
		if err != nil || from < 0 {
			return 0, 0, fmt.Errorf("invalid from parameter %q", raw)
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return 0, 0, fmt.Errorf("invalid size parameter %q", raw)
		}
	}
	if size > s.cfg.HTTP.MaxPageSize {
		size = s.cfg.HTTP.MaxPageSize
	}

	return from / size, size, nil
}
