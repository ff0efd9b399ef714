package api

import (
	"net/http"
	"strconv"
	"time"

	"lendhub/internal/models"
)

type bookingRequest struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req bookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ItemID <= 0 {
			writeError(w, http.StatusBadRequest, "item_id is required")
			return
		}
		if req.Start.IsZero() || req.End.IsZero() {
			writeError(w, http.StatusBadRequest, "start and end are required")
			return
		}

		booking, err := s.bookings.Create(r.Context(), actor, req.ItemID, req.Start, req.End)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, booking)

	case http.MethodGet:
		s.listBookings(w, r, actor, false)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingsOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	s.listBookings(w, r, actor, true)
}

// listBookings serves both list views; the state filter and paging are shared.
func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, actor int64, asOwner bool) {
	state, err := models.ParseBookingState(r.URL.Query().Get("state"))
	if err != nil {
		respondError(w, err)
		return
	}
	page, size, err := s.pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var bookings []*models.Booking
	if asOwner {
		bookings, err = s.bookings.ListForOwner(r.Context(), actor, state, page, size)
	} else {
		bookings, err = s.bookings.ListForBooker(r.Context(), actor, state, page, size)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	id, tail, err := pathID(r.URL.Path, "/bookings/")
	if err != nil || tail != "" {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		booking, err := s.bookings.Get(r.Context(), actor, id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)

	case http.MethodPatch:
		approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "approved parameter must be true or false")
			return
		}
		booking, err := s.bookings.Decide(r.Context(), actor, id, approved)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)

	case http.MethodDelete:
		booking, err := s.bookings.Cancel(r.Context(), actor, id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
