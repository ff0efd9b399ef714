package api

import (
	"database/sql"
	"net/http"
	"strings"

	"lendhub/internal/models"
)

type itemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"request_id"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *HTTPServer) handleItems(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.Description == nil || strings.TrimSpace(*req.Description) == "" {
			writeError(w, http.StatusBadRequest, "description is required")
			return
		}
		if req.Available == nil {
			writeError(w, http.StatusBadRequest, "available is required")
			return
		}

		item := &models.Item{
			Name:        *req.Name,
			Description: *req.Description,
			Available:   *req.Available,
		}
		if req.RequestID != nil {
			item.RequestID = sql.NullInt64{Int64: *req.RequestID, Valid: true}
		}

		created, err := s.items.Create(r.Context(), owner, item)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case http.MethodGet:
		page, size, err := s.pageParams(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		details, err := s.items.ListByOwner(r.Context(), owner, page, size)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, details)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleItemSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := s.requireActor(w, r); !ok {
		return
	}

	page, size, err := s.pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.items.Search(r.Context(), r.URL.Query().Get("text"), page, size)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleItemByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	id, tail, err := pathID(r.URL.Path, "/items/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if tail == "comment" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		comment, err := s.items.AddComment(r.Context(), actor, id, req.Text)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)
		return
	}
	if tail != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		details, err := s.items.Get(r.Context(), actor, id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, details)

	case http.MethodPatch:
		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		item, err := s.items.Update(r.Context(), actor, id, req.Name, req.Description, req.Available)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
