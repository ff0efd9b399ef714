package api

import (
	"net/http"
)

type requestRequest struct {
	Description string `json:"description"`
}

func (s *HTTPServer) handleRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req requestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.requests.Create(r.Context(), actor, req.Description)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case http.MethodGet:
		details, err := s.requests.ListOwn(r.Context(), actor)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, details)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleRequestsAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	page, size, err := s.pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := s.requests.ListOthers(r.Context(), actor, page, size)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *HTTPServer) handleRequestByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	id, tail, err := pathID(r.URL.Path, "/requests/")
	if err != nil || tail != "" {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	details, err := s.requests.Get(r.Context(), actor, id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
