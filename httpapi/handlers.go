package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ujesh-sakariya/deepresearch-go/research"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// startRequest is the body of POST /research/api/start.
type startRequest struct {
	Query     string             `json:"query"`
	Mode      string             `json:"mode"`
	Overrides research.Overrides `json:"overrides"`
}

type startResponse struct {
	ID string `json:"id"`
}

type statusResponse struct {
	ID              string  `json:"id"`
	Query           string  `json:"query"`
	Mode            string  `json:"mode"`
	Status          string  `json:"status"`
	Progress        int     `json:"progress"`
	ReportPath      string  `json:"report_path,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("httpapi: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	mode := types.ResearchMode(req.Mode)
	if mode == "" {
		mode = types.ModeQuick
	}
	if mode != types.ModeQuick && mode != types.ModeDetailed {
		writeError(w, http.StatusBadRequest, "mode must be \"quick\" or \"detailed\"")
		return
	}

	settings := s.baseSettings.Apply(req.Overrides)
	id, err := s.service.Start(r.Context(), req.Query, mode, settings)
	switch {
	case errors.Is(err, research.ErrAlreadyRunning):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSON(w, http.StatusAccepted, startResponse{ID: id})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := s.service.Status(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "research not found")
		return
	}

	resp := statusResponse{
		ID:         record.ID,
		Query:      record.Query,
		Mode:       record.Mode,
		Status:     record.Status,
		Progress:   record.Progress,
		ReportPath: record.ReportPath,
	}
	if record.DurationSeconds != nil {
		resp.DurationSeconds = *record.DurationSeconds
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTerminate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := s.service.Status(id); err != nil {
		writeError(w, http.StatusNotFound, "research not found")
		return
	}
	s.service.Terminate(id)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := s.service.Delete(id)
	switch {
	case errors.Is(err, research.ErrInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusNotFound, "research not found")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
