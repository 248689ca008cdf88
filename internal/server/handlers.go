package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kincut/kincut/pkg/export"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSinks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sinks": s.matrix.Sinks()})
}

// kinshipResponse is the payload for single pair lookups.
type kinshipResponse struct {
	I       int     `json:"i"`
	J       int     `json:"j"`
	Kinship float64 `json:"kinship"`
}

func (s *Server) handleKinship(w http.ResponseWriter, r *http.Request) {
	i, err := queryInt(r, "i")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	j, err := queryInt(r, "j")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	phi, err := s.matrix.Get(i, j)
	if err != nil {
		writeError(w, httpStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, kinshipResponse{I: i, J: j, Kinship: phi})
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	dense, err := export.DenseFrom(s.matrix)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, dense)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q: not an integer", name)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
