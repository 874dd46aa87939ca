// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/okian/kibitz/internal/app"
	"github.com/okian/kibitz/internal/domain/board"
)

// parseResponse mirrors the wire shape of POST /api/parse/pbn.
type parseResponse struct {
	Success  bool        `json:"success"`
	Board    board.Board `json:"board"`
	Warnings []string    `json:"warnings,omitempty"`
}

// handleParsePBN handles POST /api/parse/pbn requests.
func (s *Server) handleParsePBN(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	text, err := readPBN(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.deps.ParsePBN(r.Context(), text)
	if err != nil {
		if errors.Is(err, service.ErrUnparsableHands) {
			writeError(w, http.StatusBadRequest, errors.New("Could not parse hands"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Success:  true,
		Board:    res.Board,
		Warnings: res.Warnings,
	})
}
