package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

type processVoiceRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
}

// processVoice is the conversational entry point: utterance in, spoken
// outcome out. Taxonomy failures are already sentences by the time the
// engine returns; only unexpected faults become a 500 here.
func (s *Server) processVoice(w http.ResponseWriter, r *http.Request) {
	var req processVoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
		w.Header().Set("X-Session-Id", sessionID)
	}

	outcome, err := s.engine.HandleUtterance(r.Context(), sessionID, req.Text)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("process voice failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
