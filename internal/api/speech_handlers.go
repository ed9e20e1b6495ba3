package api

import (
	"encoding/json/v2"
	"io"
	"net/http"

	"github.com/tilespeak/tilespeak-server/internal/http/response"
	"github.com/tilespeak/tilespeak-server/internal/service"
)

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	if !s.speechLimiter.Allow(userID) {
		response.Error(w, http.StatusTooManyRequests, "too many synthesis requests")
		return
	}

	var req service.SynthesizeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	audio, err := s.services.Speech.Synthesize(r.Context(), req)
	if err != nil {
		response.HandleError(w, s.logger, err)
		return
	}
	defer audio.Stream.Close()

	w.Header().Set("Content-Type", audio.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, audio.Stream); err != nil {
		s.logger.Error("streaming audio failed", "error", err)
	}
}
