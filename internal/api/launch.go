package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"molenker/internal/launch"
)

const (
	maxLaunchBody   = 64 << 10
	timestampLayout = time.RFC3339
)

type launchRequest struct {
	MoltbookKey string `json:"moltbook_key"`
	PostID      string `json:"post_id"`
}

// launchStatus maps a launch failure code to its HTTP status.
func launchStatus(code launch.Code) int {
	switch code {
	case launch.CodeMissingPostID, launch.CodeMissingCredential, launch.CodeAlreadyProcessed,
		launch.CodeFetchFailed, launch.CodeInvalidFormat:
		return http.StatusBadRequest
	case launch.CodeDeployFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLaunchBody))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errorResponse{
			Error:  "Invalid request body",
			Code:   "invalid_request",
			Errors: []string{"body must be a JSON object with post_id and moltbook_key"},
		})
		return
	}

	resp, err := s.launcher.Launch(r.Context(), launch.Request{
		PostID:     req.PostID,
		Credential: req.MoltbookKey,
	})
	if err != nil {
		var le *launch.Error
		if !errors.As(err, &le) {
			s.logger.Error("launch failed", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, errorResponse{
				Error:  "Internal server error",
				Code:   string(launch.CodeInternal),
				Errors: []string{"An unexpected error occurred"},
			})
			return
		}
		s.writeError(w, launchStatus(le.Code), errorResponse{
			Error:  le.Message,
			Code:   string(le.Code),
			Errors: le.Details,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}
