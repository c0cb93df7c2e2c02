package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"molenker/internal/launch"
	"molenker/internal/scan"
)

type scanResponse struct {
	Success        bool                  `json:"success"`
	ScannedPosts   int                   `json:"scanned_posts"`
	NewLaunches    int                   `json:"new_launches"`
	FailedLaunches int                   `json:"failed_launches"`
	Details        []launch.LaunchDetail `json:"details"`
	Timestamp      string                `json:"timestamp"`
}

func (s *Server) handleCronScan(w http.ResponseWriter, r *http.Request) {
	if s.cronSecret != "" {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != s.cronSecret {
			s.writeError(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}
	}

	// A caller hanging up must not abort deploys already in flight.
	summary, err := s.scanner.RunOnce(context.WithoutCancel(r.Context()))
	if errors.Is(err, scan.ErrScanInProgress) {
		s.writeError(w, http.StatusConflict, errorResponse{
			Error: "Scan already in progress", Message: err.Error(),
		})
		return
	}
	if err != nil {
		s.logger.Error("scan failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, errorResponse{
			Error: "Scan failed", Message: err.Error(),
		})
		return
	}

	details := summary.Details
	if details == nil {
		details = []launch.LaunchDetail{}
	}
	s.writeJSON(w, http.StatusOK, scanResponse{
		Success:        true,
		ScannedPosts:   summary.Scanned,
		NewLaunches:    summary.Launched,
		FailedLaunches: summary.Failed,
		Details:        details,
		Timestamp:      s.now().Format(timestampLayout),
	})
}
