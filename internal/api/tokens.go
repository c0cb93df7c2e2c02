package api

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"molenker/internal/domain"
	"molenker/internal/query"
	"molenker/internal/storage"
)

// highlightSize is the length of each view counted by /api/stats.
const highlightSize = 5

// Named shortcut views of /api/tokens.
const (
	filterHot    = "hot"
	filterNew    = "new"
	filterVolume = "volume"
)

type tokenResponse struct {
	Token *domain.TokenLaunch `json:"token"`
}

type filteredResponse struct {
	Tokens []*domain.TokenLaunch `json:"tokens"`
	Filter string                `json:"filter"`
}

type pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type listResponse struct {
	Tokens     []*domain.TokenLaunch `json:"tokens"`
	Stats      *query.Stats          `json:"stats"`
	Pagination pagination            `json:"pagination"`
}

type highlights struct {
	New       int `json:"new"`
	Hot       int `json:"hot"`
	TopVolume int `json:"topVolume"`
}

type statsResponse struct {
	Stats       *query.Stats `json:"stats"`
	Highlights  highlights   `json:"highlights"`
	LastUpdated string       `json:"lastUpdated"`
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	if address := params.Get("address"); address != "" {
		t, err := s.query.ByAddress(ctx, address)
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, errorResponse{Error: "Token not found"})
			return
		}
		if err != nil {
			s.internalError(w, "lookup token by address", err)
			return
		}
		s.writeJSON(w, http.StatusOK, tokenResponse{Token: t})
		return
	}

	limit, err := intParam(params.Get("limit"), query.DefaultLimit)
	if err != nil || limit <= 0 {
		s.writeError(w, http.StatusBadRequest, errorResponse{Error: "Invalid limit"})
		return
	}
	offset, err := intParam(params.Get("offset"), 0)
	if err != nil || offset < 0 {
		s.writeError(w, http.StatusBadRequest, errorResponse{Error: "Invalid offset"})
		return
	}

	if filter := params.Get("filter"); filter != "" {
		var tokens []*domain.TokenLaunch
		switch filter {
		case filterHot:
			tokens, err = s.query.Hot(ctx, limit)
		case filterNew:
			tokens, err = s.query.New(ctx, limit)
		case filterVolume:
			tokens, err = s.query.TopVolume(ctx, limit)
		default:
			s.writeError(w, http.StatusBadRequest, errorResponse{
				Error: "Invalid filter", Message: "filter must be one of hot, new, volume",
			})
			return
		}
		if err != nil {
			s.internalError(w, "list filtered tokens", err)
			return
		}
		s.writeJSON(w, http.StatusOK, filteredResponse{Tokens: tokens, Filter: filter})
		return
	}

	opts := query.ListOptions{Limit: limit, Offset: offset}
	if v := params.Get("source"); v != "" {
		opts.Source = domain.Source(v)
		if !opts.Source.IsValid() {
			s.writeError(w, http.StatusBadRequest, errorResponse{Error: "Invalid source"})
			return
		}
	}
	if v := params.Get("status"); v != "" {
		opts.Status = domain.Status(v)
		if !opts.Status.IsValid() {
			s.writeError(w, http.StatusBadRequest, errorResponse{Error: "Invalid status"})
			return
		}
	}
	if v := params.Get("sort"); v != "" {
		opts.Sort = query.SortKey(v)
		if !opts.Sort.IsValid() {
			s.writeError(w, http.StatusBadRequest, errorResponse{Error: "Invalid sort"})
			return
		}
	}

	page, err := s.query.List(ctx, opts)
	if err != nil {
		s.internalError(w, "list tokens", err)
		return
	}
	stats, err := s.query.Stats(ctx)
	if err != nil {
		s.internalError(w, "compute stats", err)
		return
	}

	s.writeJSON(w, http.StatusOK, listResponse{
		Tokens: page.Tokens,
		Stats:  stats,
		Pagination: pagination{
			Limit:   page.Limit,
			Offset:  page.Offset,
			HasMore: page.HasMore,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.query.Stats(ctx)
	if err != nil {
		s.internalError(w, "compute stats", err)
		return
	}
	newest, err := s.query.New(ctx, highlightSize)
	if err != nil {
		s.internalError(w, "new view", err)
		return
	}
	hot, err := s.query.Hot(ctx, highlightSize)
	if err != nil {
		s.internalError(w, "hot view", err)
		return
	}
	volume, err := s.query.TopVolume(ctx, highlightSize)
	if err != nil {
		s.internalError(w, "volume view", err)
		return
	}

	s.writeJSON(w, http.StatusOK, statsResponse{
		Stats: stats,
		Highlights: highlights{
			New:       len(newest),
			Hot:       len(hot),
			TopVolume: len(volume),
		},
		LastUpdated: s.now().Format(timestampLayout),
	})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
