package handler

import (
	"net/http"

	"github.com/iho/txreplay/internal/adapter/http/dto"
	"github.com/iho/txreplay/internal/engine"
)

// StatsService defines the behavior needed by StatsHandler.
type StatsService interface {
	Stats() engine.Stats
}

// StatsHandler reports replay counters.
type StatsHandler struct {
	replay StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(replay StatsService) *StatsHandler {
	return &StatsHandler{replay: replay}
}

// Get returns the replay's processed/applied/rejected counters.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.StatsFromEngine(h.replay.Stats()))
}
