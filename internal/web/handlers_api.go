package web

import (
	"net/http"

	"github.com/JonMunkholm/statdash/internal/core"
)

// OptionsResponse lists the values each dashboard dropdown offers.
type OptionsResponse struct {
	Statistics []string       `json:"statistics"`
	Teams      []string       `json:"teams"`
	Positions  []string       `json:"positions"`
	Limits     []int          `json:"limits"`
	Defaults   core.Selection `json:"defaults"`
	PageSize   int            `json:"page_size"`
}

// handleOptions returns the dropdown options and default selection.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if s.notModified(w, r) {
		return
	}

	writeJSON(w, r, OptionsResponse{
		Statistics: s.store.StatisticColumns(),
		Teams:      s.store.TeamOptions(),
		Positions:  s.store.PositionOptions(),
		Limits:     s.cfg.View.LimitChoices,
		Defaults: core.Selection{
			Statistic: s.defaultStatistic(),
			Limit:     s.cfg.View.DefaultLimit,
			Team:      core.AllValues,
			Position:  core.AllValues,
		},
		PageSize: s.cfg.View.PageSize,
	})
}

// handleView returns the chart view for one selection.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sel, err := s.parseSelection(r.URL.Query())
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	view, err := s.store.ComputeView(sel)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if s.notModified(w, r) {
		return
	}
	writeJSON(w, r, view)
}

// handlePlayers returns one filtered, sorted page of the player table.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	q, _ := s.parsePlayerQuery(r.URL.Query())

	page, err := s.store.QueryPlayers(q)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if s.notModified(w, r) {
		return
	}
	writeJSON(w, r, page)
}
