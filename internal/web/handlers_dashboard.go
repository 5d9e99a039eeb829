package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/statdash/internal/core"
	"github.com/JonMunkholm/statdash/internal/logging"
	"github.com/JonMunkholm/statdash/internal/web/templates"
)

// handleDashboard renders the dashboard page for the selection in the URL.
// An invalid table filter is shown inline above an unfiltered table so the
// chart stays usable.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	sel, err := s.parseSelection(query)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	view, err := s.store.ComputeView(sel)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	pq, rawFilters := s.parsePlayerQuery(query)
	page, err := s.store.QueryPlayers(pq)
	var tableErr *core.UserMessage
	if err != nil {
		logging.FromContext(ctx).Warn("player table query rejected", "error", err)
		msg := core.MapError(err)
		tableErr = &msg
		page, err = s.store.QueryPlayers(core.PlayerQuery{Page: 1, PageSize: s.cfg.View.PageSize})
		if err != nil {
			respondError(w, r, err, http.StatusInternalServerError)
			return
		}
	}

	base := url.Values{}
	base.Set("stat", sel.Statistic)
	base.Set("limit", strconv.Itoa(sel.Limit))
	base.Set("team", sel.Team)
	base.Set("position", sel.Position)

	data := templates.DashboardData{
		Title:       s.cfg.View.Title,
		Selection:   sel,
		Statistics:  s.store.StatisticColumns(),
		Teams:       s.store.TeamOptions(),
		Positions:   s.store.PositionOptions(),
		Limits:      s.cfg.View.LimitChoices,
		View:        view,
		Table:       templates.PlayerTableData{Page: page, Filters: rawFilters, Base: base},
		TableError:  tableErr,
		TableParams: tableParams(query),
		LiveURL:     "/ws/view",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(data).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render dashboard", "error", err)
	}
}

// tableParams returns the player table parameters of a dashboard URL.
func tableParams(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		if k == "sort" || k == "dir" || k == "page" || strings.HasPrefix(k, "filter[") {
			out[k] = vs
		}
	}
	return out
}

// HealthResponse reports the loaded dataset and live session usage.
type HealthResponse struct {
	Status       string               `json:"status"`
	LoadID       string               `json:"load_id"`
	SeasonRows   int                  `json:"season_rows"`
	PlayerRows   int                  `json:"player_rows"`
	Statistics   int                  `json:"statistics"`
	LiveSessions SessionLimiterStatus `json:"live_sessions"`
}

// handleHealth returns service health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, HealthResponse{
		Status:       "ok",
		LoadID:       s.store.LoadID(),
		SeasonRows:   s.store.SeasonCount(),
		PlayerRows:   s.store.PlayerCount(),
		Statistics:   len(s.store.StatisticColumns()),
		LiveSessions: s.sessions.Status(),
	})
}
