package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/history"
	"github.com/Ckr1111/darlybot/internal/input"
	"github.com/Ckr1111/darlybot/internal/match"
	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/charmbracelet/log"
)

// SelectHandler serves POST /select (resolve, plan, send) and POST /plan
// (resolve and plan only).
type SelectHandler struct {
	Catalogue *catalogue.Catalogue
	Planner   *nav.Planner
	Sender    input.Sender
	Store     *history.Store
	Logger    *log.Logger
	DryRun    bool

	// busy serializes plan execution: two key sequences interleaved into the
	// same game window would navigate nowhere useful.
	busy sync.Mutex
}

func (h *SelectHandler) Routes() []string {
	return []string{"POST /select", "POST /plan", "OPTIONS /select", "OPTIONS /plan"}
}

func (h *SelectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_payload", Detail: "invalid JSON payload"})
			return
		}
	}

	query := match.QueryFromPayload(payload)
	if query.IsZero() {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  "bad_payload",
			Detail: "payload names no song: provide a title, number, or query text",
		})
		return
	}

	snap, ok := h.Catalogue.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "no_catalogue", Detail: "catalogue not loaded"})
		return
	}

	entry, err := match.Resolve(snap, query)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}

	plan, err := h.Planner.Plan(snap, entry)
	if err != nil {
		// A resolved entry without a reachable anchor means the catalogue
		// data is inconsistent, not that the request was bad.
		h.Logger.Error("planning failed", "song", entry.Label(), "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "no_anchor", Detail: err.Error()})
		return
	}

	performed := false
	if r.URL.Path == "/select" && !h.DryRun {
		if !h.busy.TryLock() {
			writeJSON(w, http.StatusConflict, errorBody{
				Error:  "busy",
				Detail: "another key sequence is in flight",
			})
			return
		}
		err := h.execute(r, plan)
		h.busy.Unlock()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "input_failed", Detail: err.Error()})
			return
		}
		performed = true
	}

	h.record(plan, !performed)
	writeJSON(w, http.StatusOK, planResponse(plan, performed))
}

func (h *SelectHandler) execute(r *http.Request, plan nav.Plan) error {
	ctx := r.Context()
	if err := h.Sender.Focus(ctx); err != nil {
		return err
	}
	return h.Sender.Send(ctx, plan.Actions)
}

func (h *SelectHandler) record(plan nav.Plan, dryRun bool) {
	if h.Store == nil {
		return
	}
	if _, err := h.Store.Record(plan, dryRun); err != nil {
		h.Logger.Warn("failed to record selection", "err", err)
	}
}

func (h *SelectHandler) writeResolveError(w http.ResponseWriter, err error) {
	var notFound *match.NotFoundError
	if errors.As(err, &notFound) {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:       "not_found",
			Detail:      notFound.Error(),
			Suggestions: notFound.Suggestions,
		})
		return
	}

	var ambiguous *match.AmbiguousError
	if errors.As(err, &ambiguous) {
		labels := make([]string, len(ambiguous.Candidates))
		for i, c := range ambiguous.Candidates {
			labels[i] = c.Label()
		}
		writeJSON(w, http.StatusConflict, errorBody{
			Error:      "ambiguous",
			Detail:     ambiguous.Error(),
			Candidates: labels,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Detail: err.Error()})
}

// planResponse mirrors what the companion page renders: the matched song,
// the direction/step summary, and the literal key sequence.
func planResponse(plan nav.Plan, performed bool) map[string]any {
	direction := "none"
	if plan.Offset > 0 {
		direction = string(nav.StepDown)
	} else if plan.Offset < 0 {
		direction = string(nav.StepUp)
	}

	steps := plan.Offset
	if steps < 0 {
		steps = -steps
	}

	return map[string]any{
		"status": "ok",
		"song": map[string]any{
			"title":       plan.Entry.Title,
			"titleNumber": plan.Entry.Number,
			"groupKey":    string(plan.Entry.Key),
			"jumpKey":     string(plan.Anchor),
			"offset":      plan.Offset,
		},
		"plan": map[string]any{
			"direction": direction,
			"stepCount": steps,
			"sequence":  plan.Keys(),
			"actions":   plan.Actions,
		},
		"performed": performed,
	}
}

// StatusHandler serves the read-only endpoints: GET /status, GET /songs,
// and GET /history.
type StatusHandler struct {
	Catalogue *catalogue.Catalogue
	Sender    input.Sender
	Store     *history.Store
	DryRun    bool
}

func (h *StatusHandler) Routes() []string {
	return []string{"GET /status", "GET /songs", "GET /history"}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/status":
		h.status(w)
	case "/songs":
		h.songs(w)
	case "/history":
		h.history(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *StatusHandler) status(w http.ResponseWriter) {
	snap, ok := h.Catalogue.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "no_catalogue", Detail: "catalogue not loaded"})
		return
	}

	keys := snap.AnchorKeys()
	groups := make([]string, len(keys))
	for i, k := range keys {
		groups[i] = string(k)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"songs":   snap.Len(),
		"groups":  groups,
		"backend": h.Sender.Name(),
		"dryRun":  h.DryRun,
	})
}

func (h *StatusHandler) songs(w http.ResponseWriter) {
	snap, ok := h.Catalogue.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "no_catalogue", Detail: "catalogue not loaded"})
		return
	}

	type song struct {
		Index       int    `json:"index"`
		TitleNumber string `json:"titleNumber,omitempty"`
		Title       string `json:"title"`
		GroupKey    string `json:"groupKey"`
	}

	entries := snap.Entries()
	songs := make([]song, len(entries))
	for i, e := range entries {
		songs[i] = song{Index: e.Index, TitleNumber: e.Number, Title: e.Title, GroupKey: string(e.Key)}
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "songs": songs})
}

func (h *StatusHandler) history(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "no_history", Detail: "history store not configured"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	selections, err := h.Store.Recent(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "selections": selections})
}
