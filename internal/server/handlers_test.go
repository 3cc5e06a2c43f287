package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/Ckr1111/darlybot/internal/shared"
	btesting "github.com/Ckr1111/darlybot/internal/testing"
)

func loadedCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()

	table := catalogue.Table{Columns: []string{"title_number", "title"}}
	for _, r := range [][]string{
		{"0001", "Airwave"},
		{"0002", "Binary World"},
		{"0003", "Binary"},
		{"0004", "Oblivion"},
		{"0005", "바람에게 부탁해"},
	} {
		table.Rows = append(table.Rows, catalogue.Row{"title_number": r[0], "title": r[1]})
	}

	cat := catalogue.New(shared.NewLogger(nil))
	if err := cat.Load(tableSource{table}); err != nil {
		t.Fatalf("failed to load catalogue: %v", err)
	}
	return cat
}

type tableSource struct{ table catalogue.Table }

func (s tableSource) Read() (catalogue.Table, error) { return s.table, nil }

func newBridge(t *testing.T, sender *btesting.MockSender, dryRun bool) *Router {
	t.Helper()

	router := NewRouter()
	router.Use(CORS())
	router.Handler(&SelectHandler{
		Catalogue: loadedCatalogue(t),
		Planner:   nav.NewPlanner(nav.DefaultLayout()),
		Sender:    sender,
		Logger:    shared.NewLogger(nil),
		DryRun:    dryRun,
	})
	router.Handler(&StatusHandler{
		Catalogue: loadedCatalogue(t),
		Sender:    sender,
		DryRun:    dryRun,
	})
	return router
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSelectHandler(t *testing.T) {
	t.Run("select sends the key sequence", func(t *testing.T) {
		sender := &btesting.MockSender{}
		router := newBridge(t, sender, false)

		rec := postJSON(t, router, "/select", `{"title": "Binary"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		if body["performed"] != true {
			t.Error("expected performed true")
		}
		if sender.Focused != 1 || len(sender.Sent) != 1 {
			t.Errorf("expected one focus and one send, got %d/%d", sender.Focused, len(sender.Sent))
		}

		song := body["song"].(map[string]any)
		if song["title"] != "Binary" || song["jumpKey"] != "B" {
			t.Errorf("unexpected song payload: %v", song)
		}
	})

	t.Run("dry run plans without sending", func(t *testing.T) {
		sender := &btesting.MockSender{}
		router := newBridge(t, sender, true)

		rec := postJSON(t, router, "/select", `{"query": "oblivion"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		if body["performed"] != false {
			t.Error("expected performed false in dry-run mode")
		}
		if len(sender.Sent) != 0 {
			t.Error("expected no keys sent in dry-run mode")
		}
	})

	t.Run("plan endpoint never sends", func(t *testing.T) {
		sender := &btesting.MockSender{}
		router := newBridge(t, sender, false)

		rec := postJSON(t, router, "/plan", `{"titleNumber": "0004"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		if body["performed"] != false {
			t.Error("expected performed false on /plan")
		}
		if len(sender.Sent) != 0 {
			t.Error("expected no keys sent on /plan")
		}

		plan := body["plan"].(map[string]any)
		seq, ok := plan["sequence"].([]any)
		if !ok || len(seq) == 0 || seq[0] != "o" {
			t.Errorf("unexpected sequence: %v", plan["sequence"])
		}
	})

	t.Run("unknown song is 404 with suggestions", func(t *testing.T) {
		router := newBridge(t, &btesting.MockSender{}, false)

		rec := postJSON(t, router, "/select", `{"title": "Oblivios"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}

		body := decodeBody(t, rec)
		if body["error"] != "not_found" {
			t.Errorf("unexpected error kind: %v", body["error"])
		}
		if _, ok := body["suggestions"].([]any); !ok {
			t.Errorf("expected suggestions, got %v", body["suggestions"])
		}
	})

	t.Run("ambiguous query is 409 with candidates", func(t *testing.T) {
		router := newBridge(t, &btesting.MockSender{}, false)

		rec := postJSON(t, router, "/select", `{"query": "binar"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}

		body := decodeBody(t, rec)
		if body["error"] != "ambiguous" {
			t.Errorf("unexpected error kind: %v", body["error"])
		}
		candidates, ok := body["candidates"].([]any)
		if !ok || len(candidates) != 2 {
			t.Errorf("expected 2 candidates, got %v", body["candidates"])
		}
	})

	t.Run("empty payload is 400", func(t *testing.T) {
		router := newBridge(t, &btesting.MockSender{}, false)

		rec := postJSON(t, router, "/select", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid JSON is 400", func(t *testing.T) {
		router := newBridge(t, &btesting.MockSender{}, false)

		rec := postJSON(t, router, "/select", `{not json`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("no catalogue is 503", func(t *testing.T) {
		router := NewRouter()
		router.Handler(&SelectHandler{
			Catalogue: catalogue.New(shared.NewLogger(nil)),
			Planner:   nav.NewPlanner(nav.DefaultLayout()),
			Sender:    &btesting.MockSender{},
			Logger:    shared.NewLogger(nil),
		})

		rec := postJSON(t, router, "/select", `{"title": "Oblivion"}`)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestStatusHandler(t *testing.T) {
	t.Run("status reports catalogue shape", func(t *testing.T) {
		router := newBridge(t, &btesting.MockSender{}, true)

		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["songs"] != float64(5) {
			t.Errorf("expected 5 songs, got %v", body["songs"])
		}
		if body["backend"] != "mock" || body["dryRun"] != true {
			t.Errorf("unexpected status payload: %v", body)
		}
	})

	t.Run("songs lists entries in order", func(t *testing.T) {
		router := newBridge(t, &btesting.MockSender{}, false)

		req := httptest.NewRequest(http.MethodGet, "/songs", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		songs := body["songs"].([]any)
		if len(songs) != 5 {
			t.Fatalf("expected 5 songs, got %d", len(songs))
		}
		first := songs[0].(map[string]any)
		if first["title"] != "Airwave" || first["groupKey"] != "A" {
			t.Errorf("unexpected first song: %v", first)
		}
	})

	t.Run("history without a store is 503", func(t *testing.T) {
		router := newBridge(t, &btesting.MockSender{}, false)

		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("CORS answers preflight", func(t *testing.T) {
		router := newBridge(t, &btesting.MockSender{}, false)

		req := httptest.NewRequest(http.MethodOptions, "/select", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected allow-origin header")
		}
	})

	t.Run("rate limit rejects bursts", func(t *testing.T) {
		router := NewRouter()
		router.Use(RateLimit(1, 1))
		router.Handler(&SelectHandler{
			Catalogue: loadedCatalogue(t),
			Planner:   nav.NewPlanner(nav.DefaultLayout()),
			Sender:    &btesting.MockSender{},
			Logger:    shared.NewLogger(nil),
			DryRun:    true,
		})

		first := postJSON(t, router, "/plan", `{"title": "Binary"}`)
		if first.Code != http.StatusOK {
			t.Fatalf("expected first request to pass, got %d", first.Code)
		}

		second := postJSON(t, router, "/plan", `{"title": "Binary"}`)
		if second.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", second.Code)
		}
	})
}
