package web

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPageHandler(t *testing.T) {
	handler := &PageHandler{}

	t.Run("root serves the companion page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "darlybot") {
			t.Error("expected page title in body")
		}
		if !strings.Contains(body, "/select") {
			t.Error("expected the page to call the select endpoint")
		}
	})

	t.Run("index path serves without redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/index.html", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "darlybot") {
			t.Error("expected page body for index path")
		}
	})

	t.Run("static directory serves the index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("routes cover root and assets", func(t *testing.T) {
		routes := handler.Routes()
		if len(routes) != 2 || routes[0] != "GET /" {
			t.Errorf("unexpected routes: %v", routes)
		}
	})
}

func TestEmbeddedAssets(t *testing.T) {
	if _, err := fs.Stat(FS(), "static/index.html"); err != nil {
		t.Fatalf("index.html not embedded: %v", err)
	}
}
