// package web serves the embedded companion page. The page is a single
// static document that talks to the bridge's JSON endpoints, so streamers
// can trigger selections from a browser source without hosting anything.
package web

import (
	"bytes"
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed static
var static embed.FS

const indexPage = "static/index.html"

// PageHandler serves the companion page at the root path.
type PageHandler struct{}

func (h *PageHandler) Routes() []string {
	return []string{"GET /", "GET /static/"}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// FileServer and ServeFileFS both redirect ".../index.html" to the
	// directory; serve the page bytes directly so index requests get 200.
	if r.URL.Path == "/" || strings.HasSuffix(r.URL.Path, "/index.html") {
		page, err := static.ReadFile(indexPage)
		if err != nil {
			http.Error(w, "companion page missing", http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(page))
		return
	}
	http.FileServerFS(static).ServeHTTP(w, r)
}

// FS exposes the embedded assets, mainly for tests.
func FS() fs.FS {
	return static
}
