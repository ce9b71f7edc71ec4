package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// spaHandler serves the built front-end and falls back to index.html so
// client-side routes resolve
type spaHandler struct {
	staticDir string
	files     http.Handler
}

// newSPAHandler returns nil when staticDir does not exist
func newSPAHandler(staticDir string) http.Handler {
	if staticDir == "" {
		return nil
	}
	info, err := os.Stat(staticDir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return &spaHandler{
		staticDir: staticDir,
		files:     http.FileServer(http.Dir(staticDir)),
	}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := filepath.Join(h.staticDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}
