package web

import (
	"io/fs"
	"net/http"

	"github.com/rook-computer/neoncity/internal/assets"
)

type APIV1Config struct {
	Deps APIV1Deps
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg.Deps)))
}

// RegisterUI serves the output directory at '/' and the embedded gallery
// page at /gallery/.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/gallery/", http.StripPrefix("/gallery", fsHandler(assets.WebUI)))
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux:
// - /api/v1/* for the API
// - /gallery/ for the embedded page
// - / for the output directory
func NewDefaultMux(staticDir string, cfg APIV1Config) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterUI(mux, staticDir)
	return mux
}

func fsHandler(fsys fs.FS) http.Handler {
	return cleanPath(http.FileServer(http.FS(fsys)))
}
