package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rook-computer/neoncity/internal/canvas"
	"github.com/rook-computer/neoncity/internal/render"
	"github.com/rook-computer/neoncity/internal/state"
)

// MaxRenderDimension caps on-demand renders below render.MaxDimension so a
// single request cannot tie up the server for long.
const MaxRenderDimension = 2048

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type statusResponse struct {
	Phase  string           `json:"phase"`
	Render state.RenderInfo `json:"render"`
	URL    string           `json:"url,omitempty"`
}

type filesResponse struct {
	Files []string `json:"files"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/render", func(w http.ResponseWriter, r *http.Request) { handleRender(w, r, deps) })
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) { handleFiles(w, r, deps) })
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) { handleFiles(w, r, deps) })
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	snap := deps.Status.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Phase:  snap.Phase.String(),
		Render: snap.Render,
		URL:    snap.Network.URL,
	})
}

// GET /render?seed=&width=&height=&variant=base|enhanced -> image/png
func handleRender(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	opts, variant, err := parseRenderQuery(r)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	img, err := deps.Render(r.Context(), opts, variant)
	if err != nil {
		if errors.Is(err, render.ErrInvalidArgument) {
			writeAPIError(w, http.StatusBadRequest, "invalid_argument", err.Error())
			return
		}
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}

	// Encode fully before writing headers so a failure can still become a
	// JSON error.
	var buf bytes.Buffer
	if err := canvas.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Neoncity-Seed", strconv.FormatInt(opts.Seed, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func parseRenderQuery(r *http.Request) (render.Options, Variant, error) {
	q := r.URL.Query()
	opts := render.DefaultOptions()

	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return opts, "", fmt.Errorf("seed must be an integer (got %q)", raw)
		}
		opts.Seed = seed
	}
	for _, dim := range []struct {
		key string
		dst *int
	}{{"width", &opts.Width}, {"height", &opts.Height}} {
		raw := q.Get(dim.key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, "", fmt.Errorf("%s must be an integer (got %q)", dim.key, raw)
		}
		if v > MaxRenderDimension {
			return opts, "", fmt.Errorf("%s %d exceeds %d", dim.key, v, MaxRenderDimension)
		}
		*dim.dst = v
	}

	variant := VariantBase
	switch raw := Variant(q.Get("variant")); raw {
	case "", VariantBase:
	case VariantEnhanced:
		variant = VariantEnhanced
	default:
		return opts, "", fmt.Errorf("variant must be %q or %q (got %q)", VariantBase, VariantEnhanced, raw)
	}
	return opts, variant, nil
}

// GET /files -> list of generated images
// GET /files/{name} -> download
// DELETE /files/{name} -> remove
func handleFiles(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	name := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/files"), "/")
	if name == "" {
		if r.Method != http.MethodGet {
			writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
			return
		}
		files, err := deps.Gallery.List(r.Context())
		if err != nil {
			writeAPIError(w, http.StatusInternalServerError, "list_failed", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, filesResponse{Files: files})
		return
	}
	if strings.Contains(name, "/") || name != sanitizeFilename(name) {
		writeAPIError(w, http.StatusBadRequest, "bad_name", "invalid file name")
		return
	}
	if !isImageName(name) {
		writeAPIError(w, http.StatusNotFound, "not_found", "file not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if err := deps.Gallery.Download(r.Context(), w, r, name); err != nil {
			if errorsIsNotExist(err) {
				writeAPIError(w, http.StatusNotFound, "not_found", "file not found")
				return
			}
			writeAPIError(w, http.StatusInternalServerError, "download_failed", err.Error())
		}
	case http.MethodDelete:
		if err := deps.Gallery.Delete(r.Context(), name); err != nil {
			if errorsIsNotExist(err) {
				writeAPIError(w, http.StatusNotFound, "not_found", "file not found")
				return
			}
			writeAPIError(w, http.StatusInternalServerError, "delete_failed", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
