package web

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSystemGallery serves the PNG files of one output directory.
type FileSystemGallery struct {
	Root string
}

func (g FileSystemGallery) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(g.Root)
	if err != nil {
		if errorsIsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImageName(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

func (g FileSystemGallery) Download(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) error {
	path := filepath.Join(g.Root, name)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() || !isImageName(name) {
		return &fs.PathError{Op: "download", Path: path, Err: fs.ErrNotExist}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	setDownloadHeaders(w, name, "image/png")
	http.ServeContent(w, r, name, info.ModTime(), f)
	return nil
}

func (g FileSystemGallery) Delete(ctx context.Context, name string) error {
	path := filepath.Join(g.Root, name)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() || !isImageName(name) {
		return &fs.PathError{Op: "delete", Path: path, Err: fs.ErrNotExist}
	}
	return os.Remove(path)
}

func setDownloadHeaders(w http.ResponseWriter, filename, contentType string) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	cd := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	w.Header().Set("Content-Disposition", cd)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "image.png"
	}
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	return name
}

// isImageName reports whether name is one of the gallery's PNG files.
// Anything else in the output directory is invisible to the API.
func isImageName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".png")
}

func errorsIsNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}
