package handler

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"sort"

	"bikeflow/internal/config"
	"bikeflow/internal/overlay"
	"bikeflow/internal/storage"
	"bikeflow/internal/templates"
	"bikeflow/web"
)

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	ctrl    *overlay.Controller
	db      *storage.DB
	cfg     *config.Config
	logger  *slog.Logger
	version string // content hash of static assets, for cache busting
}

// New creates a Handler.
func New(ctrl *overlay.Controller, db *storage.DB, cfg *config.Config, logger *slog.Logger) *Handler {
	v := computeAssetVersion(web.StaticFiles)
	logger.Info("asset version computed", "version", v)
	return &Handler{ctrl: ctrl, db: db, cfg: cfg, logger: logger, version: v}
}

// computeAssetVersion hashes all CSS and JS files in the embedded static
// files to produce a short version string. Changes to any file produce a new version.
func computeAssetVersion(fsys fs.FS) string {
	h := md5.New()
	var paths []string
	fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if ext := path.Ext(p); ext == ".css" || ext == ".js" {
			paths = append(paths, p)
		}
		return nil
	})
	sort.Strings(paths) // deterministic order
	for _, p := range paths {
		f, err := fsys.Open(p)
		if err != nil {
			continue
		}
		io.Copy(h, f)
		f.Close()
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:8]
}

// page creates a templates.Page with the asset version pre-filled.
func (h *Handler) page(title string) templates.Page {
	return templates.Page{
		Title:        title,
		AssetVersion: h.version,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
