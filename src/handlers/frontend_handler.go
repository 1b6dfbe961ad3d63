// src/handlers/frontend_handler.go
package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/username/repasses/src/logger"
	"github.com/username/repasses/src/utils"
)

// FrontendHandler serves the static UI from a directory on disk.
type FrontendHandler struct {
	dir string
}

func NewFrontendHandler(dir string) *FrontendHandler {
	return &FrontendHandler{dir: dir}
}

// HandleIndex serves index.html, or a JSON status message when no UI is deployed.
func (h *FrontendHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	indexPath := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		logger.FromContext(r.Context()).Debug("No frontend index found", "path", indexPath)
		utils.SendJSON(w, map[string]string{"message": "Repasses backend is running"}, http.StatusOK)
		return
	}
	http.ServeFile(w, r, indexPath)
}

// StaticHandler serves files under the frontend directory, mounted at prefix.
func (h *FrontendHandler) StaticHandler(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.Dir(h.dir)))
}

// HandleHealth is a liveness probe.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
