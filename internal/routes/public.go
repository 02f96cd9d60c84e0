package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/capstonehub/backend/internal/handlers/gallery"
	"github.com/capstonehub/backend/internal/handlers/public"
	"github.com/capstonehub/backend/internal/models"
	"github.com/gorilla/mux"
)

// setupPublicRoutes configures the gallery and public settings.
func setupPublicRoutes(api *mux.Router, g *group, publicHandler *public.Handler) {
	api.HandleFunc("/settings/public", publicHandler.GetPublicSettings).Methods(http.MethodGet)

	h := gallery.NewHandler(g.deps.Gallery)
	r := api.PathPrefix("/gallery").Subrouter()
	r.Handle("", g.optional(h.ListItems)).Methods(http.MethodGet)
	r.Handle("", g.authed(h.CreateItem, models.RoleAdmin)).Methods(http.MethodPost)
	r.Handle("/{id}", g.optional(h.GetItem)).Methods(http.MethodGet)
	r.Handle("/{id}", g.authed(h.UpdateItem, models.RoleAdmin)).Methods(http.MethodPut)
	r.Handle("/{id}", g.authed(h.DeleteItem, models.RoleAdmin)).Methods(http.MethodDelete)
}

// spaHandler serves the built frontend, falling back to index.html so
// client-side routes survive a reload.
type spaHandler struct {
	root  string
	files http.Handler
}

func newSPAHandler(root string) *spaHandler {
	return &spaHandler{root: root, files: http.FileServer(http.Dir(root))}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(h.root, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
		return
	}
	h.files.ServeHTTP(w, r)
}
