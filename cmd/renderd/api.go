package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/imagvfx/renderq"
	"github.com/imagvfx/renderq/node"
)

// apiHandler serves the node's HTTP API.
type apiHandler struct {
	srv *node.Server
}

func newRouter(srv *node.Server) http.Handler {
	h := &apiHandler{srv: srv}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/health", h.handleHealth)
	r.Get("/api/status", h.handleStatus)
	r.Get("/api/settings", h.handleSettings)
	r.Put("/api/settings", h.handleSaveSettings)
	return r
}

func (h *apiHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *apiHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.srv.Status(r.Context(), &node.StatusRequest{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *apiHandler) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.srv.Settings())
}

func (h *apiHandler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	s := renderq.Settings{}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings: "+err.Error())
		return
	}
	err = h.srv.SaveSettings(s)
	if err != nil {
		logger.Errorf("save settings: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Noticef("settings updated: MAYA_PATH=%v QT_PLUGIN_PATH=%v", s.RendererPath, s.PluginPath)
	writeJSON(w, http.StatusOK, s)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
