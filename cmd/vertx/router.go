package main

import (
	"encoding/json"
	"net/http"

	"go-vertx/server"

	"github.com/go-chi/chi/v5"
)

// newRouter mounts the admin endpoints next to the dispatch tree.
func newRouter(srv *server.Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/__vertx/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(srv.Health())
	})
	r.Method(http.MethodGet, "/__vertx/metrics", srv.Metrics().Handler())

	r.Handle("/*", srv)
	return r
}
