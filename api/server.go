/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     zap request logging (with request id)
  3. Metrics:    Prometheus request counters and latency
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the grid front-end

ROUTE GROUPS:
  /api/table, /api/columns  Board payload
  /api/datasets/*           Dataset management
  /api/health               Liveness
  /metrics                  Prometheus exposition
  /*                        Static files (grid front-end)

STATIC FILE SERVING:
  Serves the built front-end from web/dist/ when present, falling back to
  index.html for client-side routing. Without a build, an index page lists
  the API endpoints.

SECURITY NOTE:
  No authentication middleware. Dataset import is open to anyone who can
  reach the port.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/utilisation-board/observability"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	StaticDir      string // default ./web/dist
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(observability.RequestLogger(h.Logger))
	r.Use(h.Metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/table", h.GetTable)
		r.Get("/columns", h.ListColumns)

		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", h.ListDatasets)
			r.Put("/{name}", h.ImportDataset)
			r.Delete("/{name}", h.DeleteDataset)
			r.Get("/{name}/records", h.GetRecords)
			r.Post("/{name}/sample", h.LoadSample)
		})
	})

	r.Handle("/metrics", h.Metrics.Handler())

	mountStatic(r, opts.StaticDir)
	return r
}

// mountStatic serves the grid front-end, or an index page when it is not built.
func mountStatic(r chi.Router, staticDir string) {
	if staticDir == "" {
		staticDir = "./web/dist"
		if _, err := os.Stat(staticDir); os.IsNotExist(err) {
			// Try relative to executable
			exe, _ := os.Executable()
			staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
		}
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
		return
	}

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(indexPage))
	})
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Utilisation Board</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Utilisation Board API</h1>
<p>The grid front-end is not built. Place it under <code>web/dist</code>.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/table">/api/table</a> - Columns and rows of the default dataset</li>
<li><a href="/api/columns">/api/columns</a> - Column descriptors</li>
<li><a href="/api/datasets">/api/datasets</a> - Stored datasets</li>
<li><a href="/metrics">/metrics</a> - Prometheus metrics</li>
</ul>
</body>
</html>`
