package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 15 * time.Second

// Server is the API router. Unknown routes and methods answer with problem+json
// like every other error.
type Server struct{ mux *chi.Mux }

func New() *Server {
	m := chi.NewRouter()

	// Metrics and Logger wrap Timeout so that timed-out requests are still counted.
	m.Use(chimw.RealIP, chimw.RequestID, chimw.Recoverer)
	m.Use(Metrics, Logger(log.Logger))
	m.Use(Timeout(requestTimeout))

	m.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no route for "+r.URL.Path)
	})
	m.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" is not supported here")
	})

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches an extra handler, such as /metrics, at path.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
