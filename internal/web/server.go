package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/bbernstein/stopfinder/internal/api"
	"github.com/bbernstein/stopfinder/internal/lookup"
	"github.com/bbernstein/stopfinder/internal/models"
)

const (
	maxHeaderBytes = 256 * (1 << 10) // 256 KiB
	contentType    = "Content-Type"
	contentJSON    = "application/json"
	contentHTML    = "text/html; charset=utf-8"
)

//go:embed templates/*.html
var templateFS embed.FS

type Options struct {
	ListenAddr         string
	Timeout            time.Duration
	PredictionsEnabled bool
}

type Server struct {
	srv       *http.Server
	locator   lookup.StopLocator
	reporter  Reporter
	logger    zerolog.Logger
	templates *template.Template
	opts      Options
}

// NewServer prepares the web front end for the stop lookup.
func NewServer(opts Options, locator lookup.StopLocator, reporter Reporter, logger zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = nopReporter{}
	}

	// the handler waits on up to three upstream calls
	to := opts.Timeout*3 + 5*time.Second
	s := &Server{
		srv: &http.Server{
			Addr:              opts.ListenAddr,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 15 * time.Second,
			WriteTimeout:      to,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    maxHeaderBytes,
		},
		locator:   locator,
		reporter:  reporter,
		logger:    logger,
		templates: tmpl,
		opts:      opts,
	}
	s.srv.Handler = s.routes()

	return s, nil
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.Use(middlewareRequestID(), middlewareLogger(s.logger), middlewareRecovery())

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/", s.handleSearch).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/stop", s.handleStopJSON).Methods(http.MethodGet)

	return router
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe blocks until the server stops. http.ErrServerClosed is
// returned after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("listen", s.srv.Addr).Msg("serving http")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.reporter.Flush(2 * time.Second)
	return s.srv.Shutdown(ctx)
}

type page struct {
	Title              string
	Place              string
	Station            string
	Accessibility      string
	Arrival            *models.Arrival
	PredictionsEnabled bool
	Message            string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", page{Title: "MBTA stop finder"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("unreadable form body")
		s.render(w, r, http.StatusBadRequest, "error.html", page{Title: "Error", Message: lookup.MessageFailed})
		return
	}

	result := s.lookup(r, r.PostForm.Get("place_name"))
	if !result.Found() {
		s.render(w, r, api.StatusForOutcome(result.Outcome), "error.html", page{Title: "Error", Message: result.Message()})
		return
	}

	p := page{
		Title:              "Nearest stop",
		Place:              result.Place,
		Station:            result.Stop.Name,
		Accessibility:      result.Stop.Accessibility.Description(),
		PredictionsEnabled: s.opts.PredictionsEnabled,
	}
	if result.Arrival.Available {
		p.Arrival = &result.Arrival
	}
	s.render(w, r, http.StatusOK, "station.html", p)
}

func (s *Server) handleStopJSON(w http.ResponseWriter, r *http.Request) {
	result := s.lookup(r, r.URL.Query().Get("place"))
	if !result.Found() {
		asJSON(r.Context(), w, api.NewErrorResponse(result.Message()), api.StatusForOutcome(result.Outcome))
		return
	}
	asJSON(r.Context(), w, api.NewStopResponse(result), http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	asJSON(r.Context(), w, map[string]string{"status": "OK"}, http.StatusOK)
}

func (s *Server) lookup(r *http.Request, place string) lookup.Result {
	result := s.locator.FindStopNear(r.Context(), place)
	if result.Outcome == lookup.OutcomeFailed && result.Err != nil {
		s.reporter.Report(r, result.Err)
	}
	return result
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, code int, name string, data page) {
	w.Header().Set(contentType, contentHTML)
	w.WriteHeader(code)

	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("unable to render template")
	}
}

func asJSON(ctx context.Context, w http.ResponseWriter, obj interface{}, code int) {
	w.Header().Set(contentType, contentJSON)
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(obj); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("unable to encode response")
	}
}
