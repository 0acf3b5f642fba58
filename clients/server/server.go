// Package server exposes the ad generator over HTTP: a JSON generation
// endpoint, the operator text-override forms, a preview endpoint, and static
// serving of the generated output directory.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dubaiimmo/adgen/pkg/config"
	"github.com/dubaiimmo/adgen/pkg/generate"
	"github.com/dubaiimmo/adgen/pkg/overrides"
	"github.com/dubaiimmo/adgen/pkg/property"
)

// sampleProperty feeds the preview endpoint and the post-save recap.
var sampleProperty = property.PropertyData{
	Title:            "Villa luxueuse avec piscine - Dubai Marina",
	Price:            "2,500,000 AED",
	Location:         "Dubai Marina",
	Type:             "Villa",
	Surface:          "650",
	FeaturedImageURL: "",
	Permalink:        "https://dubaiimmo.com/villa-luxueuse-dubai-marina",
}

// Server holds the HTTP surface's collaborators.
type Server struct {
	cfg   config.Config
	log   zerolog.Logger
	orch  *generate.Orchestrator
	store *overrides.Store
}

// New creates the HTTP server façade.
func New(cfg config.Config, log zerolog.Logger, orch *generate.Orchestrator, store *overrides.Store) *Server {
	return &Server{cfg: cfg, log: log, orch: orch, store: store}
}

// Router builds the chi router with logging and request-ID middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.log))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Post("/api/generate", s.handleGenerate)
	r.Get("/api/preview", s.handlePreview)

	r.Get("/api/text-square", s.handleTextForm(property.FormatSquare))
	r.Post("/api/text-square", s.handleTextSave(property.FormatSquare))
	r.Get("/api/text-story", s.handleTextForm(property.FormatStory))
	r.Post("/api/text-story", s.handleTextSave(property.FormatStory))

	r.Get("/generated/*", s.handleGenerated)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Dubai Immo Ads Generator API",
		"version": "1.0.0",
		"endpoints": []string{
			"POST /api/generate - générer les visuels d'une annonce",
			"GET /api/preview?format=square|story - aperçu avec données fictives",
			"GET|POST /api/text-square - configurer le texte du format carré",
			"GET|POST /api/text-story - configurer le texte du format story",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// generateRequest is the JSON body of POST /api/generate. Text overrides are
// optional; absent blocks fall back to the operator-stored values.
type generateRequest struct {
	Property   property.PropertyData `json:"property"`
	Format     property.Format       `json:"format"`
	SquareText *property.TextBlock   `json:"squareText,omitempty"`
	StoryText  *property.TextBlock   `json:"storyText,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "corps JSON invalide"})
		return
	}

	if req.Property.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "le titre du bien est requis"})
		return
	}
	if req.Format == "" {
		req.Format = property.FormatBoth
	}

	opts := generate.Options{
		Format:     req.Format,
		SquareText: req.SquareText,
		StoryText:  req.StoryText,
	}
	if opts.SquareText == nil {
		b := s.store.Get(property.FormatSquare)
		opts.SquareText = &b
	}
	if opts.StoryText == nil {
		b := s.store.Get(property.FormatStory)
		opts.StoryText = &b
	}

	result, err := s.orch.Generate(r.Context(), req.Property, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, generate.ErrInvalidFormat) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
		return
	}

	resp := map[string]any{
		"success":  true,
		"property": req.Property,
		"ads":      result,
	}
	if result.SquareErr != nil {
		resp["squareError"] = result.SquareErr.Error()
	}
	if result.StoryErr != nil {
		resp["storyError"] = result.StoryErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePreview renders the sample listing with the stored operator text and
// returns the PNG directly.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	f := property.Format(r.URL.Query().Get("format"))
	if f == "" {
		f = property.FormatSquare
	}
	if f != property.FormatSquare && f != property.FormatStory {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "format invalide"})
		return
	}

	data, err := s.orch.RenderPreview(r.Context(), sampleProperty, f, s.store.Get(f))
	if err != nil {
		s.log.Error().Err(err).Msg("preview render failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleGenerated serves published files from the output directory.
func (s *Server) handleGenerated(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "*"))
	path := filepath.Join(s.cfg.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
