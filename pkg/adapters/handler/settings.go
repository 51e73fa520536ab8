package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Routes mounts under /settings.
func (h *SettingsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Sections)
	r.Get("/{section}", h.Get)
	r.Put("/{section}", h.Put)

	return r
}

type settingsResponse struct {
	Section  string         `json:"section"`
	Settings map[string]any `json:"settings"`
	// DefaultsOnly is set when stored settings could not be read.
	DefaultsOnly bool `json:"defaults_only,omitempty"`
}

func (h *SettingsHandler) Sections(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Sections())
}

// Get answers with the defaults when the store fails; an editor can still
// work from them.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	settings, err := h.service.Load(r.Context(), section)
	var storeErr *domain.StoreError
	switch {
	case err == nil:
		render.JSON(w, r, settingsResponse{Section: section, Settings: settings})
	case errors.As(err, &storeErr) && settings != nil:
		hlog.FromRequest(r).Warn().Err(err).Str("section", section).Msg("serving default settings")
		render.JSON(w, r, settingsResponse{Section: section, Settings: settings, DefaultsOnly: true})
	default:
		respondError(w, r, err)
	}
}

func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	var fields map[string]any
	if err := render.DecodeJSON(r.Body, &fields); err != nil {
		decodeError(w, r, err)
		return
	}

	settings, err := h.service.Save(r.Context(), section, fields)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, settingsResponse{Section: section, Settings: settings})
}
