package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/ordering"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

type CollectionHandler struct {
	service ports.CollectionService
	live    *LiveHandler
}

// NewCollectionHandler serves the content API. live may be nil, in which case
// no websocket route is registered.
func NewCollectionHandler(service ports.CollectionService, live *LiveHandler) *CollectionHandler {
	return &CollectionHandler{service: service, live: live}
}

// Routes mounts under /content.
func (h *CollectionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{type}", h.List)
	r.Post("/{type}", h.Create)
	r.Get("/{type}/next-order", h.NextOrder)
	if h.live != nil {
		r.Get("/{type}/live", h.live.Stream)
	}
	r.Get("/{type}/{id}", h.Get)
	r.Get("/{type}/{id}/edit", h.EditForm)
	r.Put("/{type}/{id}", h.Update)
	r.Delete("/{type}/{id}", h.Delete)

	return r
}

type listResponse struct {
	Type      string          `json:"type"`
	Records   []domain.Record `json:"records"`
	NextOrder int             `json:"next_order"`
}

type nextOrderResponse struct {
	NextOrder int `json:"next_order"`
}

func (h *CollectionHandler) ContentTypes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.ContentTypes())
}

// List returns the records sorted for display together with the order a new
// record would receive.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	contentType := chi.URLParam(r, "type")

	records, err := h.service.ListOrdered(r.Context(), contentType)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, listResponse{
		Type:      contentType,
		Records:   records,
		NextOrder: ordering.NextOrder(records),
	})
}

func (h *CollectionHandler) NextOrder(w http.ResponseWriter, r *http.Request) {
	next, err := h.service.NextOrder(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, nextOrderResponse{NextOrder: next})
}

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, rec)
}

// EditForm returns the record shaped for an editor form, list fields joined
// into comma-separated strings.
func (h *CollectionHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	contentType := chi.URLParam(r, "type")

	ct, err := h.service.ContentType(contentType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rec, err := h.service.Get(r.Context(), contentType, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, ct.EditForm(*rec))
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	contentType := chi.URLParam(r, "type")

	ct, err := h.service.ContentType(contentType)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var draft domain.Draft
	if err := render.DecodeJSON(r.Body, &draft); err != nil {
		decodeError(w, r, err)
		return
	}
	draft.ID = ""

	if err := ct.Validate(draft.Fields, true); err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := h.service.Save(r.Context(), contentType, draft)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, rec)
}

// Update merges the body into the stored record. Fields the body omits keep
// their stored values, so only supplied required fields are checked.
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	contentType := chi.URLParam(r, "type")

	ct, err := h.service.ContentType(contentType)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var draft domain.Draft
	if err := render.DecodeJSON(r.Body, &draft); err != nil {
		decodeError(w, r, err)
		return
	}
	draft.ID = chi.URLParam(r, "id")

	if err := ct.Validate(draft.Fields, false); err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := h.service.Save(r.Context(), contentType, draft)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, rec)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
