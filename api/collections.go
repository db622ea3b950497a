package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/portfolio/internal/section"
	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository"
)

// CollectionsHandler is the JSON view of the document store.
type CollectionsHandler struct {
	store repository.DocumentStore
}

func NewCollectionsHandler(store repository.DocumentStore) *CollectionsHandler {
	return &CollectionsHandler{store: store}
}

type documentResponse struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

type createResponse struct {
	ID string `json:"id"`
}

// collection reads and checks the {collection} path variable.
func collection(w http.ResponseWriter, r *http.Request) (string, bool) {
	c := mux.Vars(r)["collection"]
	if !models.IsCollection(c) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown collection"})
		return "", false
	}
	return c, true
}

func (h *CollectionsHandler) storeFailure(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	logger.Error("collection "+op, slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage error"})
}

// decodeFields reads the JSON body and normalizes it for collection. It
// writes the error response itself and reports whether to continue.
func decodeFields(w http.ResponseWriter, r *http.Request, collection string) (models.Fields, bool) {
	var raw models.Fields
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return nil, false
	}
	fields, errs, err := section.Normalize(collection, raw)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return nil, false
	}
	if errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Field: errs})
		return nil, false
	}
	return fields, true
}

func toResponse(c string, d models.Document) documentResponse {
	data, _ := section.Decode(c, d)
	return documentResponse{ID: d.ID, Data: data}
}

func (h *CollectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := collection(w, r)
	if !ok {
		return
	}
	docs, err := h.store.List(r.Context(), c)
	if err != nil {
		h.storeFailure(w, "list", err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toResponse(c, d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CollectionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := collection(w, r)
	if !ok {
		return
	}
	doc, err := h.store.Get(r.Context(), c, mux.Vars(r)["id"])
	if err != nil {
		h.storeFailure(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(c, *doc))
}

func (h *CollectionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := collection(w, r)
	if !ok {
		return
	}
	if c == models.CollectionAbout {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "use PUT /v1/about"})
		return
	}
	fields, ok := decodeFields(w, r, c)
	if !ok {
		return
	}
	id, err := h.store.Create(r.Context(), c, fields)
	if err != nil {
		h.storeFailure(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: id})
}

func (h *CollectionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := collection(w, r)
	if !ok {
		return
	}
	fields, ok := decodeFields(w, r, c)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.store.Update(r.Context(), c, id, fields); err != nil {
		h.storeFailure(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{ID: id, Data: fields})
}

func (h *CollectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := collection(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), c, mux.Vars(r)["id"]); err != nil {
		h.storeFailure(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutAbout replaces the singleton about record.
func (h *CollectionsHandler) PutAbout(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r, models.CollectionAbout)
	if !ok {
		return
	}
	if err := h.store.SetSingleton(r.Context(), models.CollectionAbout, models.AboutKey, fields); err != nil {
		h.storeFailure(w, "set", err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{ID: models.AboutKey, Data: fields})
}
