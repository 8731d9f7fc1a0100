package handlers

import (
	"net/http"

	"openkeep/core"
	"openkeep/models"

	"github.com/go-chi/chi/v5"
)

// LabelHandlers serves the /labels resource.
type LabelHandlers struct {
	Service *core.LabelService
}

// ListLabelsHandler lists every label by name.
// @Summary List labels
// @Tags Labels
// @Produce json
// @Success 200 {array} models.Label
// @Failure 500 {object} models.ErrorResponse
// @Router /labels [get]
func (h *LabelHandlers) ListLabelsHandler(w http.ResponseWriter, r *http.Request) {
	labels, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, "ListLabelsHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

// CreateLabelHandler creates a label.
// @Summary Create a label
// @Tags Labels
// @Accept json
// @Produce json
// @Param label body models.LabelPayload true "Label name"
// @Success 201 {object} models.Label
// @Failure 400 {object} models.ErrorResponse "Empty name"
// @Failure 409 {object} models.ErrorResponse "Duplicate name"
// @Failure 500 {object} models.ErrorResponse
// @Router /labels [post]
func (h *LabelHandlers) CreateLabelHandler(w http.ResponseWriter, r *http.Request) {
	var payload models.LabelPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, "CreateLabelHandler", err)
		return
	}
	label, err := h.Service.Create(r.Context(), payload.Name)
	if err != nil {
		writeError(w, "CreateLabelHandler", err)
		return
	}
	writeJSON(w, http.StatusCreated, label)
}

// GetLabelHandler returns a single label.
// @Summary Get a label
// @Tags Labels
// @Produce json
// @Param labelID path string true "Label ID"
// @Success 200 {object} models.Label
// @Failure 404 {object} models.ErrorResponse
// @Router /labels/{labelID} [get]
func (h *LabelHandlers) GetLabelHandler(w http.ResponseWriter, r *http.Request) {
	label, err := h.Service.Get(r.Context(), chi.URLParam(r, "labelID"))
	if err != nil {
		writeError(w, "GetLabelHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

// RenameLabelHandler renames a label.
// @Summary Rename a label
// @Tags Labels
// @Accept json
// @Produce json
// @Param labelID path string true "Label ID"
// @Param label body models.LabelPayload true "New name"
// @Success 200 {object} models.Label
// @Failure 400 {object} models.ErrorResponse "Empty name"
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Duplicate name"
// @Router /labels/{labelID} [patch]
func (h *LabelHandlers) RenameLabelHandler(w http.ResponseWriter, r *http.Request) {
	var payload models.LabelPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, "RenameLabelHandler", err)
		return
	}
	label, err := h.Service.Rename(r.Context(), chi.URLParam(r, "labelID"), payload.Name)
	if err != nil {
		writeError(w, "RenameLabelHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

// DeleteLabelHandler deletes a label. Notes carrying it are kept.
// @Summary Delete a label
// @Tags Labels
// @Produce json
// @Param labelID path string true "Label ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /labels/{labelID} [delete]
func (h *LabelHandlers) DeleteLabelHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "labelID")); err != nil {
		writeError(w, "DeleteLabelHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}
