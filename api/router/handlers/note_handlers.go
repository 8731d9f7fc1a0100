package handlers

import (
	"net/http"
	"strconv"

	"openkeep/core"
	"openkeep/errs"
	"openkeep/models"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

// NoteHandlers serves the /notes resource.
type NoteHandlers struct {
	Service *core.NoteService
}

func boolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.Wrap(errs.InvalidArgument, name+" must be a boolean", err)
	}
	return v, nil
}

// ListNotesHandler lists the notes of one view.
// @Summary List notes
// @Description Archived and trashed select exact partitions; both default to false.
// @Tags Notes
// @Produce json
// @Param archived query bool false "Archived view"
// @Param trashed query bool false "Trash view"
// @Param labelId query string false "Only notes carrying this label"
// @Param q query string false "Substring match on title or content"
// @Success 200 {array} models.Note
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /notes [get]
func (h *NoteHandlers) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	archived, err := boolQuery(r, "archived")
	if err != nil {
		writeError(w, "ListNotesHandler", err)
		return
	}
	trashed, err := boolQuery(r, "trashed")
	if err != nil {
		writeError(w, "ListNotesHandler", err)
		return
	}
	filter := models.NoteFilter{
		Archived: archived,
		Trashed:  trashed,
		LabelID:  r.URL.Query().Get("labelId"),
		Query:    r.URL.Query().Get("q"),
	}

	notes, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, "ListNotesHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateNoteHandler creates a note.
// @Summary Create a note
// @Tags Notes
// @Accept json
// @Produce json
// @Param note body models.CreateNoteInput true "Note to create"
// @Success 201 {object} models.Note
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /notes [post]
func (h *NoteHandlers) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	var in models.CreateNoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, "CreateNoteHandler", err)
		return
	}
	note, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeError(w, "CreateNoteHandler", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// ReorderNotesHandler rewrites note positions from an ordered id list.
// @Summary Reorder notes
// @Description Sets position = index for every listed note, all or nothing.
// @Tags Notes
// @Accept json
// @Produce json
// @Param order body models.ReorderNotesRequest true "Ordered note ids"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /notes [put]
func (h *NoteHandlers) ReorderNotesHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, "ReorderNotesHandler", err)
		return
	}
	if !gjson.ValidBytes(body) {
		writeError(w, "ReorderNotesHandler", errs.New(errs.InvalidArgument, "Invalid request payload"))
		return
	}
	list := gjson.GetBytes(body, "noteIds")
	if !list.IsArray() {
		writeError(w, "ReorderNotesHandler", errs.New(errs.InvalidArgument, "noteIds must be an array"))
		return
	}
	elems := list.Array()
	noteIDs := make([]string, 0, len(elems))
	for _, elem := range elems {
		if elem.Type != gjson.String {
			writeError(w, "ReorderNotesHandler", errs.New(errs.InvalidArgument, "noteIds must contain only strings"))
			return
		}
		noteIDs = append(noteIDs, elem.Str)
	}

	if err := h.Service.Reorder(r.Context(), noteIDs); err != nil {
		writeError(w, "ReorderNotesHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// EmptyTrashHandler permanently deletes every trashed note.
// @Summary Empty the trash
// @Tags Notes
// @Produce json
// @Success 200 {object} models.EmptyTrashResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /notes/trash [delete]
func (h *NoteHandlers) EmptyTrashHandler(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.EmptyTrash(r.Context())
	if err != nil {
		writeError(w, "EmptyTrashHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.EmptyTrashResponse{Success: true, Deleted: n})
}

// GetNoteHandler returns a single note.
// @Summary Get a note
// @Tags Notes
// @Produce json
// @Param noteID path string true "Note ID"
// @Success 200 {object} models.Note
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /notes/{noteID} [get]
func (h *NoteHandlers) GetNoteHandler(w http.ResponseWriter, r *http.Request) {
	note, err := h.Service.Get(r.Context(), chi.URLParam(r, "noteID"))
	if err != nil {
		writeError(w, "GetNoteHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNoteHandler applies a partial update.
// @Summary Update a note
// @Description Only fields present in the body change. checklistItems and labelIds replace the stored sets.
// @Tags Notes
// @Accept json
// @Produce json
// @Param noteID path string true "Note ID"
// @Param note body models.UpdateNoteInput true "Fields to change"
// @Success 200 {object} models.Note
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /notes/{noteID} [patch]
func (h *NoteHandlers) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateNoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, "UpdateNoteHandler", err)
		return
	}
	note, err := h.Service.Update(r.Context(), chi.URLParam(r, "noteID"), in)
	if err != nil {
		writeError(w, "UpdateNoteHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNoteHandler permanently deletes a note.
// @Summary Delete a note
// @Tags Notes
// @Produce json
// @Param noteID path string true "Note ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /notes/{noteID} [delete]
func (h *NoteHandlers) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "noteID")); err != nil {
		writeError(w, "DeleteNoteHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}
