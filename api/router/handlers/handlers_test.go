package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"openkeep/core"
	"openkeep/database"
	"openkeep/models"
	"openkeep/version"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "handlers.db")))
	t.Cleanup(func() { _ = database.CloseDB() })

	r := chi.NewRouter()
	RegisterHealthRoutes(r)
	RegisterVersionRoutes(r)
	RegisterNoteRoutes(r, core.NewNoteService())
	RegisterLabelRoutes(r, core.NewLabelService())
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createNote(t *testing.T, h http.Handler, body string) models.Note {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/notes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Note](t, rec)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"`+version.AppVersion+`"}`, rec.Body.String())
}

func TestNoteCRUD(t *testing.T) {
	h := newTestRouter(t)

	note := createNote(t, h, `{"title":"Groceries","type":"checklist","checklistItems":[{"text":"milk"},{"text":"eggs","isChecked":true}]}`)
	assert.Equal(t, "Groceries", note.Title)
	assert.Equal(t, 1, note.Position)
	require.Len(t, note.ChecklistItems, 2)

	rec := do(t, h, http.MethodGet, "/notes/"+note.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, note.ID, decode[models.Note](t, rec).ID)

	rec = do(t, h, http.MethodPatch, "/notes/"+note.ID, `{"isPinned":true,"color":"teal"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Note](t, rec)
	assert.True(t, updated.IsPinned)
	assert.Equal(t, "teal", updated.Color)
	assert.Equal(t, "Groceries", updated.Title)

	rec = do(t, h, http.MethodDelete, "/notes/"+note.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/notes/"+note.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "note not found", decode[models.ErrorResponse](t, rec).Error)
}

func TestCreateNoteEmptyBodyUsesDefaults(t *testing.T) {
	h := newTestRouter(t)
	note := createNote(t, h, "")
	assert.Equal(t, models.NoteTypeNote, note.Type)
	assert.Equal(t, models.DefaultColor, note.Color)
}

func TestMissingNoteAnswers404(t *testing.T) {
	h := newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPatch, "/notes/missing", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/notes/missing", "").Code)
}

func TestCreateNoteValidation(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/notes", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/notes", `{"color":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[models.ErrorResponse](t, rec).Error, "color")

	rec = do(t, h, http.MethodPost, "/notes", `{"labelIds":["ghost"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListNotesViews(t *testing.T) {
	h := newTestRouter(t)

	active := createNote(t, h, `{"title":"active"}`)
	archived := createNote(t, h, `{"title":"archived"}`)
	trashed := createNote(t, h, `{"title":"trashed"}`)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPatch, "/notes/"+archived.ID, `{"isArchived":true}`).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPatch, "/notes/"+trashed.ID, `{"isTrashed":true}`).Code)

	cases := []struct {
		query string
		want  string
	}{
		{"", active.ID},
		{"?archived=true", archived.ID},
		{"?trashed=true", trashed.ID},
		{"?q=ACTIVE", active.ID},
	}
	for _, tc := range cases {
		rec := do(t, h, http.MethodGet, "/notes"+tc.query, "")
		require.Equal(t, http.StatusOK, rec.Code, tc.query)
		notes := decode[[]models.Note](t, rec)
		require.Len(t, notes, 1, tc.query)
		assert.Equal(t, tc.want, notes[0].ID, tc.query)
	}

	rec := do(t, h, http.MethodGet, "/notes?archived=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/notes?q=nothing-matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestReorderNotes(t *testing.T) {
	h := newTestRouter(t)
	a := createNote(t, h, `{"title":"a"}`)
	b := createNote(t, h, `{"title":"b"}`)

	rec := do(t, h, http.MethodPut, "/notes", `{"noteIds":["`+b.ID+`","`+a.ID+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	notes := decode[[]models.Note](t, do(t, h, http.MethodGet, "/notes", ""))
	require.Len(t, notes, 2)
	assert.Equal(t, b.ID, notes[0].ID)
	assert.Equal(t, 0, notes[0].Position)
	assert.Equal(t, a.ID, notes[1].ID)
}

func TestReorderNotesRejectsBadShapes(t *testing.T) {
	h := newTestRouter(t)
	a := createNote(t, h, `{"title":"a"}`)

	for _, body := range []string{
		`{"noteIds":"` + a.ID + `"}`,
		`{}`,
		`{"noteIds":{"0":"x"}}`,
	} {
		rec := do(t, h, http.MethodPut, "/notes", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "noteIds must be an array", decode[models.ErrorResponse](t, rec).Error, body)
	}

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/notes", `{"noteIds":[1,2]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/notes", `not json`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/notes", `{"noteIds":["`+a.ID+`","ghost"]}`).Code)

	got := decode[models.Note](t, do(t, h, http.MethodGet, "/notes/"+a.ID, ""))
	assert.Equal(t, a.Position, got.Position, "rejected reorders write nothing")
}

func TestEmptyTrash(t *testing.T) {
	h := newTestRouter(t)
	n := createNote(t, h, `{}`)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPatch, "/notes/"+n.ID, `{"isTrashed":true}`).Code)

	rec := do(t, h, http.MethodDelete, "/notes/trash", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"deleted":1}`, rec.Body.String())
}

func TestLabels(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/labels", `{"name":" Work "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	work := decode[models.Label](t, rec)
	assert.Equal(t, "Work", work.Name)

	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/labels", `{"name":"Work"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/labels", `{"name":"  "}`).Code)

	rec = do(t, h, http.MethodPost, "/labels", `{"name":"Home"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	home := decode[models.Label](t, rec)

	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPatch, "/labels/"+home.ID, `{"name":"Work"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPatch, "/labels/"+work.ID, `{"name":"Work"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPatch, "/labels/"+work.ID, `{"name":""}`).Code)

	rec = do(t, h, http.MethodGet, "/labels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	labels := decode[[]models.Label](t, rec)
	require.Len(t, labels, 2)
	assert.Equal(t, "Home", labels[0].Name)

	rec = do(t, h, http.MethodGet, "/labels/"+home.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	note := createNote(t, h, `{"labelIds":["`+home.ID+`"]}`)
	require.Len(t, note.Labels, 1)
	assert.Equal(t, "Home", note.Labels[0].Label.Name)

	rec = do(t, h, http.MethodGet, "/notes?labelId="+home.ID, "")
	require.Len(t, decode[[]models.Note](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/labels/"+home.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/labels/"+home.ID, "").Code)

	got := decode[models.Note](t, do(t, h, http.MethodGet, "/notes/"+note.ID, ""))
	assert.Empty(t, got.Labels)
}
