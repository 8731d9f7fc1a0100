package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"openkeep/api"
	"openkeep/core"
	"openkeep/database"
	"openkeep/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "client.db")))
	t.Cleanup(func() { _ = database.CloseDB() })

	srv := httptest.NewServer(api.NewRouter(api.Options{
		Notes:  core.NewNoteService(),
		Labels: core.NewLabelService(),
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", 5*time.Second)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	label, err := c.CreateLabel(ctx, "work")
	require.NoError(t, err)

	note, err := c.CreateNote(ctx, models.CreateNoteInput{Title: models.Ptr("hello"), LabelIDs: []string{label.ID}})
	require.NoError(t, err)
	require.Len(t, note.Labels, 1)

	got, err := c.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)

	notes, err := c.ListNotes(ctx, ListParams{LabelID: label.ID, Query: "hel"})
	require.NoError(t, err)
	require.Len(t, notes, 1)

	_, err = c.UpdateNote(ctx, note.ID, models.UpdateNoteInput{IsTrashed: models.Ptr(true)})
	require.NoError(t, err)
	trashed, err := c.ListNotes(ctx, ListParams{Trashed: true})
	require.NoError(t, err)
	require.Len(t, trashed, 1)

	n, err := c.EmptyTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	renamed, err := c.RenameLabel(ctx, label.ID, "office")
	require.NoError(t, err)
	assert.Equal(t, "office", renamed.Name)
	require.NoError(t, c.DeleteLabel(ctx, label.ID))

	labels, err := c.ListLabels(ctx)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestClientAPIError(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetNote(ctx, "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "note not found", apiErr.Message)

	_, err = c.CreateLabel(ctx, "dup")
	require.NoError(t, err)
	_, err = c.CreateLabel(ctx, "dup")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	err = c.ReorderNotes(ctx, []string{"ghost"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestNoteStoreAgainstServer(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	store := NewNoteStore(c)

	var changes int
	unsubscribe := store.Subscribe(func(NoteState) { changes++ })
	defer unsubscribe()

	a, err := store.CreateNote(ctx, models.CreateNoteInput{Title: models.Ptr("a")})
	require.NoError(t, err)
	b, err := store.CreateNote(ctx, models.CreateNoteInput{Title: models.Ptr("b")})
	require.NoError(t, err)

	st := store.State()
	require.Len(t, st.Notes, 2)
	assert.Equal(t, b.ID, st.Notes[0].ID, "new notes are prepended")
	assert.Positive(t, changes)

	require.NoError(t, store.TogglePin(ctx, a.ID))
	st = store.State()
	for _, n := range st.Notes {
		if n.ID == a.ID {
			assert.True(t, n.IsPinned)
		}
	}

	require.NoError(t, store.ReorderNotes(ctx, []string{a.ID, b.ID}))
	require.NoError(t, store.FetchNotes(ctx, ListParams{}))
	st = store.State()
	require.Len(t, st.Notes, 2)
	assert.Equal(t, a.ID, st.Notes[0].ID)
	assert.False(t, st.Loading)

	require.NoError(t, store.ArchiveNote(ctx, a.ID))
	assert.Len(t, store.State().Notes, 1)

	store.SetSearchQuery("zzz")
	require.NoError(t, store.FetchNotes(ctx, ListParams{}))
	assert.Empty(t, store.State().Notes)

	store.SetSearchQuery("")
	require.NoError(t, store.FetchNotes(ctx, ListParams{Archived: true}))
	require.Len(t, store.State().Notes, 1)
	require.NoError(t, store.UnarchiveNote(ctx, a.ID))
	assert.Empty(t, store.State().Notes)

	require.NoError(t, store.FetchNotes(ctx, ListParams{}))
	require.NoError(t, store.TrashNote(ctx, b.ID))
	require.NoError(t, store.FetchNotes(ctx, ListParams{Trashed: true}))
	require.Len(t, store.State().Notes, 1)
	deleted, err := store.EmptyTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Empty(t, store.State().Notes)
}

// failingNotes answers every mutation with an error.
type failingNotes struct {
	notes []models.Note
}

var errBoom = &APIError{Status: http.StatusInternalServerError, Message: "internal error"}

func (f *failingNotes) ListNotes(context.Context, ListParams) ([]models.Note, error) {
	return f.notes, nil
}

func (f *failingNotes) CreateNote(context.Context, models.CreateNoteInput) (models.Note, error) {
	return models.Note{}, errBoom
}

func (f *failingNotes) UpdateNote(context.Context, string, models.UpdateNoteInput) (models.Note, error) {
	return models.Note{}, errBoom
}

func (f *failingNotes) DeleteNote(context.Context, string) error { return errBoom }

func (f *failingNotes) ReorderNotes(context.Context, []string) error { return errBoom }

func (f *failingNotes) EmptyTrash(context.Context) (int64, error) { return 0, errBoom }

func TestNoteStoreRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	fake := &failingNotes{notes: []models.Note{
		{ID: "1", Title: "one", Position: 0},
		{ID: "2", Title: "two", Position: 1},
	}}
	store := NewNoteStore(fake)
	require.NoError(t, store.FetchNotes(ctx, ListParams{}))
	want := store.State().Notes

	var seen []NoteState
	store.Subscribe(func(st NoteState) { seen = append(seen, st) })

	_, err := store.CreateNote(ctx, models.CreateNoteInput{Title: models.Ptr("three")})
	require.Error(t, err)
	require.GreaterOrEqual(t, len(seen), 2)
	assert.Len(t, seen[0].Notes, 3, "optimistic insert was visible")
	assert.Equal(t, want, store.State().Notes)
	assert.Equal(t, "internal error", store.State().Error)

	steps := []func() error{
		func() error { return store.UpdateNote(ctx, "1", models.UpdateNoteInput{Title: models.Ptr("changed")}) },
		func() error { return store.DeleteNote(ctx, "1") },
		func() error { return store.ArchiveNote(ctx, "1") },
		func() error { return store.TrashNote(ctx, "2") },
		func() error { return store.RestoreNote(ctx, "2") },
		func() error { return store.TogglePin(ctx, "1") },
		func() error { return store.ReorderNotes(ctx, []string{"2", "1"}) },
		func() error { _, err := store.EmptyTrash(ctx); return err },
	}
	for i, step := range steps {
		err := step()
		assert.True(t, errors.Is(err, errBoom), "step %d", i)
		assert.Equal(t, want, store.State().Notes, "step %d", i)
	}

	assert.Error(t, store.TogglePin(ctx, "missing"))
}

func TestLabelStore(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	store := NewLabelStore(c)

	home, err := store.CreateLabel(ctx, "home")
	require.NoError(t, err)
	_, err = store.CreateLabel(ctx, "work")
	require.NoError(t, err)

	_, err = store.CreateLabel(ctx, "home")
	require.Error(t, err)
	st := store.State()
	assert.Len(t, st.Labels, 2, "failed create rolled back")
	assert.Contains(t, st.Error, "already exists")

	require.Error(t, store.RenameLabel(ctx, home.ID, "work"))
	assert.Equal(t, "home", store.State().Labels[0].Name)

	require.NoError(t, store.RenameLabel(ctx, home.ID, "house"))
	assert.Equal(t, "house", store.State().Labels[0].Name)

	require.NoError(t, store.DeleteLabel(ctx, home.ID))
	require.Error(t, store.DeleteLabel(ctx, home.ID))
	require.NoError(t, store.FetchLabels(ctx))
	st = store.State()
	require.Len(t, st.Labels, 1)
	assert.Equal(t, "work", st.Labels[0].Name)
	assert.Empty(t, st.Error)
}

func TestStoresTravelInContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, NoteStoreFrom(ctx))
	assert.Nil(t, LabelStoreFrom(ctx))

	notes := NewNoteStore(&failingNotes{})
	labels := NewLabelStore(New("http://127.0.0.1:0/api", time.Second))
	ctx = WithLabelStore(WithNoteStore(ctx, notes), labels)
	assert.Same(t, notes, NoteStoreFrom(ctx))
	assert.Same(t, labels, LabelStoreFrom(ctx))
}

// gatedNotes holds UpdateNote for note "1" until release is closed and then fails it;
// every other update succeeds.
type gatedNotes struct {
	failingNotes
	entered chan struct{}
	release chan struct{}
}

func (g *gatedNotes) UpdateNote(_ context.Context, id string, in models.UpdateNoteInput) (models.Note, error) {
	if id == "1" {
		close(g.entered)
		<-g.release
		return models.Note{}, errBoom
	}
	for _, n := range g.notes {
		if n.ID == id {
			return applyUpdate(n, in, time.Now().UTC()), nil
		}
	}
	return models.Note{}, errBoom
}

func TestNoteStoreFailedUpdateKeepsConcurrentSuccess(t *testing.T) {
	ctx := context.Background()
	fake := &gatedNotes{
		failingNotes: failingNotes{notes: []models.Note{
			{ID: "1", Title: "one", Position: 0},
			{ID: "2", Title: "two", Position: 1},
		}},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := NewNoteStore(fake)
	require.NoError(t, store.FetchNotes(ctx, ListParams{}))

	done := make(chan error, 1)
	go func() {
		done <- store.UpdateNote(ctx, "1", models.UpdateNoteInput{Title: models.Ptr("A")})
	}()
	<-fake.entered

	require.NoError(t, store.UpdateNote(ctx, "2", models.UpdateNoteInput{Title: models.Ptr("B")}))
	close(fake.release)
	require.ErrorIs(t, <-done, errBoom)

	notes := store.State().Notes
	require.Len(t, notes, 2)
	assert.Equal(t, "one", notes[0].Title)
	assert.Equal(t, "B", notes[1].Title)
	assert.Equal(t, "internal error", store.State().Error)
}

func TestRevertTouchesOnlyChangedEntries(t *testing.T) {
	key := func(l models.Label) string { return l.ID }
	a := models.Label{ID: "a", Name: "a"}
	b := models.Label{ID: "b", Name: "b"}
	c := models.Label{ID: "c", Name: "c"}

	t.Run("removed entry returns to its slot", func(t *testing.T) {
		before := []models.Label{a, b, c}
		after := []models.Label{a, c}
		renamed := models.Label{ID: "c", Name: "renamed"}
		got := revert([]models.Label{a, renamed}, before, after, key)
		assert.Equal(t, []models.Label{a, b, renamed}, got)
	})

	t.Run("added entry is dropped, later additions stay", func(t *testing.T) {
		pending := models.Label{ID: "pending", Name: "p"}
		other := models.Label{ID: "d", Name: "d"}
		got := revert([]models.Label{a, pending, other}, []models.Label{a}, []models.Label{a, pending}, key)
		assert.Equal(t, []models.Label{a, other}, got)
	})

	t.Run("reorder is undone", func(t *testing.T) {
		before := []models.Label{a, b, c}
		after := []models.Label{c, a, b}
		got := revert(after, before, after, key)
		assert.Equal(t, before, got)
	})

	t.Run("removal made by another request stays removed", func(t *testing.T) {
		changed := models.Label{ID: "a", Name: "x"}
		got := revert([]models.Label{changed}, []models.Label{a, b}, []models.Label{changed, b}, key)
		assert.Equal(t, []models.Label{a}, got)
	})
}
