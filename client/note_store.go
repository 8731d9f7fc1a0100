package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"openkeep/models"

	"github.com/google/uuid"
)

// NoteAPI is the subset of Client the note store needs.
type NoteAPI interface {
	ListNotes(ctx context.Context, p ListParams) ([]models.Note, error)
	CreateNote(ctx context.Context, in models.CreateNoteInput) (models.Note, error)
	UpdateNote(ctx context.Context, id string, in models.UpdateNoteInput) (models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ReorderNotes(ctx context.Context, noteIDs []string) error
	EmptyTrash(ctx context.Context) (int64, error)
}

// NoteState is a point-in-time copy of the store.
type NoteState struct {
	Notes       []models.Note
	Loading     bool
	Error       string
	SearchQuery string
}

// NoteStore mirrors one notes view. Mutations show up locally before the server
// answers; a failed request reverts the notes it touched and records the error.
type NoteStore struct {
	api NoteAPI

	mu     sync.Mutex
	state  NoteState
	subs   map[int]func(NoteState)
	nextID int
}

func NewNoteStore(api NoteAPI) *NoteStore {
	return &NoteStore{api: api, subs: map[int]func(NoteState){}}
}

func copyNotes(notes []models.Note) []models.Note {
	if notes == nil {
		return nil
	}
	out := make([]models.Note, len(notes))
	copy(out, notes)
	return out
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (s *NoteStore) snapshotLocked() NoteState {
	st := s.state
	st.Notes = copyNotes(s.state.Notes)
	return st
}

// State returns a copy of the current state.
func (s *NoteStore) State() NoteState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to run after every state change. The returned func removes it.
func (s *NoteStore) Subscribe(fn func(NoteState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// set applies fn under the lock and then notifies subscribers with the result.
func (s *NoteStore) set(fn func(st *NoteState)) {
	s.mu.Lock()
	fn(&s.state)
	st := s.snapshotLocked()
	subs := make([]func(NoteState), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub(st)
	}
}

func noteKey(n models.Note) string { return n.ID }

// mutate applies an optimistic change, runs call and, when call fails, reverts the
// notes that change touched. The returned error is call's.
func (s *NoteStore) mutate(optimistic func(notes []models.Note) []models.Note, call func() error) error {
	var before, after []models.Note
	s.set(func(st *NoteState) {
		before = copyNotes(st.Notes)
		st.Notes = optimistic(copyNotes(st.Notes))
		after = copyNotes(st.Notes)
	})
	if err := call(); err != nil {
		s.set(func(st *NoteState) {
			st.Notes = revert(st.Notes, before, after, noteKey)
			st.Error = errorMessage(err)
		})
		return err
	}
	return nil
}

func (s *NoteStore) SetSearchQuery(q string) {
	s.set(func(st *NoteState) { st.SearchQuery = q })
}

// FetchNotes replaces the local notes with the view selected by p. The current search
// query is applied on top of p.
func (s *NoteStore) FetchNotes(ctx context.Context, p ListParams) error {
	s.set(func(st *NoteState) {
		st.Loading = true
		st.Error = ""
		p.Query = st.SearchQuery
	})
	notes, err := s.api.ListNotes(ctx, p)
	s.set(func(st *NoteState) {
		st.Loading = false
		if err != nil {
			st.Error = errorMessage(err)
			return
		}
		if notes == nil {
			notes = []models.Note{}
		}
		st.Notes = notes
	})
	return err
}

func replaceNote(notes []models.Note, id string, n models.Note) []models.Note {
	for i := range notes {
		if notes[i].ID == id {
			notes[i] = n
		}
	}
	return notes
}

func removeNote(notes []models.Note, id string) []models.Note {
	out := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

// provisionalNote is what CreateNote shows until the server answers.
func provisionalNote(in models.CreateNoteInput, now time.Time) models.Note {
	n := models.Note{
		ID:        "pending-" + uuid.New().String(),
		Type:      models.NoteTypeNote,
		Color:     models.DefaultColor,
		CreatedAt: now,
		UpdatedAt: now,
		Labels:    []models.NoteLabel{},
	}
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.Type != nil {
		n.Type = *in.Type
	}
	if in.Color != nil {
		n.Color = *in.Color
	}
	if in.IsPinned != nil {
		n.IsPinned = *in.IsPinned
	}
	n.ChecklistItems = make([]models.ChecklistItem, 0, len(in.ChecklistItems))
	for i, it := range in.ChecklistItems {
		item := models.ChecklistItem{Text: it.Text, Position: i, NoteID: n.ID}
		if it.IsChecked != nil {
			item.IsChecked = *it.IsChecked
		}
		n.ChecklistItems = append(n.ChecklistItems, item)
	}
	for _, id := range in.LabelIDs {
		n.Labels = append(n.Labels, models.NoteLabel{NoteID: n.ID, LabelID: id})
	}
	return n
}

// CreateNote prepends a provisional note and swaps in the server's copy on success.
func (s *NoteStore) CreateNote(ctx context.Context, in models.CreateNoteInput) (models.Note, error) {
	pending := provisionalNote(in, time.Now().UTC())
	var created models.Note
	err := s.mutate(
		func(notes []models.Note) []models.Note {
			return append([]models.Note{pending}, notes...)
		},
		func() error {
			var err error
			created, err = s.api.CreateNote(ctx, in)
			return err
		},
	)
	if err != nil {
		return models.Note{}, err
	}
	s.set(func(st *NoteState) { st.Notes = replaceNote(st.Notes, pending.ID, created) })
	return created, nil
}

// applyUpdate mirrors the server's partial update rules on a local copy.
func applyUpdate(n models.Note, in models.UpdateNoteInput, now time.Time) models.Note {
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.Type != nil {
		n.Type = *in.Type
	}
	if in.Color != nil {
		n.Color = *in.Color
	}
	if in.IsPinned != nil {
		n.IsPinned = *in.IsPinned
	}
	if in.IsArchived != nil {
		n.IsArchived = *in.IsArchived
	}
	if in.Position != nil {
		n.Position = *in.Position
	}
	if in.IsTrashed != nil {
		n.IsTrashed = *in.IsTrashed
		n.TrashedAt = nil
		if n.IsTrashed {
			t := now
			n.TrashedAt = &t
		}
	}
	if in.ChecklistItems != nil {
		items := make([]models.ChecklistItem, 0, len(*in.ChecklistItems))
		for i, it := range *in.ChecklistItems {
			item := models.ChecklistItem{ID: it.ID, Text: it.Text, Position: i, NoteID: n.ID}
			if it.IsChecked != nil {
				item.IsChecked = *it.IsChecked
			}
			items = append(items, item)
		}
		n.ChecklistItems = items
	}
	if in.LabelIDs != nil {
		known := make(map[string]models.NoteLabel, len(n.Labels))
		for _, l := range n.Labels {
			known[l.LabelID] = l
		}
		labels := make([]models.NoteLabel, 0, len(*in.LabelIDs))
		for _, id := range *in.LabelIDs {
			l, ok := known[id]
			if !ok {
				l = models.NoteLabel{NoteID: n.ID, LabelID: id}
			}
			labels = append(labels, l)
		}
		n.Labels = labels
	}
	n.UpdatedAt = now
	return n
}

// UpdateNote applies in locally, then reconciles with the note the server returns.
func (s *NoteStore) UpdateNote(ctx context.Context, id string, in models.UpdateNoteInput) error {
	var updated models.Note
	now := time.Now().UTC()
	err := s.mutate(
		func(notes []models.Note) []models.Note {
			for i := range notes {
				if notes[i].ID == id {
					notes[i] = applyUpdate(notes[i], in, now)
				}
			}
			return notes
		},
		func() error {
			var err error
			updated, err = s.api.UpdateNote(ctx, id, in)
			return err
		},
	)
	if err != nil {
		return err
	}
	s.set(func(st *NoteState) { st.Notes = replaceNote(st.Notes, id, updated) })
	return nil
}

func (s *NoteStore) DeleteNote(ctx context.Context, id string) error {
	return s.mutate(
		func(notes []models.Note) []models.Note { return removeNote(notes, id) },
		func() error { return s.api.DeleteNote(ctx, id) },
	)
}

// moveOut updates a single flag and drops the note from the current view.
func (s *NoteStore) moveOut(ctx context.Context, id string, in models.UpdateNoteInput) error {
	return s.mutate(
		func(notes []models.Note) []models.Note { return removeNote(notes, id) },
		func() error {
			_, err := s.api.UpdateNote(ctx, id, in)
			return err
		},
	)
}

func (s *NoteStore) ArchiveNote(ctx context.Context, id string) error {
	return s.moveOut(ctx, id, models.UpdateNoteInput{IsArchived: models.Ptr(true)})
}

func (s *NoteStore) UnarchiveNote(ctx context.Context, id string) error {
	return s.moveOut(ctx, id, models.UpdateNoteInput{IsArchived: models.Ptr(false)})
}

func (s *NoteStore) TrashNote(ctx context.Context, id string) error {
	return s.moveOut(ctx, id, models.UpdateNoteInput{IsTrashed: models.Ptr(true)})
}

func (s *NoteStore) RestoreNote(ctx context.Context, id string) error {
	return s.moveOut(ctx, id, models.UpdateNoteInput{IsTrashed: models.Ptr(false)})
}

// TogglePin flips isPinned on a note of the current view.
func (s *NoteStore) TogglePin(ctx context.Context, id string) error {
	st := s.State()
	for _, n := range st.Notes {
		if n.ID == id {
			return s.UpdateNote(ctx, id, models.UpdateNoteInput{IsPinned: models.Ptr(!n.IsPinned)})
		}
	}
	return fmt.Errorf("note %s is not in the current view", id)
}

// ReorderNotes moves the listed notes to the front in the given order with positions
// 0..n-1, then asks the server to do the same.
func (s *NoteStore) ReorderNotes(ctx context.Context, noteIDs []string) error {
	return s.mutate(
		func(notes []models.Note) []models.Note {
			index := make(map[string]int, len(noteIDs))
			for i, id := range noteIDs {
				index[id] = i
			}
			listed := make([]models.Note, len(noteIDs))
			found := make([]bool, len(noteIDs))
			var rest []models.Note
			for _, n := range notes {
				if i, ok := index[n.ID]; ok && !found[i] {
					n.Position = i
					listed[i] = n
					found[i] = true
					continue
				}
				rest = append(rest, n)
			}
			out := make([]models.Note, 0, len(notes))
			for i, n := range listed {
				if found[i] {
					out = append(out, n)
				}
			}
			return append(out, rest...)
		},
		func() error { return s.api.ReorderNotes(ctx, noteIDs) },
	)
}

// EmptyTrash drops trashed notes locally and deletes them on the server.
func (s *NoteStore) EmptyTrash(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.mutate(
		func(notes []models.Note) []models.Note {
			out := notes[:0]
			for _, n := range notes {
				if !n.IsTrashed {
					out = append(out, n)
				}
			}
			return out
		},
		func() error {
			var err error
			deleted, err = s.api.EmptyTrash(ctx)
			return err
		},
	)
	return deleted, err
}
