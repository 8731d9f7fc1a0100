package core

import (
	"context"
	"time"

	"openkeep/database"
	"openkeep/errs"
	"openkeep/logger"
	"openkeep/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// NoteService owns the note lifecycle: creation and position assignment, partial
// updates, the pin/archive/trash flags and bulk reordering.
type NoteService struct {
	// Now is the clock used for timestamps. Defaults to time.Now.
	Now      func() time.Time
	validate *validator.Validate
}

func NewNoteService() *NoteService {
	return &NoteService{Now: time.Now, validate: newValidator()}
}

func (s *NoteService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Create stores a new note after every existing note.
func (s *NoteService) Create(ctx context.Context, in models.CreateNoteInput) (models.Note, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return models.Note{}, validationError(err)
	}

	now := s.now()
	note := models.Note{
		ID:        uuid.New().String(),
		Type:      models.NoteTypeNote,
		Color:     models.DefaultColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Title != nil {
		note.Title = *in.Title
	}
	if in.Content != nil {
		note.Content = *in.Content
	}
	if in.Type != nil && *in.Type != "" {
		note.Type = *in.Type
	}
	if in.Color != nil && *in.Color != "" {
		note.Color = *in.Color
	}
	if in.IsPinned != nil {
		note.IsPinned = *in.IsPinned
	}

	items := make([]models.ChecklistItem, 0, len(in.ChecklistItems))
	for _, it := range in.ChecklistItems {
		item := models.ChecklistItem{Text: it.Text}
		if it.IsChecked != nil {
			item.IsChecked = *it.IsChecked
		}
		items = append(items, item)
	}

	created, err := database.CreateNote(ctx, note, items, in.LabelIDs)
	if err != nil {
		return models.Note{}, classify("NoteService.Create", "note", checklistConflict(err))
	}
	logger.Info("Note %s created (type=%s, position=%d)", created.ID, created.Type, created.Position)
	return created, nil
}

// checklistConflict reports a checklist item id that is repeated or owned by another note.
// Note ids are generated, so item ids are the only key a caller can collide on.
func checklistConflict(err error) error {
	if database.IsUniqueViolation(err) {
		return errs.Wrap(errs.InvalidArgument, "duplicate checklist item id", err)
	}
	return err
}

func (s *NoteService) Get(ctx context.Context, id string) (models.Note, error) {
	note, err := database.GetNoteByID(ctx, id)
	if err != nil {
		return models.Note{}, classify("NoteService.Get", "note", err)
	}
	return note, nil
}

// Update applies the fields present in in. Checklist items and labels, when present,
// replace the stored sets wholesale.
func (s *NoteService) Update(ctx context.Context, id string, in models.UpdateNoteInput) (models.Note, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return models.Note{}, validationError(err)
	}
	note, err := database.UpdateNote(ctx, id, in, s.now())
	if err != nil {
		return models.Note{}, classify("NoteService.Update", "note", checklistConflict(err))
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := database.DeleteNote(ctx, id); err != nil {
		return classify("NoteService.Delete", "note", err)
	}
	return nil
}

// List returns the notes of one view. Archived and Trashed select exact partitions.
func (s *NoteService) List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	notes, err := database.ListNotes(ctx, filter)
	if err != nil {
		return nil, classify("NoteService.List", "note", err)
	}
	return notes, nil
}

// Reorder assigns position i to noteIDs[i]. Either every listed note moves or none does.
func (s *NoteService) Reorder(ctx context.Context, noteIDs []string) error {
	if noteIDs == nil {
		return errs.New(errs.InvalidArgument, "noteIds must be an array")
	}
	if err := database.ReorderNotes(ctx, noteIDs, s.now()); err != nil {
		return classify("NoteService.Reorder", "note", err)
	}
	return nil
}

// EmptyTrash deletes every trashed note and reports how many were removed.
func (s *NoteService) EmptyTrash(ctx context.Context) (int64, error) {
	n, err := database.DeleteTrashedNotes(ctx)
	if err != nil {
		return 0, classify("NoteService.EmptyTrash", "note", err)
	}
	return n, nil
}

func (s *NoteService) Pin(ctx context.Context, id string) (models.Note, error) {
	return s.Update(ctx, id, models.UpdateNoteInput{IsPinned: models.Ptr(true)})
}

func (s *NoteService) Unpin(ctx context.Context, id string) (models.Note, error) {
	return s.Update(ctx, id, models.UpdateNoteInput{IsPinned: models.Ptr(false)})
}

func (s *NoteService) Archive(ctx context.Context, id string) (models.Note, error) {
	return s.Update(ctx, id, models.UpdateNoteInput{IsArchived: models.Ptr(true)})
}

func (s *NoteService) Unarchive(ctx context.Context, id string) (models.Note, error) {
	return s.Update(ctx, id, models.UpdateNoteInput{IsArchived: models.Ptr(false)})
}

// Trash flags the note and stamps trashedAt. The note is kept until deleted.
func (s *NoteService) Trash(ctx context.Context, id string) (models.Note, error) {
	return s.Update(ctx, id, models.UpdateNoteInput{IsTrashed: models.Ptr(true)})
}

func (s *NoteService) Restore(ctx context.Context, id string) (models.Note, error) {
	return s.Update(ctx, id, models.UpdateNoteInput{IsTrashed: models.Ptr(false)})
}
