package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"openkeep/logger"
	"openkeep/models"

	"github.com/google/uuid"
)

const noteColumns = `id, title, content, type, color, is_pinned, is_archived, is_trashed, trashed_at, position, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var note models.Note
	var trashedAt sql.NullTime
	err := row.Scan(&note.ID, &note.Title, &note.Content, &note.Type, &note.Color,
		&note.IsPinned, &note.IsArchived, &note.IsTrashed, &trashedAt, &note.Position,
		&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return note, err
	}
	if trashedAt.Valid {
		t := trashedAt.Time
		note.TrashedAt = &t
	}
	note.ChecklistItems = []models.ChecklistItem{}
	note.Labels = []models.NoteLabel{}
	return note, nil
}

func noteNotFound(id string) error {
	return fmt.Errorf("note with ID %s not found: %w", id, sql.ErrNoRows)
}

// CreateNote inserts note with its checklist items and label links in a single
// transaction. The note is placed after every existing note (max position + 1, or 1
// for the first note) regardless of archive/trash state. Items get dense positions in
// slice order; ids are generated when empty.
func CreateNote(ctx context.Context, note models.Note, items []models.ChecklistItem, labelIDs []string) (models.Note, error) {
	var created models.Note
	err := withTx(ctx, "CreateNote", func(tx *sql.Tx) error {
		var maxPosition sql.NullInt64
		if err := tx.QueryRowContext(ctx, "SELECT MAX(position) FROM notes").Scan(&maxPosition); err != nil {
			return fmt.Errorf("querying max note position: %w", err)
		}
		note.Position = 1
		if maxPosition.Valid {
			note.Position = int(maxPosition.Int64) + 1
		}

		var trashedAt interface{}
		if note.TrashedAt != nil {
			trashedAt = note.TrashedAt.UTC()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (`+noteColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			note.ID, note.Title, note.Content, note.Type, note.Color,
			note.IsPinned, note.IsArchived, note.IsTrashed, trashedAt, note.Position,
			note.CreatedAt.UTC(), note.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("executing create note statement: %w", err)
		}

		if err := insertChecklistItems(ctx, tx, note.ID, items); err != nil {
			return err
		}
		if err := insertNoteLabels(ctx, tx, note.ID, labelIDs); err != nil {
			return err
		}

		created, err = getNote(ctx, tx, note.ID)
		return err
	})
	if err != nil {
		return models.Note{}, err
	}
	logger.Debug("CreateNote: note %s created at position %d", created.ID, created.Position)
	return created, nil
}

func insertChecklistItems(ctx context.Context, tx *sql.Tx, noteID string, items []models.ChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO checklist_items (id, note_id, text, is_checked, position) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing checklist item insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.New().String()
		}
		if _, err := stmt.ExecContext(ctx, id, noteID, item.Text, item.IsChecked, i); err != nil {
			return fmt.Errorf("inserting checklist item %d for note %s: %w", i, noteID, err)
		}
	}
	return nil
}

func insertNoteLabels(ctx context.Context, tx *sql.Tx, noteID string, labelIDs []string) error {
	if len(labelIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO note_labels (note_id, label_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing note label insert: %w", err)
	}
	defer stmt.Close()

	for _, labelID := range labelIDs {
		if _, err := stmt.ExecContext(ctx, noteID, labelID); err != nil {
			return fmt.Errorf("linking label %s to note %s: %w", labelID, noteID, err)
		}
	}
	return nil
}

func getNote(ctx context.Context, q queryer, id string) (models.Note, error) {
	note, err := scanNote(q.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return note, noteNotFound(id)
		}
		return note, fmt.Errorf("querying note %s: %w", id, err)
	}
	notes := []models.Note{note}
	if err := loadRelations(ctx, q, notes); err != nil {
		return models.Note{}, err
	}
	return notes[0], nil
}

// GetNoteByID returns the note with its checklist items and labels.
func GetNoteByID(ctx context.Context, id string) (models.Note, error) {
	if DB == nil {
		return models.Note{}, errors.New("database connection is not initialized")
	}
	return getNote(ctx, DB, id)
}

// escapeLike escapes LIKE wildcards so q matches literally.
func escapeLike(q string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
}

// ListNotes returns every note matching the filter with relations loaded, pinned notes
// first, then by position, then most recently updated.
func ListNotes(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}

	where := []string{"is_archived = ?", "is_trashed = ?"}
	args := []interface{}{filter.Archived, filter.Trashed}
	if filter.LabelID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM note_labels nl WHERE nl.note_id = notes.id AND nl.label_id = ?)")
		args = append(args, filter.LabelID)
	}
	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		where = append(where, `(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := fmt.Sprintf(`SELECT %s FROM notes
		WHERE %s
		ORDER BY is_pinned DESC, position ASC, updated_at DESC, id ASC`, noteColumns, strings.Join(where, " AND "))

	rows, err := DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListNotes: Error querying notes: %v", err)
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note rows: %w", err)
	}
	rows.Close()

	if err := loadRelations(ctx, DB, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// loadRelations fills ChecklistItems and Labels for notes with one query each.
func loadRelations(ctx context.Context, q queryer, notes []models.Note) error {
	if len(notes) == 0 {
		return nil
	}
	index := make(map[string]int, len(notes))
	args := make([]interface{}, 0, len(notes))
	for i, n := range notes {
		index[n.ID] = i
		args = append(args, n.ID)
	}
	in := placeholders(len(notes))

	itemRows, err := q.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, note_id, text, is_checked, position
		FROM checklist_items
		WHERE note_id IN (%s)
		ORDER BY note_id ASC, position ASC`, in), args...)
	if err != nil {
		return fmt.Errorf("querying checklist items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item models.ChecklistItem
		if err := itemRows.Scan(&item.ID, &item.NoteID, &item.Text, &item.IsChecked, &item.Position); err != nil {
			return fmt.Errorf("scanning checklist item row: %w", err)
		}
		i := index[item.NoteID]
		notes[i].ChecklistItems = append(notes[i].ChecklistItems, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("iterating checklist item rows: %w", err)
	}
	itemRows.Close()

	labelRows, err := q.QueryContext(ctx, fmt.Sprintf(`
		SELECT nl.note_id, l.id, l.name, l.created_at
		FROM note_labels nl
		JOIN labels l ON l.id = nl.label_id
		WHERE nl.note_id IN (%s)
		ORDER BY l.name ASC`, in), args...)
	if err != nil {
		return fmt.Errorf("querying note labels: %w", err)
	}
	defer labelRows.Close()
	for labelRows.Next() {
		var nl models.NoteLabel
		if err := labelRows.Scan(&nl.NoteID, &nl.Label.ID, &nl.Label.Name, &nl.Label.CreatedAt); err != nil {
			return fmt.Errorf("scanning note label row: %w", err)
		}
		nl.LabelID = nl.Label.ID
		i := index[nl.NoteID]
		notes[i].Labels = append(notes[i].Labels, nl)
	}
	return labelRows.Err()
}

// UpdateNote applies the fields present in in, then replaces checklist items and label
// links when given, all in one transaction. Setting IsTrashed stamps trashed_at with now
// (or clears it). updated_at is always bumped.
func UpdateNote(ctx context.Context, id string, in models.UpdateNoteInput, now time.Time) (models.Note, error) {
	now = now.UTC()
	var updated models.Note
	err := withTx(ctx, "UpdateNote", func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM notes WHERE id = ?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return noteNotFound(id)
			}
			return fmt.Errorf("checking note %s: %w", id, err)
		}

		var setClauses []string
		var args []interface{}
		set := func(column string, value interface{}) {
			setClauses = append(setClauses, column+" = ?")
			args = append(args, value)
		}
		if in.Title != nil {
			set("title", *in.Title)
		}
		if in.Content != nil {
			set("content", *in.Content)
		}
		if in.Type != nil {
			set("type", *in.Type)
		}
		if in.Color != nil {
			set("color", *in.Color)
		}
		if in.IsPinned != nil {
			set("is_pinned", *in.IsPinned)
		}
		if in.IsArchived != nil {
			set("is_archived", *in.IsArchived)
		}
		if in.Position != nil {
			set("position", *in.Position)
		}
		if in.IsTrashed != nil {
			set("is_trashed", *in.IsTrashed)
			if *in.IsTrashed {
				set("trashed_at", now)
			} else {
				set("trashed_at", nil)
			}
		}
		set("updated_at", now)

		query := fmt.Sprintf("UPDATE notes SET %s WHERE id = ?", strings.Join(setClauses, ", "))
		args = append(args, id)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			logger.Error("UpdateNote: Error executing update for note %s: %v", id, err)
			return fmt.Errorf("executing note update: %w", err)
		}

		if in.ChecklistItems != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM checklist_items WHERE note_id = ?", id); err != nil {
				return fmt.Errorf("clearing checklist items for note %s: %w", id, err)
			}
			items := make([]models.ChecklistItem, 0, len(*in.ChecklistItems))
			for _, it := range *in.ChecklistItems {
				item := models.ChecklistItem{ID: it.ID, Text: it.Text}
				if it.IsChecked != nil {
					item.IsChecked = *it.IsChecked
				}
				items = append(items, item)
			}
			if err := insertChecklistItems(ctx, tx, id, items); err != nil {
				return err
			}
		}

		if in.LabelIDs != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM note_labels WHERE note_id = ?", id); err != nil {
				return fmt.Errorf("clearing labels for note %s: %w", id, err)
			}
			if err := insertNoteLabels(ctx, tx, id, *in.LabelIDs); err != nil {
				return err
			}
		}

		var err error
		updated, err = getNote(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Note{}, err
	}
	return updated, nil
}

// DeleteNote hard-deletes a note; checklist items and label links cascade.
func DeleteNote(ctx context.Context, id string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	result, err := DB.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		logger.Error("DeleteNote: Error executing delete for note %s: %v", id, err)
		return fmt.Errorf("executing delete note: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return noteNotFound(id)
	}
	logger.Info("DeleteNote: Note %s deleted.", id)
	return nil
}

// DeleteTrashedNotes hard-deletes every trashed note and returns how many went.
func DeleteTrashedNotes(ctx context.Context) (int64, error) {
	if DB == nil {
		return 0, errors.New("database connection is not initialized")
	}
	result, err := DB.ExecContext(ctx, "DELETE FROM notes WHERE is_trashed = 1")
	if err != nil {
		logger.Error("DeleteTrashedNotes: Error emptying trash: %v", err)
		return 0, fmt.Errorf("emptying trash: %w", err)
	}
	n, _ := result.RowsAffected()
	logger.Info("DeleteTrashedNotes: %d trashed notes deleted.", n)
	return n, nil
}

// ReorderNotes sets position = index for each id, inside one transaction. An id that
// matches no note aborts the whole reorder. Notes not listed keep their position.
func ReorderNotes(ctx context.Context, noteIDs []string, now time.Time) error {
	now = now.UTC()
	err := withTx(ctx, "ReorderNotes", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, "UPDATE notes SET position = ?, updated_at = ? WHERE id = ?")
		if err != nil {
			logger.Error("ReorderNotes: Failed to prepare statement: %v", err)
			return fmt.Errorf("failed to prepare update statement: %w", err)
		}
		defer stmt.Close()

		for position, id := range noteIDs {
			result, err := stmt.ExecContext(ctx, position, now, id)
			if err != nil {
				logger.Error("ReorderNotes: Failed to update position for note %s: %v", id, err)
				return fmt.Errorf("failed to update position for note %s: %w", id, err)
			}
			if n, _ := result.RowsAffected(); n == 0 {
				return noteNotFound(id)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Successfully updated positions for %d notes.", len(noteIDs))
	return nil
}
