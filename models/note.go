package models

import (
	"time"
)

// Note types.
const (
	NoteTypeNote      = "note"
	NoteTypeChecklist = "checklist"
)

// Note is the primary content entity: a free-text or checklist card.
type Note struct {
	ID             string          `json:"id" readOnly:"true"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	Type           string          `json:"type" enums:"note,checklist"`
	Color          string          `json:"color"`
	IsPinned       bool            `json:"isPinned"`
	IsArchived     bool            `json:"isArchived"`
	IsTrashed      bool            `json:"isTrashed"`
	TrashedAt      *time.Time      `json:"trashedAt" swaggertype:"string" format:"date-time"`
	Position       int             `json:"position"`
	CreatedAt      time.Time       `json:"createdAt" readOnly:"true"`
	UpdatedAt      time.Time       `json:"updatedAt" readOnly:"true"`
	ChecklistItems []ChecklistItem `json:"checklistItems"`
	Labels         []NoteLabel     `json:"labels"`
}

// ChecklistItem is one line of a checklist note. Position is dense 0..k-1 within the note.
type ChecklistItem struct {
	ID        string `json:"id" readOnly:"true"`
	Text      string `json:"text"`
	IsChecked bool   `json:"isChecked"`
	Position  int    `json:"position"`
	NoteID    string `json:"noteId"`
}

// NoteFilter selects the notes returned by a list call.
// Archived and Trashed are exact matches, not "either".
type NoteFilter struct {
	Archived bool
	Trashed  bool
	LabelID  string
	Query    string
}

// NewChecklistItem is a checklist item as submitted on create.
type NewChecklistItem struct {
	Text      string `json:"text"`
	IsChecked *bool  `json:"isChecked,omitempty"`
}

// ChecklistItemInput is a checklist item as submitted on update. A non-empty ID is kept.
type ChecklistItemInput struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	IsChecked *bool  `json:"isChecked,omitempty"`
}

// CreateNoteInput is the body of POST /notes. Absent fields take their defaults.
type CreateNoteInput struct {
	Title          *string            `json:"title,omitempty"`
	Content        *string            `json:"content,omitempty"`
	Type           *string            `json:"type,omitempty" validate:"omitempty,oneof=note checklist"`
	Color          *string            `json:"color,omitempty" validate:"omitempty,notecolor"`
	IsPinned       *bool              `json:"isPinned,omitempty"`
	ChecklistItems []NewChecklistItem `json:"checklistItems,omitempty"`
	LabelIDs       []string           `json:"labelIds,omitempty"`
}

// UpdateNoteInput is the body of PATCH /notes/{id}. Only non-nil fields are applied;
// a non-nil empty slice clears the relation.
type UpdateNoteInput struct {
	Title          *string               `json:"title,omitempty"`
	Content        *string               `json:"content,omitempty"`
	Type           *string               `json:"type,omitempty" validate:"omitempty,oneof=note checklist"`
	Color          *string               `json:"color,omitempty" validate:"omitempty,notecolor"`
	IsPinned       *bool                 `json:"isPinned,omitempty"`
	IsArchived     *bool                 `json:"isArchived,omitempty"`
	IsTrashed      *bool                 `json:"isTrashed,omitempty"`
	Position       *int                  `json:"position,omitempty"`
	ChecklistItems *[]ChecklistItemInput `json:"checklistItems,omitempty"`
	LabelIDs       *[]string             `json:"labelIds,omitempty"`
}

// ReorderNotesRequest is the body of PUT /notes.
type ReorderNotesRequest struct {
	NoteIDs []string `json:"noteIds"`
}

// Ptr returns a pointer to v. Handy for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}
