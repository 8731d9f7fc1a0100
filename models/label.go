package models

import (
	"time"
)

// Label is a user-defined tag. Name is unique (exact, case-sensitive match).
type Label struct {
	ID        string    `json:"id" readOnly:"true"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt" readOnly:"true"`
}

// NoteLabel links a Note to a Label. It carries no data beyond the relation.
type NoteLabel struct {
	NoteID  string `json:"noteId"`
	LabelID string `json:"labelId"`
	Label   Label  `json:"label"`
}

// LabelPayload is the body of POST /labels and PATCH /labels/{id}.
type LabelPayload struct {
	Name string `json:"name"`
}
