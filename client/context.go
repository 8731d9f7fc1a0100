package client

import "context"

type noteStoreKey struct{}

type labelStoreKey struct{}

func WithNoteStore(ctx context.Context, s *NoteStore) context.Context {
	return context.WithValue(ctx, noteStoreKey{}, s)
}

// NoteStoreFrom returns the store carried by ctx, or nil.
func NoteStoreFrom(ctx context.Context) *NoteStore {
	s, _ := ctx.Value(noteStoreKey{}).(*NoteStore)
	return s
}

func WithLabelStore(ctx context.Context, s *LabelStore) context.Context {
	return context.WithValue(ctx, labelStoreKey{}, s)
}

func LabelStoreFrom(ctx context.Context) *LabelStore {
	s, _ := ctx.Value(labelStoreKey{}).(*LabelStore)
	return s
}
