package client

import (
	"context"
	"sync"
	"time"

	"openkeep/models"

	"github.com/google/uuid"
)

// LabelAPI is the subset of Client the label store needs.
type LabelAPI interface {
	ListLabels(ctx context.Context) ([]models.Label, error)
	CreateLabel(ctx context.Context, name string) (models.Label, error)
	RenameLabel(ctx context.Context, id, name string) (models.Label, error)
	DeleteLabel(ctx context.Context, id string) error
}

type LabelState struct {
	Labels  []models.Label
	Loading bool
	Error   string
}

// LabelStore mirrors the label list with the same optimistic rules as NoteStore.
type LabelStore struct {
	api LabelAPI

	mu     sync.Mutex
	state  LabelState
	subs   map[int]func(LabelState)
	nextID int
}

func NewLabelStore(api LabelAPI) *LabelStore {
	return &LabelStore{api: api, subs: map[int]func(LabelState){}}
}

func copyLabels(labels []models.Label) []models.Label {
	if labels == nil {
		return nil
	}
	out := make([]models.Label, len(labels))
	copy(out, labels)
	return out
}

func (s *LabelStore) State() LabelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Labels = copyLabels(s.state.Labels)
	return st
}

func (s *LabelStore) Subscribe(fn func(LabelState)) func() {
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

func (s *LabelStore) set(fn func(st *LabelState)) {
	s.mu.Lock()
	fn(&s.state)
	st := s.state
	st.Labels = copyLabels(s.state.Labels)
	subs := make([]func(LabelState), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub(st)
	}
}

func labelKey(l models.Label) string { return l.ID }

func (s *LabelStore) mutate(optimistic func(labels []models.Label) []models.Label, call func() error) error {
	var before, after []models.Label
	s.set(func(st *LabelState) {
		before = copyLabels(st.Labels)
		st.Labels = optimistic(copyLabels(st.Labels))
		after = copyLabels(st.Labels)
	})
	if err := call(); err != nil {
		s.set(func(st *LabelState) {
			st.Labels = revert(st.Labels, before, after, labelKey)
			st.Error = errorMessage(err)
		})
		return err
	}
	return nil
}

func (s *LabelStore) FetchLabels(ctx context.Context) error {
	s.set(func(st *LabelState) {
		st.Loading = true
		st.Error = ""
	})
	labels, err := s.api.ListLabels(ctx)
	s.set(func(st *LabelState) {
		st.Loading = false
		if err != nil {
			st.Error = errorMessage(err)
			return
		}
		if labels == nil {
			labels = []models.Label{}
		}
		st.Labels = labels
	})
	return err
}

func replaceLabel(labels []models.Label, id string, l models.Label) []models.Label {
	for i := range labels {
		if labels[i].ID == id {
			labels[i] = l
		}
	}
	return labels
}

// CreateLabel appends a provisional label and swaps in the server's copy on success.
func (s *LabelStore) CreateLabel(ctx context.Context, name string) (models.Label, error) {
	pending := models.Label{ID: "pending-" + uuid.New().String(), Name: name, CreatedAt: time.Now().UTC()}
	var created models.Label
	err := s.mutate(
		func(labels []models.Label) []models.Label { return append(labels, pending) },
		func() error {
			var err error
			created, err = s.api.CreateLabel(ctx, name)
			return err
		},
	)
	if err != nil {
		return models.Label{}, err
	}
	s.set(func(st *LabelState) { st.Labels = replaceLabel(st.Labels, pending.ID, created) })
	return created, nil
}

func (s *LabelStore) RenameLabel(ctx context.Context, id, name string) error {
	var renamed models.Label
	err := s.mutate(
		func(labels []models.Label) []models.Label {
			for i := range labels {
				if labels[i].ID == id {
					labels[i].Name = name
				}
			}
			return labels
		},
		func() error {
			var err error
			renamed, err = s.api.RenameLabel(ctx, id, name)
			return err
		},
	)
	if err != nil {
		return err
	}
	s.set(func(st *LabelState) { st.Labels = replaceLabel(st.Labels, id, renamed) })
	return nil
}

func (s *LabelStore) DeleteLabel(ctx context.Context, id string) error {
	return s.mutate(
		func(labels []models.Label) []models.Label {
			out := labels[:0]
			for _, l := range labels {
				if l.ID != id {
					out = append(out, l)
				}
			}
			return out
		},
		func() error { return s.api.DeleteLabel(ctx, id) },
	)
}
