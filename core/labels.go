package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"openkeep/database"
	"openkeep/errs"
	"openkeep/logger"
	"openkeep/models"

	"github.com/google/uuid"
)

// LabelService manages labels. Names are trimmed and unique.
type LabelService struct {
	Now func() time.Time
}

func NewLabelService() *LabelService {
	return &LabelService{Now: time.Now}
}

func (s *LabelService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func normalizeLabelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.New(errs.InvalidArgument, "label name is required")
	}
	return name, nil
}

func labelConflict(name string, err error) error {
	if database.IsUniqueViolation(err) {
		return errs.Wrap(errs.Conflict, fmt.Sprintf("label %q already exists", name), err)
	}
	return err
}

func (s *LabelService) Create(ctx context.Context, name string) (models.Label, error) {
	name, err := normalizeLabelName(name)
	if err != nil {
		return models.Label{}, err
	}
	label, err := database.CreateLabel(ctx, models.Label{ID: uuid.New().String(), Name: name, CreatedAt: s.now()})
	if err != nil {
		return models.Label{}, classify("LabelService.Create", "label", labelConflict(name, err))
	}
	logger.Info("Label %s created: %q", label.ID, label.Name)
	return label, nil
}

func (s *LabelService) Get(ctx context.Context, id string) (models.Label, error) {
	label, err := database.GetLabelByID(ctx, id)
	if err != nil {
		return models.Label{}, classify("LabelService.Get", "label", err)
	}
	return label, nil
}

// Rename gives a label a new name. Renaming a label to its current name succeeds.
func (s *LabelService) Rename(ctx context.Context, id, name string) (models.Label, error) {
	name, err := normalizeLabelName(name)
	if err != nil {
		return models.Label{}, err
	}
	label, err := database.RenameLabel(ctx, id, name)
	if err != nil {
		return models.Label{}, classify("LabelService.Rename", "label", labelConflict(name, err))
	}
	return label, nil
}

// Delete removes a label and unlinks it from every note. The notes stay.
func (s *LabelService) Delete(ctx context.Context, id string) error {
	if err := database.DeleteLabel(ctx, id); err != nil {
		return classify("LabelService.Delete", "label", err)
	}
	return nil
}

func (s *LabelService) List(ctx context.Context) ([]models.Label, error) {
	labels, err := database.GetAllLabels(ctx)
	if err != nil {
		return nil, classify("LabelService.List", "label", err)
	}
	return labels, nil
}
