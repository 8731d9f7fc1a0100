package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"openkeep/logger"
	"openkeep/models"
)

func labelNotFound(id string) error {
	return fmt.Errorf("label with ID %s not found: %w", id, sql.ErrNoRows)
}

// CreateLabel inserts a new label. Name uniqueness is left to the UNIQUE constraint;
// callers check IsUniqueViolation on the returned error.
func CreateLabel(ctx context.Context, label models.Label) (models.Label, error) {
	if DB == nil {
		return models.Label{}, errors.New("database connection is not initialized")
	}
	stmt, err := DB.PrepareContext(ctx, "INSERT INTO labels (id, name, created_at) VALUES (?, ?, ?)")
	if err != nil {
		logger.Error("CreateLabel: Error preparing statement for label '%s': %v", label.Name, err)
		return models.Label{}, fmt.Errorf("preparing insert label statement: %w", err)
	}
	defer stmt.Close()

	label.CreatedAt = label.CreatedAt.UTC()
	if _, err := stmt.ExecContext(ctx, label.ID, label.Name, label.CreatedAt); err != nil {
		if !IsUniqueViolation(err) {
			logger.Error("CreateLabel: Error executing insert for label '%s': %v", label.Name, err)
		}
		return models.Label{}, fmt.Errorf("executing insert label: %w", err)
	}
	return label, nil
}

// GetLabelByID retrieves a single label by its ID.
func GetLabelByID(ctx context.Context, id string) (models.Label, error) {
	var label models.Label
	if DB == nil {
		return label, errors.New("database connection is not initialized")
	}
	err := DB.QueryRowContext(ctx, "SELECT id, name, created_at FROM labels WHERE id = ?", id).Scan(
		&label.ID, &label.Name, &label.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return label, labelNotFound(id)
		}
		logger.Error("GetLabelByID: Error querying label ID %s: %v", id, err)
		return label, fmt.Errorf("querying label ID %s: %w", id, err)
	}
	return label, nil
}

// GetAllLabels retrieves all labels, ordered by name.
func GetAllLabels(ctx context.Context) ([]models.Label, error) {
	if DB == nil {
		return nil, errors.New("database connection is not initialized")
	}
	rows, err := DB.QueryContext(ctx, "SELECT id, name, created_at FROM labels ORDER BY name ASC")
	if err != nil {
		logger.Error("GetAllLabels: Error querying all labels: %v", err)
		return nil, fmt.Errorf("querying all labels: %w", err)
	}
	defer rows.Close()

	labels := []models.Label{}
	for rows.Next() {
		var label models.Label
		if err := rows.Scan(&label.ID, &label.Name, &label.CreatedAt); err != nil {
			logger.Error("GetAllLabels: Error scanning label row: %v", err)
			return nil, fmt.Errorf("scanning label row: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// RenameLabel changes a label's name and returns the updated label.
func RenameLabel(ctx context.Context, id, name string) (models.Label, error) {
	if DB == nil {
		return models.Label{}, errors.New("database connection is not initialized")
	}
	result, err := DB.ExecContext(ctx, "UPDATE labels SET name = ? WHERE id = ?", name, id)
	if err != nil {
		if !IsUniqueViolation(err) {
			logger.Error("RenameLabel: Error executing update for label ID %s: %v", id, err)
		}
		return models.Label{}, fmt.Errorf("executing rename label: %w", err)
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return models.Label{}, labelNotFound(id)
	}
	return GetLabelByID(ctx, id)
}

// DeleteLabel removes a label. Its note links go with it by CASCADE.
func DeleteLabel(ctx context.Context, id string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	result, err := DB.ExecContext(ctx, "DELETE FROM labels WHERE id = ?", id)
	if err != nil {
		logger.Error("DeleteLabel: Error executing delete for label ID %s: %v", id, err)
		return fmt.Errorf("executing delete label: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return labelNotFound(id)
	}
	logger.Info("DeleteLabel: Label ID %s deleted.", id)
	return nil
}
