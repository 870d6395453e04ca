package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
)

// ErrNotConfigured means no per-form mapping exists for the form. Distinct
// from an error: callers fall back to the default payload strategy.
var ErrNotConfigured = errors.New("no mapping configured for form")

type FormMappingRepository struct {
	db *sql.DB
}

func NewFormMappingRepository(db *sql.DB) *FormMappingRepository {
	return &FormMappingRepository{db: db}
}

// GetMapping returns the configured rows for a form in saved order, or
// ErrNotConfigured when the form has no rows.
func (r *FormMappingRepository) GetMapping(formID string) ([]models.MappingRow, error) {
	rows, err := r.db.Query(`
		SELECT source_field, target_field, custom_key
		FROM form_mappings
		WHERE form_id = ?
		ORDER BY position ASC
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("get mapping for form %s: %w", formID, err)
	}
	defer rows.Close()

	var mapping []models.MappingRow
	for rows.Next() {
		var row models.MappingRow
		var target string
		if err := rows.Scan(&row.SourceField, &target, &row.CustomKey); err != nil {
			return nil, fmt.Errorf("scan mapping row: %w", err)
		}
		row.Target = models.TargetKind(target)
		mapping = append(mapping, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mapping rows: %w", err)
	}

	if len(mapping) == 0 {
		return nil, ErrNotConfigured
	}
	return mapping, nil
}

// SaveMapping replaces the form's rows wholesale. Rows with an empty source
// or target field are dropped; if nothing remains the form ends up not
// configured, never configured-empty. Returns the rows actually kept.
func (r *FormMappingRepository) SaveMapping(formID string, mapping []models.MappingRow) ([]models.MappingRow, error) {
	kept := make([]models.MappingRow, 0, len(mapping))
	for _, row := range mapping {
		if row.SourceField == "" || row.Target == "" {
			continue
		}
		kept = append(kept, row)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin save mapping: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM form_mappings WHERE form_id = ?`, formID); err != nil {
		return nil, fmt.Errorf("clear mapping for form %s: %w", formID, err)
	}

	for i, row := range kept {
		_, err := tx.Exec(`
			INSERT INTO form_mappings (form_id, position, source_field, target_field, custom_key)
			VALUES (?, ?, ?, ?, ?)
		`, formID, i, row.SourceField, string(row.Target), row.CustomKey)
		if err != nil {
			return nil, fmt.Errorf("insert mapping row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save mapping: %w", err)
	}
	return kept, nil
}
