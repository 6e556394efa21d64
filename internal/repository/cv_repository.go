package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

type cvRepository struct {
	db *sql.DB
}

func NewCVRepository(db *sql.DB) domain.CVRepository {
	return &cvRepository{db: db}
}

// Upsert creates the CV on first save and overwrites the shell fields on
// subsequent saves. Last write wins; there is no conflict detection.
func (r *cvRepository) Upsert(ctx context.Context, cv *domain.CV) (*domain.CV, error) {
	query := `
        INSERT INTO cvs (id, user_id, summary, contact_info, is_public, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id) DO UPDATE
        SET summary = EXCLUDED.summary,
            contact_info = EXCLUDED.contact_info,
            is_public = EXCLUDED.is_public,
            updated_at = EXCLUDED.updated_at
        RETURNING id, user_id, summary, contact_info, is_public, created_at, updated_at`

	stored := &domain.CV{}
	err := r.db.QueryRowContext(ctx, query,
		cv.ID, cv.UserID, cv.Summary, cv.ContactInfo, cv.IsPublic, cv.CreatedAt, cv.UpdatedAt,
	).Scan(
		&stored.ID, &stored.UserID, &stored.Summary, &stored.ContactInfo,
		&stored.IsPublic, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadItems(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *cvRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.CV, error) {
	query := `
        SELECT id, user_id, summary, contact_info, is_public, created_at, updated_at
        FROM cvs WHERE user_id = $1`

	cv := &domain.CV{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cv.ID, &cv.UserID, &cv.Summary, &cv.ContactInfo,
		&cv.IsPublic, &cv.CreatedAt, &cv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadItems(ctx, cv); err != nil {
		return nil, err
	}
	return cv, nil
}

func (r *cvRepository) loadItems(ctx context.Context, cv *domain.CV) error {
	query := `
        SELECT id, section, position, data, created_at, updated_at
        FROM cv_items
        WHERE cv_id = $1
        ORDER BY section, position`

	rows, err := r.db.QueryContext(ctx, query, cv.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []*domain.CVItem
	for rows.Next() {
		item := &domain.CVItem{}
		var data []byte
		if err := rows.Scan(&item.ID, &item.Section, &item.Position, &data,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		item.Data = json.RawMessage(data)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	cv.Attach(items)
	return nil
}

// AddItem appends to the end of the section sequence; position carries the
// insertion order.
func (r *cvRepository) AddItem(ctx context.Context, cvID uuid.UUID, item *domain.CVItem) error {
	query := `
        INSERT INTO cv_items (id, cv_id, section, position, data, created_at, updated_at)
        SELECT $1, $2, $3,
               COALESCE(MAX(position) + 1, 0),
               $4, $5, $6
        FROM cv_items WHERE cv_id = $2 AND section = $3`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, cvID, item.Section, []byte(item.Data), item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *cvRepository) UpdateItem(ctx context.Context, cvID, itemID uuid.UUID, section domain.Section, data json.RawMessage) error {
	query := `
        UPDATE cv_items
        SET data = $4, updated_at = $5
        WHERE id = $2 AND cv_id = $1 AND section = $3`

	result, err := r.db.ExecContext(ctx, query, cvID, itemID, section, []byte(data), time.Now())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveItem is filter-style: removing an id that is not there is not an error.
func (r *cvRepository) RemoveItem(ctx context.Context, cvID, itemID uuid.UUID, section domain.Section) error {
	query := `DELETE FROM cv_items WHERE id = $2 AND cv_id = $1 AND section = $3`
	if _, err := r.db.ExecContext(ctx, query, cvID, itemID, section); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *cvRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cvs WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
