package repository

import (
	"context"

	"briefbank-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DraftRepository handles database operations for draft briefs
type DraftRepository struct {
	db *pgxpool.Pool
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{db: db}
}

// Create creates a new draft brief
func (r *DraftRepository) Create(ctx context.Context, draft *models.DraftBrief) error {
	query := `
		INSERT INTO drafts (
			matter, outline, sections, status
		) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		draft.Matter,
		draft.Outline,
		draft.Sections,
		draft.Status,
	).Scan(&draft.ID, &draft.CreatedAt, &draft.UpdatedAt)

	return err
}

// GetByID retrieves a draft brief by ID
func (r *DraftRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DraftBrief, error) {
	draft := &models.DraftBrief{}
	query := `
		SELECT id, matter, outline, sections, status, created_at, updated_at
		FROM drafts
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&draft.ID,
		&draft.Matter,
		&draft.Outline,
		&draft.Sections,
		&draft.Status,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	if draft.Outline == nil {
		draft.Outline = make(models.OutlineSections, 0)
	}
	if draft.Sections == nil {
		draft.Sections = make(models.GeneratedSections, 0)
	}

	return draft, nil
}

// List retrieves all draft briefs, newest first
func (r *DraftRepository) List(ctx context.Context) ([]*models.DraftBrief, error) {
	query := `
		SELECT id, matter, outline, sections, status, created_at, updated_at
		FROM drafts
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drafts := make([]*models.DraftBrief, 0)
	for rows.Next() {
		draft := &models.DraftBrief{}
		err := rows.Scan(
			&draft.ID,
			&draft.Matter,
			&draft.Outline,
			&draft.Sections,
			&draft.Status,
			&draft.CreatedAt,
			&draft.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	return drafts, rows.Err()
}

// Update updates a draft brief's outline, sections, and status
func (r *DraftRepository) Update(ctx context.Context, draft *models.DraftBrief) error {
	query := `
		UPDATE drafts SET
			outline = $2,
			sections = $3,
			status = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		draft.ID,
		draft.Outline,
		draft.Sections,
		draft.Status,
	).Scan(&draft.UpdatedAt)

	return err
}

// Delete removes a draft brief
func (r *DraftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM drafts WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
