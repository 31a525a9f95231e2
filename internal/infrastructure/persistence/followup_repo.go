package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/pkg/errcodes"
)

type FollowUpRepository struct {
	store *Store
}

func NewFollowUpRepository(store *Store) *FollowUpRepository {
	return &FollowUpRepository{store: store}
}

func (r *FollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	query := `
		INSERT INTO follow_ups (id, deal_id, due_at, completed, completed_at, note, created_at)
		VALUES (:id, :deal_id, :due_at, :completed, :completed_at, :note, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.store.conn(ctx), query, fromFollowUp(f)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create follow-up")
	}

	return nil
}

// Complete marks the follow-up done. Completing twice keeps the first
// completion time.
func (r *FollowUpRepository) Complete(ctx context.Context, id string, at time.Time) (*entity.FollowUp, error) {
	query := `
		UPDATE follow_ups
		SET completed = TRUE,
		    completed_at = COALESCE(completed_at, $2)
		WHERE id = $1
		RETURNING *`

	var schema followUpSchema
	if err := sqlx.GetContext(ctx, r.store.conn(ctx), &schema, query, id, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.FollowUpNotFound, "follow-up not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to complete follow-up")
	}

	f := schema.toDomain()
	return &f, nil
}

func (r *FollowUpRepository) ListOpenByDeal(ctx context.Context, dealID string) ([]entity.FollowUp, error) {
	query := `SELECT * FROM follow_ups WHERE deal_id = $1 AND NOT completed ORDER BY due_at ASC, id ASC`

	var schemas []followUpSchema
	if err := sqlx.SelectContext(ctx, r.store.conn(ctx), &schemas, query, dealID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list follow-ups")
	}

	result := make([]entity.FollowUp, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}
	return result, nil
}
