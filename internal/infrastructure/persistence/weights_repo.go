package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"dealflow/internal/domain"
	"dealflow/internal/domain/service/priority"
	"dealflow/pkg/errcodes"
)

// WeightsRepository stores versioned priority weights. Exactly one version
// is active at a time.
type WeightsRepository struct {
	store    *Store
	fallback *priority.Weights
}

func NewWeightsRepository(store *Store) *WeightsRepository {
	return &WeightsRepository{store: store}
}

// WithFallback makes Current return w while no version has been published.
func (r *WeightsRepository) WithFallback(w priority.Weights) *WeightsRepository {
	r.fallback = &w
	return r
}

func (r *WeightsRepository) Current(ctx context.Context) (priority.Weights, error) {
	query := `SELECT * FROM scoring_weights WHERE active ORDER BY created_at DESC LIMIT 1`

	var schema weightsSchema
	if err := sqlx.GetContext(ctx, r.store.conn(ctx), &schema, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if r.fallback != nil {
				return *r.fallback, nil
			}
			return priority.Weights{}, domain.NewError(errcodes.WeightsNotFound, "no active scoring weights")
		}
		return priority.Weights{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get scoring weights")
	}

	var w priority.Weights
	if err := json.Unmarshal(schema.Weights, &w); err != nil {
		return priority.Weights{}, domain.WrapError(err, errcodes.InternalServerError, "failed to decode scoring weights")
	}
	w.Version = schema.Version

	return w, nil
}

// Publish stores w as a new version and makes it the active one.
func (r *WeightsRepository) Publish(ctx context.Context, w priority.Weights, at time.Time) error {
	if w.Version == "" {
		return domain.NewValidationError("version", "required")
	}

	payload, err := json.Marshal(w)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode scoring weights")
	}

	return r.store.WithinTx(ctx, func(ctx context.Context) error {
		conn := r.store.conn(ctx)

		if _, err := conn.ExecContext(ctx, `UPDATE scoring_weights SET active = FALSE WHERE active`); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to deactivate scoring weights")
		}

		query := `
			INSERT INTO scoring_weights (version, weights, active, created_at)
			VALUES ($1, $2, TRUE, $3)`

		if _, err := conn.ExecContext(ctx, query, w.Version, payload, at); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to publish scoring weights")
		}

		return nil
	})
}
