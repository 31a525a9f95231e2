package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
)

type BuyerRepository struct {
	store *Store
}

func NewBuyerRepository(store *Store) *BuyerRepository {
	return &BuyerRepository{store: store}
}

func (r *BuyerRepository) Create(ctx context.Context, buyer *entity.Buyer) error {
	query := `
		INSERT INTO buyers (
			id, name, active, asset_type, market, budget_ceiling, tier,
			monthly_match_count, counter_reset_at, created_at
		) VALUES (
			:id, :name, :active, :asset_type, :market, :budget_ceiling, :tier,
			:monthly_match_count, :counter_reset_at, :created_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, r.store.conn(ctx), query, fromBuyer(buyer)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create buyer")
	}

	return nil
}

func (r *BuyerRepository) GetByID(ctx context.Context, id string) (*entity.Buyer, error) {
	var schema buyerSchema
	if err := sqlx.GetContext(ctx, r.store.conn(ctx), &schema, `SELECT * FROM buyers WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.BuyerNotFound, "buyer not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get buyer")
	}

	buyer := schema.toDomain()
	return &buyer, nil
}

// ListActive returns the matching pool ordered by id.
func (r *BuyerRepository) ListActive(ctx context.Context) ([]entity.Buyer, error) {
	var schemas []buyerSchema
	if err := sqlx.SelectContext(ctx, r.store.conn(ctx), &schemas, `SELECT * FROM buyers WHERE active ORDER BY id ASC`); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list buyers")
	}

	result := make([]entity.Buyer, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}
	return result, nil
}

// ResetMonth zeroes the counter if it still belongs to an earlier month.
// Running it twice in the same month changes nothing.
func (r *BuyerRepository) ResetMonth(ctx context.Context, id string, month time.Time) error {
	query := `
		UPDATE buyers
		SET monthly_match_count = 0,
		    counter_reset_at = $2
		WHERE id = $1 AND counter_reset_at < $2`

	if _, err := r.store.conn(ctx).ExecContext(ctx, query, id, value.MonthStart(month)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to reset buyer counter")
	}

	return nil
}

// Consume atomically takes one match from the buyer's monthly quota. The
// month check, the limit check and the increment are one UPDATE, so
// concurrent workers cannot both pass the limit; the row lock is held until
// the surrounding transaction ends.
func (r *BuyerRepository) Consume(ctx context.Context, buyerID string, limit int, month time.Time) (bool, error) {
	query := `
		UPDATE buyers
		SET monthly_match_count = CASE
		        WHEN counter_reset_at < $2 THEN 1
		        ELSE monthly_match_count + 1
		    END,
		    counter_reset_at = GREATEST(counter_reset_at, $2)
		WHERE id = $1
		  AND (counter_reset_at < $2 OR $3 = 0 OR monthly_match_count < $3)`

	conn := r.store.conn(ctx)

	res, err := conn.ExecContext(ctx, query, buyerID, value.MonthStart(month), limit)
	if err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to consume buyer quota")
	}

	rows, _ := res.RowsAffected()
	if rows > 0 {
		return true, nil
	}

	// Проверяем существование, чтобы отдать точную ошибку
	var exists bool
	if err := sqlx.GetContext(ctx, conn, &exists, `SELECT EXISTS(SELECT 1 FROM buyers WHERE id = $1)`, buyerID); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check buyer")
	}

	if !exists {
		return false, domain.NewError(errcodes.BuyerNotFound, "buyer not found")
	}

	return false, nil
}
