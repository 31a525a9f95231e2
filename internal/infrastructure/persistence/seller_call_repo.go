package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/pkg/errcodes"
)

type SellerCallRepository struct {
	store *Store
}

func NewSellerCallRepository(store *Store) *SellerCallRepository {
	return &SellerCallRepository{store: store}
}

func (r *SellerCallRepository) Create(ctx context.Context, call *entity.SellerCall) error {
	query := `
		INSERT INTO seller_calls (id, deal_id, motivation, asking_price, notes, called_at)
		VALUES (:id, :deal_id, :motivation, :asking_price, :notes, :called_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.store.conn(ctx), query, fromSellerCall(call)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create seller call")
	}

	return nil
}

func (r *SellerCallRepository) LatestByDeal(ctx context.Context, dealID string) (*entity.SellerCall, error) {
	query := `SELECT * FROM seller_calls WHERE deal_id = $1 ORDER BY called_at DESC, id DESC LIMIT 1`

	var schema sellerCallSchema
	if err := sqlx.GetContext(ctx, r.store.conn(ctx), &schema, query, dealID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil //nolint:nilnil
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get latest seller call")
	}

	return schema.toDomain(), nil
}
