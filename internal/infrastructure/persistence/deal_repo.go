package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"dealflow/internal/domain"
	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
	"dealflow/pkg/errcodes"
)

type DealRepository struct {
	store *Store
}

func NewDealRepository(store *Store) *DealRepository {
	return &DealRepository{store: store}
}

func (r *DealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	schema, err := fromDeal(deal)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode deal")
	}

	query := `
		INSERT INTO deals (
			id, asset_type, address, city, state, zip, attributes, description,
			asking_price, arv, repairs, mao, spread, confidence, profit_flag,
			valuation_note, status, priority_score, priority_reason,
			assignment_fee, actual_profit, matched_buyer_id,
			created_at, updated_at, last_contacted_at
		) VALUES (
			:id, :asset_type, :address, :city, :state, :zip, :attributes, :description,
			:asking_price, :arv, :repairs, :mao, :spread, :confidence, :profit_flag,
			:valuation_note, :status, :priority_score, :priority_reason,
			:assignment_fee, :actual_profit, :matched_buyer_id,
			:created_at, :updated_at, :last_contacted_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, r.store.conn(ctx), query, schema); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create deal")
	}

	return nil
}

func (r *DealRepository) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	return r.get(ctx, `SELECT * FROM deals WHERE id = $1`, id)
}

// GetForUpdate locks the deal row for the rest of the transaction.
func (r *DealRepository) GetForUpdate(ctx context.Context, id string) (*entity.Deal, error) {
	return r.get(ctx, `SELECT * FROM deals WHERE id = $1 FOR UPDATE`, id)
}

func (r *DealRepository) get(ctx context.Context, query, id string) (*entity.Deal, error) {
	var schema dealSchema
	if err := sqlx.GetContext(ctx, r.store.conn(ctx), &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get deal")
	}

	deal, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode deal")
	}

	return deal, nil
}

// Update writes every mutable column. created_at is never changed.
func (r *DealRepository) Update(ctx context.Context, deal *entity.Deal) error {
	schema, err := fromDeal(deal)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode deal")
	}

	query := `
		UPDATE deals SET
			asset_type = :asset_type,
			address = :address,
			city = :city,
			state = :state,
			zip = :zip,
			attributes = :attributes,
			description = :description,
			asking_price = :asking_price,
			arv = :arv,
			repairs = :repairs,
			mao = :mao,
			spread = :spread,
			confidence = :confidence,
			profit_flag = :profit_flag,
			valuation_note = :valuation_note,
			status = :status,
			priority_score = :priority_score,
			priority_reason = :priority_reason,
			assignment_fee = :assignment_fee,
			actual_profit = :actual_profit,
			matched_buyer_id = :matched_buyer_id,
			updated_at = :updated_at,
			last_contacted_at = :last_contacted_at
		WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, r.store.conn(ctx), query, schema)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update deal")
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return nil
}

// ListByStatus returns up to limit deals in creation order. The order is
// stable across runs over an unchanged backlog.
func (r *DealRepository) ListByStatus(ctx context.Context, statuses []value.Status, limit int) ([]entity.Deal, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	conn := r.store.conn(ctx)

	query, args, err := sqlx.In(
		`SELECT * FROM deals WHERE status IN (?) ORDER BY created_at ASC, id ASC LIMIT ?`,
		statuses, limit,
	)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build deal query")
	}

	var schemas []dealSchema
	if err := sqlx.SelectContext(ctx, conn, &schemas, conn.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list deals")
	}

	result := make([]entity.Deal, 0, len(schemas))
	for _, s := range schemas {
		deal, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode deal "+s.ID)
		}
		result = append(result, *deal)
	}

	return result, nil
}
