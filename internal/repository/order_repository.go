package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/creator-platform/internal/domain"
)

// OrderFilter captures order listing parameters.
type OrderFilter struct {
	UserID      *string
	CreatorID   *string
	Statuses    []domain.OrderStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// GetOwnership loads only the columns needed for authorization and
	// transition checks, never the full record.
	GetOwnership(ctx context.Context, id string) (*domain.OrderOwnership, error)
	ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	// UpdateStatus writes the new status plus any lifecycle timestamps.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, acceptedAt, completedAt *time.Time) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `o.id, o.user_id, o.creator_id, o.request_id, o.amount_cents,
               o.platform_fee_cents, o.creator_earnings_cents, o.status,
               o.created_at, o.accepted_at, o.completed_at,
               p.display_name, p.avatar_url, r.occasion`

const orderJoins = `orders o
        JOIN profiles p ON p.id = o.creator_id
        JOIN requests r ON r.id = o.request_id`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (user_id, creator_id, request_id, amount_cents, platform_fee_cents, creator_earnings_cents, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		order.UserID,
		order.CreatorID,
		order.RequestID,
		order.AmountCents,
		order.PlatformFeeCents,
		order.CreatorEarningsCents,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM ` + orderJoins + ` WHERE o.id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(orderScanTargets(&order)...); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetOwnership(ctx context.Context, id string) (*domain.OrderOwnership, error) {
	const query = `
        SELECT user_id, creator_id, status, created_at
        FROM orders WHERE id=$1`
	var own domain.OrderOwnership
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&own.UserID,
		&own.CreatorID,
		&own.Status,
		&own.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &own, nil
}

func (r *orderRepository) ListWithFilter(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	base := `SELECT ` + orderColumns + ` FROM ` + orderJoins
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("o.user_id=$%d", len(args)))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("o.creator_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("o.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("o.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("o.created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY o.created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, acceptedAt, completedAt *time.Time) error {
	const query = `
        UPDATE orders SET status=$1,
            accepted_at=COALESCE($2, accepted_at),
            completed_at=COALESCE($3, completed_at)
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, status, acceptedAt, completedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func orderScanTargets(order *domain.Order) []any {
	return []any{
		&order.ID,
		&order.UserID,
		&order.CreatorID,
		&order.RequestID,
		&order.AmountCents,
		&order.PlatformFeeCents,
		&order.CreatorEarningsCents,
		&order.Status,
		&order.CreatedAt,
		&order.AcceptedAt,
		&order.CompletedAt,
		&order.CreatorName,
		&order.CreatorAvatarURL,
		&order.RequestOccasion,
	}
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(orderScanTargets(&order)...); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
