package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/creator-platform/internal/domain"
)

// RequestRepository encapsulates video-request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	// GetOwnership loads only the owning id pair.
	GetOwnership(ctx context.Context, id string) (*domain.RequestOwnership, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	const query = `
        INSERT INTO requests (fan_id, creator_id, occasion, instructions)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		request.FanID,
		request.CreatorID,
		request.Occasion,
		request.Instructions,
	).Scan(&request.ID, &request.CreatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	const query = `
        SELECT id, fan_id, creator_id, occasion, instructions, created_at
        FROM requests WHERE id=$1`
	var request domain.Request
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.FanID,
		&request.CreatorID,
		&request.Occasion,
		&request.Instructions,
		&request.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) GetOwnership(ctx context.Context, id string) (*domain.RequestOwnership, error) {
	const query = `SELECT fan_id, creator_id FROM requests WHERE id=$1`
	var own domain.RequestOwnership
	if err := r.pool.QueryRow(ctx, query, id).Scan(&own.FanID, &own.CreatorID); err != nil {
		return nil, err
	}
	return &own, nil
}
