package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/creator-platform/internal/domain"
)

const undefinedTableCode = "42P01"

// RankingRepository reads creator rankings. The precomputed view is optional
// infrastructure: Snapshot reports its absence as a tagged outcome instead of
// an error so callers can branch to the live path.
type RankingRepository interface {
	// Snapshot reads the precomputed ranking view. The second return value
	// is false when the view does not exist in this deployment.
	Snapshot(ctx context.Context, limit int) ([]domain.CreatorRank, bool, error)
	// ComputeLive derives the same ranking from the primary tables.
	ComputeLive(ctx context.Context, limit int) ([]domain.CreatorRank, error)
}

type rankingRepository struct {
	pool *pgxpool.Pool
}

// NewRankingRepository instantiates repository.
func NewRankingRepository(pool *pgxpool.Pool) RankingRepository {
	return &rankingRepository{pool: pool}
}

func (r *rankingRepository) Snapshot(ctx context.Context, limit int) ([]domain.CreatorRank, bool, error) {
	query := fmt.Sprintf(`
        SELECT creator_id, display_name, avatar_url, rating, completed_orders, score
        FROM creator_rankings ORDER BY score DESC LIMIT %d`, normalizeLimit(limit))

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
			return nil, false, nil
		}
		return nil, true, err
	}
	defer rows.Close()

	ranks, err := scanRanks(rows)
	if err != nil {
		return nil, true, err
	}
	return ranks, true, nil
}

func (r *rankingRepository) ComputeLive(ctx context.Context, limit int) ([]domain.CreatorRank, error) {
	query := fmt.Sprintf(`
        SELECT p.id, p.display_name, p.avatar_url, COALESCE(p.rating, 0),
               COUNT(o.id) FILTER (WHERE o.status='completed'),
               COALESCE(p.rating, 0) * LN(1 + COUNT(o.id) FILTER (WHERE o.status='completed')) AS score
        FROM profiles p
        LEFT JOIN orders o ON o.creator_id = p.id
        WHERE p.role='creator'
        GROUP BY p.id, p.display_name, p.avatar_url, p.rating
        ORDER BY score DESC LIMIT %d`, normalizeLimit(limit))

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRanks(rows)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}

func scanRanks(rows pgx.Rows) ([]domain.CreatorRank, error) {
	var result []domain.CreatorRank
	for rows.Next() {
		var rank domain.CreatorRank
		if err := rows.Scan(
			&rank.CreatorID,
			&rank.DisplayName,
			&rank.AvatarURL,
			&rank.Rating,
			&rank.CompletedOrders,
			&rank.Score,
		); err != nil {
			return nil, err
		}
		result = append(result, rank)
	}
	return result, rows.Err()
}
