package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/creator-platform/internal/domain"
)

// CreatorFilter captures creator search parameters. Nil fields impose no
// constraint.
type CreatorFilter struct {
	Query         *string
	Category      *string
	MinPriceCents *int64
	MaxPriceCents *int64
	Limit         int
	Offset        int
}

// ProfileFields is the partial update set for profiles. Only non-nil fields
// are written; the struct itself is the write allow-list.
type ProfileFields struct {
	DisplayName       *string
	AvatarURL         *string
	Bio               *string
	PriceCents        *int64
	ResponseTimeHours *int
	SocialLinks       map[string]string
	Categories        []string
	Languages         []string
}

// ProfileRepository encapsulates profile persistence.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetCreatorByID(ctx context.Context, id string) (*domain.CreatorProfile, error)
	Search(ctx context.Context, filter CreatorFilter) ([]domain.Profile, error)
	UpdateFields(ctx context.Context, id string, fields ProfileFields) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `id, email, display_name, avatar_url, bio, role, price_cents,
               response_time_hours, rating, review_count, verified, social_links,
               categories, languages, created_at, updated_at`

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (id, email, display_name, avatar_url, bio, role, social_links, categories, languages)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Email,
		profile.DisplayName,
		profile.AvatarURL,
		profile.Bio,
		profile.Role,
		profile.SocialLinks,
		profile.Categories,
		profile.Languages,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1`
	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, id).Scan(profileScanTargets(&profile)...); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetCreatorByID loads the profile together with its commercial columns and
// subscription tiers. Returns pgx.ErrNoRows when no such profile exists; the
// caller decides what a non-creator role means.
func (r *profileRepository) GetCreatorByID(ctx context.Context, id string) (*domain.CreatorProfile, error) {
	query := `SELECT ` + profileColumns + `, total_earnings_cents, completed_orders, response_rate
        FROM profiles WHERE id=$1`

	var creator domain.CreatorProfile
	targets := profileScanTargets(&creator.Profile)
	targets = append(targets, &creator.TotalEarningsCents, &creator.CompletedOrders, &creator.ResponseRate)
	if err := r.pool.QueryRow(ctx, query, id).Scan(targets...); err != nil {
		return nil, err
	}

	const tierQuery = `
        SELECT id, creator_id, name, price_cents, perks
        FROM subscription_tiers WHERE creator_id=$1 ORDER BY price_cents ASC`
	rows, err := r.pool.Query(ctx, tierQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tier domain.SubscriptionTier
		if err := rows.Scan(&tier.ID, &tier.CreatorID, &tier.Name, &tier.PriceCents, &tier.Perks); err != nil {
			return nil, err
		}
		creator.Tiers = append(creator.Tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &creator, nil
}

func (r *profileRepository) Search(ctx context.Context, filter CreatorFilter) ([]domain.Profile, error) {
	base := `SELECT ` + profileColumns + ` FROM profiles`
	clauses := []string{"role='creator'"}
	args := []any{}

	if filter.Query != nil && strings.TrimSpace(*filter.Query) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Query)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(display_name) LIKE %s OR LOWER(bio) LIKE %s)", placeholder, placeholder))
	}
	if filter.Category != nil && *filter.Category != "" {
		args = append(args, []string{*filter.Category})
		clauses = append(clauses, fmt.Sprintf("categories @> $%d", len(args)))
	}
	if filter.MinPriceCents != nil {
		args = append(args, *filter.MinPriceCents)
		clauses = append(clauses, fmt.Sprintf("price_cents >= $%d", len(args)))
	}
	if filter.MaxPriceCents != nil {
		args = append(args, *filter.MaxPriceCents)
		clauses = append(clauses, fmt.Sprintf("price_cents <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY rating DESC NULLS LAST LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (r *profileRepository) UpdateFields(ctx context.Context, id string, fields ProfileFields) error {
	sets := []string{}
	args := []any{}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if fields.DisplayName != nil {
		appendSet("display_name", *fields.DisplayName)
	}
	if fields.AvatarURL != nil {
		appendSet("avatar_url", *fields.AvatarURL)
	}
	if fields.Bio != nil {
		appendSet("bio", *fields.Bio)
	}
	if fields.PriceCents != nil {
		appendSet("price_cents", *fields.PriceCents)
	}
	if fields.ResponseTimeHours != nil {
		appendSet("response_time_hours", *fields.ResponseTimeHours)
	}
	if fields.SocialLinks != nil {
		appendSet("social_links", fields.SocialLinks)
	}
	if fields.Categories != nil {
		appendSet("categories", fields.Categories)
	}
	if fields.Languages != nil {
		appendSet("languages", fields.Languages)
	}

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE profiles SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func profileScanTargets(profile *domain.Profile) []any {
	return []any{
		&profile.ID,
		&profile.Email,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Role,
		&profile.PriceCents,
		&profile.ResponseTimeHours,
		&profile.Rating,
		&profile.ReviewCount,
		&profile.Verified,
		&profile.SocialLinks,
		&profile.Categories,
		&profile.Languages,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	}
}

func scanProfiles(rows pgx.Rows) ([]domain.Profile, error) {
	var result []domain.Profile
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(profileScanTargets(&profile)...); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}
