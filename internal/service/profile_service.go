package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/domain"
	"github.com/spec-kit/creator-platform/internal/events"
	"github.com/spec-kit/creator-platform/internal/repository"
)

// ProfileService owns profile reads, creator search, self-service updates,
// and the top-creators ranking. Expected negatives surface as nil/false/empty.
type ProfileService struct {
	profiles   repository.ProfileRepository
	rankings   repository.RankingRepository
	access     *AccessService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ProfileDependencies bundles collaborators for the profile service.
type ProfileDependencies struct {
	ProfileRepo repository.ProfileRepository
	RankingRepo repository.RankingRepository
	Access      *AccessService
	Dispatcher  events.Dispatcher
}

// NewProfileService constructs the service.
func NewProfileService(deps ProfileDependencies, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles:   deps.ProfileRepo,
		rankings:   deps.RankingRepo,
		access:     deps.Access,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// GetProfileByID returns the full profile when the caller is the owner or an
// admin, nil otherwise. Public creator data goes through GetCreatorProfile
// and SearchCreators instead.
func (s *ProfileService) GetProfileByID(ctx context.Context, resolver IdentityResolver, id string) *domain.Profile {
	ident := resolver.Resolve(ctx)
	if ident == nil {
		return nil
	}
	if !s.access.CanAccessResource(ctx, ident, ResourceProfile, id) {
		return nil
	}
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("profile fetch failed", zap.String("profile_id", id), zap.Error(err))
		}
		return nil
	}
	return profile
}

// GetCreatorProfile returns the public creator storefront: base profile plus
// commercial metadata and tiers. Nil when the id does not belong to a
// creator-role profile.
func (s *ProfileService) GetCreatorProfile(ctx context.Context, id string) *domain.CreatorProfile {
	creator, err := s.profiles.GetCreatorByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("creator fetch failed", zap.String("profile_id", id), zap.Error(err))
		}
		return nil
	}
	if creator.Role != domain.RoleCreator {
		return nil
	}
	return creator
}

// SearchCreators filters creators by free text, category containment, and
// price range. All filters are optional and combine independently; an
// unspecified filter imposes no constraint.
func (s *ProfileService) SearchCreators(ctx context.Context, search dto.CreatorSearch) []domain.Profile {
	results, err := s.profiles.Search(ctx, repository.CreatorFilter{
		Query:         search.Query,
		Category:      search.Category,
		MinPriceCents: search.MinPriceCents,
		MaxPriceCents: search.MaxPriceCents,
		Limit:         search.Limit,
		Offset:        search.Offset,
	})
	if err != nil {
		s.logger.Warn("creator search failed", zap.Error(err))
		return []domain.Profile{}
	}
	if results == nil {
		results = []domain.Profile{}
	}
	return results
}

// UpdateProfile writes the allow-listed fields onto the caller's own profile.
// Only the non-nil fields of the update are written; anything outside the
// allow-list never reaches storage. Returns false for non-owners.
func (s *ProfileService) UpdateProfile(ctx context.Context, resolver IdentityResolver, id string, update dto.ProfileUpdate) bool {
	ident := resolver.Resolve(ctx)
	if ident == nil {
		return false
	}
	if ident.ID != id {
		return false
	}
	if update.Empty() {
		return true
	}

	fields := repository.ProfileFields{
		DisplayName:       update.DisplayName,
		AvatarURL:         update.AvatarURL,
		Bio:               update.Bio,
		PriceCents:        update.PriceCents,
		ResponseTimeHours: update.ResponseTimeHours,
		SocialLinks:       update.SocialLinks,
		Categories:        update.Categories,
		Languages:         update.Languages,
	}
	if err := s.profiles.UpdateFields(ctx, id, fields); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("profile update failed", zap.String("profile_id", id), zap.Error(err))
		}
		return false
	}

	s.publishUpdated(ctx, ident.ID, id, update)
	return true
}

// GetTopCreators serves the ranking. The precomputed view is probed first;
// when it is absent the ranking is computed live from the primary tables.
// Callers never observe an error, only a possibly empty list.
func (s *ProfileService) GetTopCreators(ctx context.Context, limit int) []domain.CreatorRank {
	ranks, available, err := s.rankings.Snapshot(ctx, limit)
	if err != nil {
		s.logger.Warn("ranking snapshot failed", zap.Error(err))
		return []domain.CreatorRank{}
	}
	if !available {
		ranks, err = s.rankings.ComputeLive(ctx, limit)
		if err != nil {
			s.logger.Warn("live ranking failed", zap.Error(err))
			return []domain.CreatorRank{}
		}
	}
	if ranks == nil {
		ranks = []domain.CreatorRank{}
	}
	return ranks
}

func (s *ProfileService) publishUpdated(ctx context.Context, actorID, profileID string, update dto.ProfileUpdate) {
	if s.dispatcher == nil {
		return
	}
	fields := []string{}
	if update.DisplayName != nil {
		fields = append(fields, "display_name")
	}
	if update.AvatarURL != nil {
		fields = append(fields, "avatar_url")
	}
	if update.Bio != nil {
		fields = append(fields, "bio")
	}
	if update.PriceCents != nil {
		fields = append(fields, "price_cents")
	}
	if update.ResponseTimeHours != nil {
		fields = append(fields, "response_time_hours")
	}
	if update.SocialLinks != nil {
		fields = append(fields, "social_links")
	}
	if update.Categories != nil {
		fields = append(fields, "categories")
	}
	if update.Languages != nil {
		fields = append(fields, "languages")
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventProfileUpdated,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   events.ProfileUpdatedPayload{ProfileID: profileID, Fields: fields},
	})
}
