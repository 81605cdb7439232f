package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/auth"
	"github.com/spec-kit/creator-platform/internal/service"
)

// ProfilesHandler exposes profile reads, creator discovery, and self-service
// profile updates.
type ProfilesHandler struct {
	profiles *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profiles *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles}
}

// Get handles GET /profiles/:id.
func (h *ProfilesHandler) Get(c *fiber.Ctx) error {
	resolver, ok := auth.ResolverFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}

	profile := h.profiles.GetProfileByID(c.UserContext(), resolver, c.Params("id"))
	if profile == nil {
		return fiber.NewError(http.StatusNotFound, "profile not found")
	}
	return c.JSON(fiber.Map{"data": profile})
}

// Update handles PATCH /profiles/:id.
func (h *ProfilesHandler) Update(c *fiber.Ctx) error {
	resolver, ok := auth.ResolverFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "session required")
	}

	var req dto.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if !h.profiles.UpdateProfile(c.UserContext(), resolver, c.Params("id"), req) {
		return fiber.NewError(http.StatusForbidden, "profile update rejected")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// GetCreator handles GET /creators/:id.
func (h *ProfilesHandler) GetCreator(c *fiber.Ctx) error {
	creator := h.profiles.GetCreatorProfile(c.UserContext(), c.Params("id"))
	if creator == nil {
		return fiber.NewError(http.StatusNotFound, "creator not found")
	}
	return c.JSON(fiber.Map{"data": creator})
}

// Search handles GET /creators.
func (h *ProfilesHandler) Search(c *fiber.Ctx) error {
	search := dto.CreatorSearch{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if q := c.Query("q"); q != "" {
		search.Query = &q
	}
	if category := c.Query("category"); category != "" {
		search.Category = &category
	}
	if min := int64(c.QueryInt("min_price_cents", -1)); min >= 0 {
		search.MinPriceCents = &min
	}
	if max := int64(c.QueryInt("max_price_cents", -1)); max >= 0 {
		search.MaxPriceCents = &max
	}
	return c.JSON(fiber.Map{"data": h.profiles.SearchCreators(c.UserContext(), search)})
}

// Top handles GET /creators/top.
func (h *ProfilesHandler) Top(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	return c.JSON(fiber.Map{"data": h.profiles.GetTopCreators(c.UserContext(), limit)})
}
