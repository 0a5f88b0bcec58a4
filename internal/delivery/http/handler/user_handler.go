package handler

import (
	"context"

	"career-crafter/internal/delivery/http/dto"
	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/response"
	"career-crafter/internal/usecase/insight"
	useruc "career-crafter/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserUsecase interface {
	GetMe(ctx context.Context, externalID string) (user.User, error)
	OnboardingStatus(ctx context.Context, externalID string) (useruc.OnboardingStatus, error)
	UpdateProfile(ctx context.Context, externalID string, in useruc.UpdateProfileInput) (user.User, error)
	Dashboard(ctx context.Context, externalID string) (insight.Result, error)
}

type UserHandler struct {
	uc UserUsecase
}

func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/users/me", h.GetMe)
	r.Put("/users/me", h.UpdateMe)
	r.Get("/users/me/onboarding", h.Onboarding)
	r.Get("/insights", h.Insights)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	usr, err := h.uc.GetMe(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewUserProfileResponse(usr))
}

func (h *UserHandler) Onboarding(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	st, err := h.uc.OnboardingStatus(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, st)
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}

	usr, err := h.uc.UpdateProfile(c.Context(), id, useruc.UpdateProfileInput{
		Industry:    req.Industry,
		SubIndustry: req.SubIndustry,
		Bio:         req.Bio,
		Experience:  req.Experience,
		Skills:      req.Skills,
	})
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewUserProfileResponse(usr))
}

// Insights serves the dashboard for the caller's industry.
func (h *UserHandler) Insights(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	res, err := h.uc.Dashboard(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewInsightResponse(res))
}
