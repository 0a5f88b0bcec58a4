package handler

import (
	"errors"

	"career-crafter/internal/delivery/http/middleware"
	"career-crafter/internal/domain/coverletter"
	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/llm"
	"career-crafter/internal/pkg/response"
	coverletteruc "career-crafter/internal/usecase/coverletter"
	"career-crafter/internal/usecase/insight"
	"career-crafter/internal/usecase/interview"
	resumeuc "career-crafter/internal/usecase/resume"
	useruc "career-crafter/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

const (
	msgInvalidPayload      = "Invalid request payload"
	msgUnauthorized        = "Unauthorized"
	msgProfileIncomplete   = "Profile incomplete"
	msgInsightsUnavailable = "Insights are temporarily unavailable, please try again later"
	msgAIMisconfigured     = "AI service misconfigured"
	msgAIUnavailable       = "AI service is temporarily unavailable, please try again later"
)

// ProfileIncompleteData tells the client where to send the user.
type ProfileIncompleteData struct {
	Code     string `json:"code"`
	Redirect string `json:"redirect"`
}

func isInvalidInput(err error) bool {
	return errors.Is(err, useruc.ErrInvalidInput) ||
		errors.Is(err, insight.ErrInvalidInput) ||
		errors.Is(err, resumeuc.ErrInvalidInput) ||
		errors.Is(err, coverletteruc.ErrInvalidInput) ||
		errors.Is(err, interview.ErrInvalidInput)
}

// mapError turns a use case error into the AppError the error middleware renders.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, useruc.ErrUnauthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, msgUnauthorized, nil, err)
	case errors.Is(err, user.ErrProfileIncomplete):
		return middleware.NewAppError(fiber.StatusConflict, msgProfileIncomplete,
			ProfileIncompleteData{Code: "profile_incomplete", Redirect: "/onboarding"}, err)
	case isInvalidInput(err):
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidPayload, nil, err)
	case errors.Is(err, insight.ErrGenerationUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, msgInsightsUnavailable, nil, err)
	case errors.Is(err, insight.ErrBusy):
		return middleware.NewAppError(fiber.StatusConflict, "Insight generation already in progress", nil, err)
	case errors.Is(err, llm.ErrMisconfigured):
		return middleware.NewAppError(fiber.StatusBadGateway, msgAIMisconfigured, nil, err)
	case errors.Is(err, llm.ErrUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, msgAIUnavailable, nil, err)
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, coverletter.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Cover letter not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func externalID(c fiber.Ctx) (string, error) {
	id, ok := middleware.ExternalID(c)
	if !ok {
		return "", middleware.NewAppError(fiber.StatusUnauthorized, msgUnauthorized, nil, nil)
	}
	return id, nil
}

func badPayload(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidPayload, nil, err)
}
