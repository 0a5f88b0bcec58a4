package handler

import (
	"context"

	"career-crafter/internal/delivery/http/dto"
	"career-crafter/internal/delivery/http/middleware"
	"career-crafter/internal/domain/coverletter"
	"career-crafter/internal/pkg/response"
	coverletteruc "career-crafter/internal/usecase/coverletter"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CoverLetterUsecase interface {
	Generate(ctx context.Context, externalID string, in coverletteruc.GenerateInput) (string, error)
	Save(ctx context.Context, externalID string, in coverletteruc.SaveInput) (coverletter.CoverLetter, error)
	List(ctx context.Context, externalID string) ([]coverletter.CoverLetter, error)
	Get(ctx context.Context, externalID string, id uuid.UUID) (coverletter.CoverLetter, error)
}

type CoverLetterHandler struct {
	uc CoverLetterUsecase
}

func NewCoverLetterHandler(uc CoverLetterUsecase) *CoverLetterHandler {
	return &CoverLetterHandler{uc: uc}
}

func (h *CoverLetterHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/cover-letters/generate", h.Generate)
	r.Post("/cover-letters", h.Save)
	r.Get("/cover-letters", h.List)
	r.Get("/cover-letters/:id", h.Get)
}

func (h *CoverLetterHandler) Generate(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	var req dto.GenerateCoverLetterRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	letter, err := h.uc.Generate(c.Context(), id, coverletteruc.GenerateInput{
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		Contact:        coverletteruc.ContactInfo(req.ContactInfo),
	})
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.GenerateCoverLetterResponse{Content: letter})
}

func (h *CoverLetterHandler) Save(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	var req dto.SaveCoverLetterRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	saved, err := h.uc.Save(c.Context(), id, coverletteruc.SaveInput{
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		Content:        req.Content,
	})
	if err != nil {
		return mapError(err)
	}
	return response.Created(c, dto.NewCoverLetterResponse(saved))
}

func (h *CoverLetterHandler) List(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	letters, err := h.uc.List(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	out := make([]dto.CoverLetterResponse, 0, len(letters))
	for _, l := range letters {
		out = append(out, dto.NewCoverLetterResponse(l))
	}
	return response.OK(c, out)
}

func (h *CoverLetterHandler) Get(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	letterID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Cover letter not found", nil, err)
	}
	letter, err := h.uc.Get(c.Context(), id, letterID)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewCoverLetterResponse(letter))
}
