package handler

import (
	"context"
	"time"

	"career-crafter/internal/delivery/http/dto"
	"career-crafter/internal/domain/resume"
	"career-crafter/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type ResumeUsecase interface {
	Get(ctx context.Context, externalID string) (*resume.Resume, error)
	Save(ctx context.Context, externalID, content string) (resume.Resume, error)
	Improve(ctx context.Context, externalID, current, sectionType string) (string, error)
}

type ResumeHandler struct {
	uc ResumeUsecase
}

func NewResumeHandler(uc ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/resume", h.Get)
	r.Put("/resume", h.Save)
	r.Post("/resume/improve", h.Improve)
}

type resumeResponse struct {
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *ResumeHandler) Get(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	r, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	if r == nil {
		return response.OK(c, nil)
	}
	return response.OK(c, resumeResponse{Content: r.Content, UpdatedAt: r.UpdatedAt})
}

func (h *ResumeHandler) Save(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	var req dto.SaveResumeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	r, err := h.uc.Save(c.Context(), id, req.Content)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, resumeResponse{Content: r.Content, UpdatedAt: r.UpdatedAt})
}

func (h *ResumeHandler) Improve(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	var req dto.ImproveResumeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	out, err := h.uc.Improve(c.Context(), id, req.Current, req.Type)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.ImproveResumeResponse{Content: out})
}
