package handler

import (
	"context"

	"career-crafter/internal/delivery/http/dto"
	"career-crafter/internal/domain/assessment"
	"career-crafter/internal/pkg/response"
	"career-crafter/internal/usecase/interview"

	"github.com/gofiber/fiber/v3"
)

type InterviewUsecase interface {
	GenerateQuiz(ctx context.Context, externalID string) ([]assessment.Question, error)
	SaveResult(ctx context.Context, externalID string, in interview.SaveInput) (assessment.Assessment, error)
	ListAssessments(ctx context.Context, externalID string) ([]assessment.Assessment, error)
}

type InterviewHandler struct {
	uc InterviewUsecase
}

func NewInterviewHandler(uc InterviewUsecase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/interview/quiz", h.Quiz)
	r.Post("/interview/assessments", h.SaveAssessment)
	r.Get("/interview/assessments", h.ListAssessments)
}

func (h *InterviewHandler) Quiz(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	qs, err := h.uc.GenerateQuiz(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, qs)
}

func (h *InterviewHandler) SaveAssessment(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	var req dto.SaveAssessmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return badPayload(err)
	}
	saved, err := h.uc.SaveResult(c.Context(), id, interview.SaveInput{
		Questions: req.Questions,
		Answers:   req.Answers,
		Score:     req.Score,
	})
	if err != nil {
		return mapError(err)
	}
	return response.Created(c, dto.NewAssessmentResponse(saved))
}

func (h *InterviewHandler) ListAssessments(c fiber.Ctx) error {
	id, err := externalID(c)
	if err != nil {
		return err
	}
	list, err := h.uc.ListAssessments(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	out := make([]dto.AssessmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewAssessmentResponse(a))
	}
	return response.OK(c, out)
}
