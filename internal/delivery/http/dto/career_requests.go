package dto

import (
	"time"

	"career-crafter/internal/domain/assessment"
	"career-crafter/internal/domain/coverletter"

	"github.com/google/uuid"
)

type SaveResumeRequest struct {
	Content string `json:"content"`
}

type ImproveResumeRequest struct {
	Current string `json:"current"`
	Type    string `json:"type"`
}

type ImproveResumeResponse struct {
	Content string `json:"content"`
}

type ContactInfo struct {
	FullName string `json:"fullName"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedIn"`
}

type GenerateCoverLetterRequest struct {
	CompanyName    string      `json:"companyName"`
	JobTitle       string      `json:"jobTitle"`
	JobDescription string      `json:"jobDescription"`
	ContactInfo    ContactInfo `json:"contactInfo"`
}

type GenerateCoverLetterResponse struct {
	Content string `json:"content"`
}

type SaveCoverLetterRequest struct {
	CompanyName    string `json:"companyName"`
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription"`
	Content        string `json:"content"`
}

type CoverLetterResponse struct {
	ID             uuid.UUID `json:"id"`
	CompanyName    string    `json:"companyName"`
	JobTitle       string    `json:"jobTitle"`
	JobDescription string    `json:"jobDescription"`
	Content        string    `json:"content"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewCoverLetterResponse(c coverletter.CoverLetter) CoverLetterResponse {
	return CoverLetterResponse{
		ID:             c.ID,
		CompanyName:    c.CompanyName,
		JobTitle:       c.JobTitle,
		JobDescription: c.JobDescription,
		Content:        c.Content,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type SaveAssessmentRequest struct {
	Questions []assessment.Question `json:"questions"`
	Answers   []string              `json:"answers"`
	Score     float64               `json:"score"`
}

type AssessmentResponse struct {
	ID             uuid.UUID           `json:"id"`
	QuizScore      float64             `json:"quizScore"`
	Questions      []assessment.Result `json:"questions"`
	Category       string              `json:"category"`
	ImprovementTip *string             `json:"improvementTip"`
	CreatedAt      time.Time           `json:"createdAt"`
}

func NewAssessmentResponse(a assessment.Assessment) AssessmentResponse {
	var tip *string
	if a.ImprovementTip != "" {
		t := a.ImprovementTip
		tip = &t
	}
	return AssessmentResponse{
		ID:             a.ID,
		QuizScore:      a.QuizScore,
		Questions:      a.Questions,
		Category:       a.Category,
		ImprovementTip: tip,
		CreatedAt:      a.CreatedAt,
	}
}
