package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const CategoryTechnical = "Technical"

// Question is one multiple choice quiz item as produced by the model.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Result is a graded question as stored with the assessment.
type Result struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	UserAnswer  string `json:"userAnswer"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

type Assessment struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	QuizScore      float64
	Questions      []Result
	Category       string
	ImprovementTip string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repository interface {
	Create(ctx context.Context, a Assessment) (Assessment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Assessment, error)
}
