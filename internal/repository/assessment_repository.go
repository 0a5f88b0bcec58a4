package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-crafter/internal/database"
	"career-crafter/internal/domain/assessment"

	"github.com/google/uuid"
)

type PostgresAssessmentRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresAssessmentRepository(db database.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db, now: time.Now}
}

const assessmentColumns = `id, user_id, quiz_score, questions, category, improvement_tip, created_at, updated_at`

func (r *PostgresAssessmentRepository) Create(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return assessment.Assessment{}, fmt.Errorf("marshal questions: %w", err)
	}
	now := r.now().UTC()
	return scanAssessment(r.db.QueryRow(ctx,
		`INSERT INTO assessments (`+assessmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING `+assessmentColumns,
		a.ID, a.UserID, a.QuizScore, questions, a.Category, a.ImprovementTip, now,
	))
}

func (r *PostgresAssessmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]assessment.Assessment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assessmentColumns+`
		 FROM assessments
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAssessment(row database.Row) (assessment.Assessment, error) {
	var (
		a         assessment.Assessment
		questions []byte
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.QuizScore, &questions, &a.Category, &a.ImprovementTip, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return assessment.Assessment{}, err
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &a.Questions); err != nil {
			return assessment.Assessment{}, fmt.Errorf("decode assessment questions: %w", err)
		}
	}
	return a, nil
}
