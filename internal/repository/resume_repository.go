package repository

import (
	"context"
	"time"

	"career-crafter/internal/database"
	"career-crafter/internal/domain/resume"

	"github.com/google/uuid"
)

type PostgresResumeRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db, now: time.Now}
}

func (r *PostgresResumeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (resume.Resume, error) {
	res, err := scanResume(r.db.QueryRow(ctx,
		`SELECT id, user_id, content, ats_score, feedback, created_at, updated_at
		 FROM resumes
		 WHERE user_id = $1`,
		userID,
	))
	if err != nil {
		if database.IsNoRows(err) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, err
	}
	return res, nil
}

func (r *PostgresResumeRepository) Upsert(ctx context.Context, userID uuid.UUID, content string) (resume.Resume, error) {
	now := r.now().UTC()
	return scanResume(r.db.QueryRow(ctx,
		`INSERT INTO resumes (id, user_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (user_id) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
		 RETURNING id, user_id, content, ats_score, feedback, created_at, updated_at`,
		uuid.New(), userID, content, now,
	))
}

func scanResume(row database.Row) (resume.Resume, error) {
	var res resume.Resume
	err := row.Scan(&res.ID, &res.UserID, &res.Content, &res.ATSScore, &res.Feedback, &res.CreatedAt, &res.UpdatedAt)
	return res, err
}
