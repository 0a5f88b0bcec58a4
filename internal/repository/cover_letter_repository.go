package repository

import (
	"context"
	"time"

	"career-crafter/internal/database"
	"career-crafter/internal/domain/coverletter"

	"github.com/google/uuid"
)

type PostgresCoverLetterRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresCoverLetterRepository(db database.DB) *PostgresCoverLetterRepository {
	return &PostgresCoverLetterRepository{db: db, now: time.Now}
}

const coverLetterColumns = `id, user_id, content, job_description, company_name, job_title, status, created_at, updated_at`

func (r *PostgresCoverLetterRepository) Create(ctx context.Context, c coverletter.CoverLetter) (coverletter.CoverLetter, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = coverletter.StatusCompleted
	}
	now := r.now().UTC()
	return scanCoverLetter(r.db.QueryRow(ctx,
		`INSERT INTO cover_letters (`+coverLetterColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 RETURNING `+coverLetterColumns,
		c.ID, c.UserID, c.Content, c.JobDescription, c.CompanyName, c.JobTitle, c.Status, now,
	))
}

func (r *PostgresCoverLetterRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]coverletter.CoverLetter, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+coverLetterColumns+`
		 FROM cover_letters
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]coverletter.CoverLetter, 0)
	for rows.Next() {
		c, err := scanCoverLetter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCoverLetterRepository) GetForUser(ctx context.Context, userID, id uuid.UUID) (coverletter.CoverLetter, error) {
	c, err := scanCoverLetter(r.db.QueryRow(ctx,
		`SELECT `+coverLetterColumns+` FROM cover_letters WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if database.IsNoRows(err) {
			return coverletter.CoverLetter{}, coverletter.ErrNotFound
		}
		return coverletter.CoverLetter{}, err
	}
	return c, nil
}

func scanCoverLetter(row database.Row) (coverletter.CoverLetter, error) {
	var c coverletter.CoverLetter
	err := row.Scan(&c.ID, &c.UserID, &c.Content, &c.JobDescription, &c.CompanyName, &c.JobTitle, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
