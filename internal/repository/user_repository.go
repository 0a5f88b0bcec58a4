package repository

import (
	"context"
	"strings"
	"time"

	"career-crafter/internal/database"
	"career-crafter/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresUserRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, now: time.Now}
}

const userColumns = `id, external_user_id, email, name, image_url, industry, sub_industry,
	bio, experience, skills, created_at, updated_at`

func (r *PostgresUserRepository) GetByExternalID(ctx context.Context, externalID string) (user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE external_user_id = $1`,
		strings.TrimSpace(externalID),
	))
	if err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// EnsureByExternalID inserts the user when missing. Concurrent first requests race on the
// unique external id and both end up reading the same row.
func (r *PostgresUserRepository) EnsureByExternalID(ctx context.Context, id user.Identity) (user.User, error) {
	ext := strings.TrimSpace(id.ExternalUserID)
	now := r.now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, external_user_id, email, name, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 ON CONFLICT (external_user_id) DO NOTHING`,
		uuid.New(), ext, strings.TrimSpace(id.Email), strings.TrimSpace(id.Name), strings.TrimSpace(id.ImageURL), now,
	)
	if err != nil {
		return user.User{}, err
	}
	return r.GetByExternalID(ctx, ext)
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, externalID string, p user.ProfileUpdate) (user.User, error) {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	u, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users
		 SET industry = $2, sub_industry = $3, bio = $4, experience = $5, skills = $6, updated_at = $7
		 WHERE external_user_id = $1
		 RETURNING `+userColumns,
		strings.TrimSpace(externalID),
		p.Industry,
		p.SubIndustry,
		p.Bio,
		p.Experience,
		skills,
		r.now().UTC(),
	))
	if err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.ExternalUserID,
		&u.Email,
		&u.Name,
		&u.ImageURL,
		&u.Industry,
		&u.SubIndustry,
		&u.Bio,
		&u.Experience,
		&u.Skills,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
