package postgres

import (
	"context"
	"errors"
	"fmt"

	"trivia-service/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// ProfileRepository stores user profiles.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	p := domain.Profile{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`SELECT username, avatar_id, updated_at FROM profiles WHERE user_id=$1`, userID).
		Scan(&p.Username, &p.AvatarID, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, username, avatar_id, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET username=EXCLUDED.username, avatar_id=EXCLUDED.avatar_id, updated_at=EXCLUDED.updated_at`,
		p.UserID, p.Username, p.AvatarID, p.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
