package postgres

import (
	"context"
	"errors"
	"fmt"

	"trivia-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AccountRepository stores local identities.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, provider, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Email, a.PasswordHash, a.Provider, a.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) AccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.queryOne(ctx, `SELECT id, email, password_hash, provider, created_at FROM accounts WHERE lower(email)=lower($1)`, email)
}

func (r *AccountRepository) AccountByID(ctx context.Context, id string) (domain.Account, error) {
	return r.queryOne(ctx, `SELECT id, email, password_hash, provider, created_at FROM accounts WHERE id=$1`, id)
}

func (r *AccountRepository) queryOne(ctx context.Context, query string, arg string) (domain.Account, error) {
	var a domain.Account
	err := r.pool.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Provider, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("load account: %w", err)
	}
	return a, nil
}
