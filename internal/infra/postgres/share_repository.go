package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"trivia-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ShareRepository stores shared quizzes and results as JSONB rows.
type ShareRepository struct {
	pool *pgxpool.Pool
}

func NewShareRepository(pool *pgxpool.Pool) *ShareRepository {
	return &ShareRepository{pool: pool}
}

func (r *ShareRepository) SaveQuiz(ctx context.Context, quiz domain.SharedQuiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO shared_quizzes (id, topic, difficulty, start_index, questions, created_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6)`,
		quiz.ID, quiz.Topic, quiz.Difficulty, quiz.StartIndex, string(questions), quiz.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert shared quiz: %w", err)
	}
	return nil
}

func (r *ShareRepository) GetQuiz(ctx context.Context, id string) (domain.SharedQuiz, error) {
	quiz := domain.SharedQuiz{ID: id}
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT topic, difficulty, start_index, questions, created_at FROM shared_quizzes WHERE id=$1`, id).
		Scan(&quiz.Topic, &quiz.Difficulty, &quiz.StartIndex, &raw, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SharedQuiz{}, domain.ErrShareNotFound
	}
	if err != nil {
		return domain.SharedQuiz{}, fmt.Errorf("load shared quiz: %w", err)
	}
	if err := json.Unmarshal(raw, &quiz.Questions); err != nil {
		return domain.SharedQuiz{}, fmt.Errorf("%w: %v", domain.ErrSharedLinkInvalid, err)
	}
	return quiz, nil
}

func (r *ShareRepository) SaveResult(ctx context.Context, result domain.SharedResult) error {
	questions, err := json.Marshal(result.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	answers, err := json.Marshal(result.UserAnswers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO shared_results (id, topic, difficulty, questions, user_answers, created_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6)`,
		result.ID, result.Topic, result.Difficulty, string(questions), string(answers), result.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert shared result: %w", err)
	}
	return nil
}

func (r *ShareRepository) GetResult(ctx context.Context, id string) (domain.SharedResult, error) {
	result := domain.SharedResult{ID: id}
	var rawQuestions, rawAnswers []byte
	err := r.pool.QueryRow(ctx,
		`SELECT topic, difficulty, questions, user_answers, created_at FROM shared_results WHERE id=$1`, id).
		Scan(&result.Topic, &result.Difficulty, &rawQuestions, &rawAnswers, &result.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SharedResult{}, domain.ErrShareNotFound
	}
	if err != nil {
		return domain.SharedResult{}, fmt.Errorf("load shared result: %w", err)
	}
	if err := json.Unmarshal(rawQuestions, &result.Questions); err != nil {
		return domain.SharedResult{}, fmt.Errorf("%w: %v", domain.ErrSharedLinkInvalid, err)
	}
	if err := json.Unmarshal(rawAnswers, &result.UserAnswers); err != nil {
		return domain.SharedResult{}, fmt.Errorf("%w: %v", domain.ErrSharedLinkInvalid, err)
	}
	return result, nil
}
