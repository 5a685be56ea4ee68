package domain

import (
	"strings"
	"time"
)

// QuestionsPerQuiz is the fixed size of every generated or shared question set.
const QuestionsPerQuiz = 5

// OptionsPerQuestion is the number of answer choices each question carries.
const OptionsPerQuestion = 4

const (
	MinDifficulty     = 1
	MaxDifficulty     = 10
	DefaultDifficulty = 5
)

// Question models an MCQ question whose correct answer is one of its options.
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctAnswer"`
}

// Validate checks the shape of a single question: a prompt, four unique options and a
// correct answer that matches one of them.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return ErrInvalidQuestion
	}
	if len(q.Options) != OptionsPerQuestion {
		return ErrInvalidQuestion
	}
	seen := make(map[string]struct{}, len(q.Options))
	found := false
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return ErrInvalidQuestion
		}
		seen[opt] = struct{}{}
		if opt == q.CorrectOption {
			found = true
		}
	}
	if !found {
		return ErrInvalidQuestion
	}
	return nil
}

// QuestionSet is an ordered, read-only list of questions indexed by original position.
type QuestionSet []Question

// Validate checks that the set has the fixed length and that every question is well formed.
func (s QuestionSet) Validate() error {
	if len(s) != QuestionsPerQuiz {
		return ErrInvalidQuestion
	}
	for _, q := range s {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// QuizSpec is the player's setup choice.
type QuizSpec struct {
	Topic      string `json:"topic"`
	Difficulty int    `json:"difficulty"`
}

// Normalize trims the topic and fills in the default difficulty.
func (s QuizSpec) Normalize() (QuizSpec, error) {
	s.Topic = strings.TrimSpace(s.Topic)
	if s.Topic == "" {
		return s, ErrTopicRequired
	}
	if s.Difficulty == 0 {
		s.Difficulty = DefaultDifficulty
	}
	if s.Difficulty < MinDifficulty || s.Difficulty > MaxDifficulty {
		return s, ErrInvalidDifficulty
	}
	return s, nil
}

// SharedQuiz is a persisted question set that a friend can resume from StartIndex.
type SharedQuiz struct {
	ID         string      `json:"id"`
	Topic      string      `json:"topic"`
	Difficulty int         `json:"difficulty"`
	StartIndex int         `json:"startIndex"`
	Questions  QuestionSet `json:"questions"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// SharedResult is a persisted, completed play-through in original question order.
type SharedResult struct {
	ID          string      `json:"id"`
	Topic       string      `json:"topic"`
	Difficulty  int         `json:"difficulty"`
	Questions   QuestionSet `json:"questions"`
	UserAnswers []string    `json:"userAnswers"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Profile is the public identity a user picks after signing up.
type Profile struct {
	UserID    string    `json:"-"`
	Username  string    `json:"username"`
	AvatarID  string    `json:"avatarId"`
	UpdatedAt time.Time `json:"-"`
}

// Account is a locally known identity. PasswordHash is empty for federated accounts.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Provider     string
	CreatedAt    time.Time
}

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)
