// Package generator produces question sets from a Gemini model.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trivia-service/internal/domain"

	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	defaultTemperature = 0.7
	defaultTimeout     = 30 * time.Second
)

// Config selects the model and its sampling settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// contentModel is the part of *genai.Models the generator calls.
type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini asks the model for a quiz and parses its JSON reply.
type Gemini struct {
	models      contentModel
	model       string
	temperature float32
	timeout     time.Duration
}

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, cfg), nil
}

func newGemini(models contentModel, cfg Config) *Gemini {
	g := &Gemini{
		models:      models,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.temperature <= 0 {
		g.temperature = defaultTemperature
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}
	return g
}

// Generate returns exactly domain.QuestionsPerQuiz questions for spec. Cancelling parent
// aborts the model call and returns its error; running past the generator's timeout is
// reported as domain.ErrGenerationFailed.
func (g *Gemini) Generate(parent context.Context, spec domain.QuizSpec) (domain.QuestionSet, error) {
	ctx, cancel := context.WithTimeout(parent, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(spec)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(g.temperature),
	})
	if err != nil {
		if parent.Err() != nil {
			return nil, parent.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if blocked(resp) {
		return nil, domain.ErrUnsafeTopic
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedQuestions)
	}
	return ParseQuestions(text)
}

func blocked(resp *genai.GenerateContentResponse) bool {
	if resp == nil {
		return false
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return true
	}
	for _, c := range resp.Candidates {
		if c != nil && c.FinishReason == genai.FinishReasonSafety {
			return true
		}
	}
	return false
}

func buildPrompt(spec domain.QuizSpec) string {
	return fmt.Sprintf(`Create a quiz of exactly %d multiple-choice questions about the topic '%s' with difficulty %d on a scale from %d to %d.
Each question must have exactly %d answer options.
There must be one and only one correct answer.
Return the result as a valid JSON array.
Each object in the array must have the keys "question" (string), "options" (an array of %d strings) and "correctAnswer" (a string exactly equal to one of the options).

Example output:
[
  {
    "question": "What is the capital of Vietnam?",
    "options": ["Hanoi", "Da Nang", "Ho Chi Minh City", "Hai Phong"],
    "correctAnswer": "Hanoi"
  }
]`,
		domain.QuestionsPerQuiz, spec.Topic, spec.Difficulty, domain.MinDifficulty, domain.MaxDifficulty,
		domain.OptionsPerQuestion, domain.OptionsPerQuestion)
}
