package domain

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	valid := Question{Prompt: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo", "Bern"}, CorrectOption: "Paris"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid question, got %v", err)
	}

	cases := map[string]Question{
		"empty prompt":   {Prompt: " ", Options: valid.Options, CorrectOption: "Paris"},
		"three options":  {Prompt: "q", Options: []string{"a", "b", "c"}, CorrectOption: "a"},
		"duplicate":      {Prompt: "q", Options: []string{"a", "a", "b", "c"}, CorrectOption: "a"},
		"correct absent": {Prompt: "q", Options: []string{"a", "b", "c", "d"}, CorrectOption: "e"},
	}
	for name, q := range cases {
		if err := q.Validate(); !errors.Is(err, ErrInvalidQuestion) {
			t.Fatalf("%s: expected invalid question, got %v", name, err)
		}
	}
}

func TestQuizSpecNormalize(t *testing.T) {
	spec, err := QuizSpec{Topic: "  history "}.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if spec.Topic != "history" || spec.Difficulty != DefaultDifficulty {
		t.Fatalf("unexpected spec %+v", spec)
	}
	if _, err := (QuizSpec{Topic: "   "}).Normalize(); !errors.Is(err, ErrTopicRequired) {
		t.Fatalf("expected topic error, got %v", err)
	}
	if _, err := (QuizSpec{Topic: "x", Difficulty: 11}).Normalize(); !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("expected difficulty error, got %v", err)
	}
}

func TestProfileValidate(t *testing.T) {
	p := Profile{Username: "  quizzer ", AvatarID: "avatar-3"}
	if errs := p.Validate(); errs != nil {
		t.Fatalf("expected valid profile, got %v", errs)
	}
	if p.Username != "quizzer" {
		t.Fatalf("expected trimmed username, got %q", p.Username)
	}

	bad := Profile{Username: "", AvatarID: "avatar-99"}
	errs := bad.Validate()
	if len(errs["username"]) != 1 || len(errs["avatarId"]) != 1 {
		t.Fatalf("expected both fields rejected, got %v", errs)
	}
}
