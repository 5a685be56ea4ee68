package app_test

import (
	"context"
	"errors"
	"testing"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

func TestProfileSetupFlow(t *testing.T) {
	ctx := context.Background()
	profiles := app.NewProfileService(memory.NewProfileStore())

	needs, err := profiles.NeedsSetup(ctx, "u1")
	if err != nil || !needs {
		t.Fatalf("expected setup needed, got %v/%v", needs, err)
	}
	if _, err := profiles.Get(ctx, "u1"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}

	_, err = profiles.Update(ctx, "u1", domain.Profile{Username: "", AvatarID: "avatar-99"})
	var fieldErrs domain.FieldErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs["username"]) == 0 || len(fieldErrs["avatarId"]) == 0 {
		t.Fatalf("expected field errors, got %v", err)
	}

	saved, err := profiles.Update(ctx, "u1", domain.Profile{Username: "  quizmaster ", AvatarID: "avatar-3"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if saved.Username != "quizmaster" || saved.UserID != "u1" {
		t.Fatalf("unexpected profile %+v", saved)
	}
	if needs, _ := profiles.NeedsSetup(ctx, "u1"); needs {
		t.Fatalf("expected profile to be complete")
	}

	if _, err := profiles.Update(ctx, "u2", domain.Profile{Username: "QuizMaster", AvatarID: "avatar-1"}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
}
