package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/sequencer"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestGameStoreRoundTripsSnapshot(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewGameStore(newClient(mr), time.Minute)
	session, _ := sequencer.NewSession(sampleSharedQuiz().Questions, 0)
	_ = session.Select("4")

	game := app.Game{ID: "game-1", Owner: "u1", Topic: "math", Difficulty: 3, Snapshot: session.Snapshot()}
	if err := store.Save(context.Background(), game); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("trivia:game:game-1") {
		t.Fatalf("expected redis key to be set")
	}

	got, err := store.Get(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	restored, err := sequencer.Restore(got.Snapshot)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if st, ok := restored.State().(sequencer.Answered); !ok || st.Selection != "4" {
		t.Fatalf("expected answered state, got %+v", restored.State())
	}

	_ = store.Delete(context.Background(), "game-1")
	if _, err := store.Get(context.Background(), "game-1"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected game removed, got %v", err)
	}
}

func TestGameStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewGameStore(newClient(mr), time.Minute)
	session, _ := sequencer.NewSession(sampleSharedQuiz().Questions, 0)
	_ = store.Save(context.Background(), app.Game{ID: "game-2", Snapshot: session.Snapshot()})

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(context.Background(), "game-2"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected expired game, got %v", err)
	}
}
