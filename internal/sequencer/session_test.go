package sequencer

import (
	"errors"
	"reflect"
	"testing"
)

func TestSessionPlaysRotatedOrderAndScoresOriginalOrder(t *testing.T) {
	questions := questionsWithAnswers("A", "B", "C", "D", "E")
	session, err := NewSession(questions, 2)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	wantOriginal := []int{2, 3, 4, 0, 1}
	for p, idx := range wantOriginal {
		q, original, ok := session.Current()
		if !ok {
			t.Fatalf("position %d: expected a current question", p)
		}
		if original != idx || q.CorrectOption != questions[idx].CorrectOption {
			t.Fatalf("position %d: expected original %d, got %d", p, idx, original)
		}
		if err := session.Select(q.CorrectOption); err != nil {
			t.Fatalf("select: %v", err)
		}
		if err := session.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	completed, ok := session.State().(Completed)
	if !ok {
		t.Fatalf("expected completed, got %T", session.State())
	}
	if !reflect.DeepEqual(completed.FinalAnswers, []string{"A", "B", "C", "D", "E"}) {
		t.Fatalf("unexpected final answers %v", completed.FinalAnswers)
	}
	res, err := session.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 5 || res.Total != 5 || res.Remark != RemarkPerfect {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSessionLocksFirstAnswer(t *testing.T) {
	session, _ := NewSession(questionsWithAnswers("A", "B"), 0)

	if err := session.Select("A1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := session.Select("A"); !errors.Is(err, ErrAnswerLocked) {
		t.Fatalf("expected locked answer, got %v", err)
	}
	st, ok := session.State().(Answered)
	if !ok || st.Selection != "A1" || st.Position != 0 {
		t.Fatalf("expected first answer kept, got %+v", session.State())
	}
}

func TestSessionRejectsIllegalTransitions(t *testing.T) {
	session, _ := NewSession(questionsWithAnswers("A"), 0)

	if err := session.Advance(); !errors.Is(err, ErrNotAnswered) {
		t.Fatalf("expected not answered, got %v", err)
	}
	if _, err := session.Result(); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected not completed, got %v", err)
	}
	_ = session.Select("anything at all")
	if err := session.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := session.Advance(); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("expected double advance rejected, got %v", err)
	}
	if err := session.Select("A"); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("expected select after completion rejected, got %v", err)
	}
	if _, _, ok := session.Current(); ok {
		t.Fatalf("expected no current question after completion")
	}
}

func TestSessionOutOfRangeStartMatchesIdentity(t *testing.T) {
	questions := questionsWithAnswers("A", "B", "C", "D", "E")
	a, _ := NewSession(questions, len(questions))
	b, _ := NewSession(questions, 0)
	if !reflect.DeepEqual(a.PlayOrder(), b.PlayOrder()) {
		t.Fatalf("expected identical orders, got %v and %v", a.PlayOrder(), b.PlayOrder())
	}
}

func TestNewSessionRejectsEmptySet(t *testing.T) {
	if _, err := NewSession(nil, 0); !errors.Is(err, ErrEmptyQuestionSet) {
		t.Fatalf("expected empty set error, got %v", err)
	}
}

func TestSnapshotRestoreKeepsState(t *testing.T) {
	questions := questionsWithAnswers("A", "B", "C")
	session, _ := NewSession(questions, 1)
	_ = session.Select("B")

	restored, err := Restore(session.Snapshot())
	if err != nil {
		t.Fatalf("restore answered: %v", err)
	}
	if !reflect.DeepEqual(restored.State(), Answered{Position: 0, Selection: "B"}) {
		t.Fatalf("unexpected restored state %+v", restored.State())
	}

	_ = restored.Advance()
	restored, err = Restore(restored.Snapshot())
	if err != nil {
		t.Fatalf("restore awaiting: %v", err)
	}
	if !reflect.DeepEqual(restored.State(), AwaitingSelection{Position: 1}) {
		t.Fatalf("unexpected restored state %+v", restored.State())
	}

	for i := 0; i < 2; i++ {
		q, _, _ := restored.Current()
		_ = restored.Select(q.CorrectOption)
		_ = restored.Advance()
	}
	restored, err = Restore(restored.Snapshot())
	if err != nil {
		t.Fatalf("restore completed: %v", err)
	}
	res, err := restored.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 3 {
		t.Fatalf("expected score 3, got %d", res.Score)
	}
}

func TestRestoreRejectsInconsistentSnapshot(t *testing.T) {
	questions := questionsWithAnswers("A", "B")
	if _, err := Restore(Snapshot{Questions: questions, PlayOrder: []int{0}, Phase: phaseAwaiting}); err == nil {
		t.Fatalf("expected error for short play order")
	}
	if _, err := Restore(Snapshot{Questions: questions, PlayOrder: []int{0, 1}, Phase: "paused"}); err == nil {
		t.Fatalf("expected error for unknown phase")
	}
	if _, err := Restore(Snapshot{Questions: questions, PlayOrder: []int{0, 1}, Phase: phaseAnswered}); err == nil {
		t.Fatalf("expected error for answered without answers")
	}
	for _, order := range [][]int{{0, 7}, {1, 1}, {-1, 0}} {
		_, err := Restore(Snapshot{Questions: questions, PlayOrder: order, Answers: []string{"A"}, Phase: phaseAnswered})
		if !errors.Is(err, ErrInvalidPlayOrder) {
			t.Fatalf("expected invalid play order for %v, got %v", order, err)
		}
	}
}
