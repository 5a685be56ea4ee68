package sequencer

import (
	"errors"
	"fmt"

	"trivia-service/internal/domain"
)

var (
	// ErrAnswerLocked is returned when a second selection is made at the same play position.
	ErrAnswerLocked = errors.New("answer already locked for this question")
	// ErrNotAnswered is returned when advancing before an option was selected.
	ErrNotAnswered = errors.New("question has not been answered")
	// ErrSessionCompleted is returned for any event after the last question was advanced past.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrNotCompleted is returned when a result is requested mid-play.
	ErrNotCompleted = errors.New("session not completed")
	ErrEmptyQuestionSet = errors.New("question set is empty")
)

// State is one of AwaitingSelection, Answered or Completed.
type State interface {
	isState()
}

// AwaitingSelection waits for the player to pick an option at play position Position.
type AwaitingSelection struct {
	Position int
}

// Answered holds the locked selection at play position Position.
type Answered struct {
	Position  int
	Selection string
}

// Completed is terminal; FinalAnswers are in original question order.
type Completed struct {
	FinalAnswers []string
}

func (AwaitingSelection) isState() {}
func (Answered) isState()          {}
func (Completed) isState()         {}

// Session is a single play-through of a question set. It is not safe for concurrent use.
type Session struct {
	questions domain.QuestionSet
	order     []int
	log       []string
	state     State
}

// NewSession starts a play-through at AwaitingSelection(0). startIndex rotates the play
// order; out of range values play in original order.
func NewSession(questions domain.QuestionSet, startIndex int) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}
	return &Session{
		questions: questions,
		order:     DerivePlayOrder(len(questions), startIndex),
		log:       make([]string, 0, len(questions)),
		state:     AwaitingSelection{Position: 0},
	}, nil
}

func (s *Session) State() State {
	return s.state
}

// Questions returns the question set in original order.
func (s *Session) Questions() domain.QuestionSet {
	return s.questions
}

// PlayOrder returns a copy of the play order.
func (s *Session) PlayOrder() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Position reports the current play position, or len(questions) once completed.
func (s *Session) Position() int {
	switch st := s.state.(type) {
	case AwaitingSelection:
		return st.Position
	case Answered:
		return st.Position
	default:
		return len(s.questions)
	}
}

// Current returns the question shown at the current play position along with its
// original index. ok is false once the session is completed.
func (s *Session) Current() (q domain.Question, originalIndex int, ok bool) {
	if _, done := s.state.(Completed); done {
		return domain.Question{}, -1, false
	}
	idx := s.order[s.Position()]
	return s.questions[idx], idx, true
}

// Select locks the player's choice for the current question.
func (s *Session) Select(option string) error {
	switch st := s.state.(type) {
	case AwaitingSelection:
		s.log = RecordAnswer(s.log, option)
		s.state = Answered{Position: st.Position, Selection: option}
		return nil
	case Answered:
		return ErrAnswerLocked
	default:
		return ErrSessionCompleted
	}
}

// Advance moves to the next play position, or completes the session after the last one.
func (s *Session) Advance() error {
	switch st := s.state.(type) {
	case AwaitingSelection:
		return ErrNotAnswered
	case Answered:
		next := st.Position + 1
		if next < len(s.questions) {
			s.state = AwaitingSelection{Position: next}
			return nil
		}
		final, err := FinalizeAnswers(s.log, s.order, len(s.questions))
		if err != nil {
			return err
		}
		s.log = nil
		s.state = Completed{FinalAnswers: final}
		return nil
	default:
		return ErrSessionCompleted
	}
}

// Result summarizes a completed play-through.
type Result struct {
	Questions    domain.QuestionSet `json:"questions"`
	FinalAnswers []string           `json:"userAnswers"`
	Score        int                `json:"score"`
	Total        int                `json:"total"`
	Remark       string             `json:"remark"`
}

func (s *Session) Result() (Result, error) {
	st, ok := s.state.(Completed)
	if !ok {
		return Result{}, ErrNotCompleted
	}
	score := ComputeScore(s.questions, st.FinalAnswers)
	return Result{
		Questions:    s.questions,
		FinalAnswers: st.FinalAnswers,
		Score:        score,
		Total:        len(s.questions),
		Remark:       Remark(score, len(s.questions)),
	}, nil
}

// Snapshot is the storable form of a Session.
type Snapshot struct {
	Questions    domain.QuestionSet `json:"questions"`
	PlayOrder    []int              `json:"playOrder"`
	Answers      []string           `json:"answers,omitempty"`
	Phase        string             `json:"phase"`
	FinalAnswers []string           `json:"finalAnswers,omitempty"`
}

const (
	phaseAwaiting  = "awaiting"
	phaseAnswered  = "answered"
	phaseCompleted = "completed"
)

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Questions: s.questions,
		PlayOrder: s.PlayOrder(),
		Answers:   append([]string(nil), s.log...),
	}
	switch st := s.state.(type) {
	case AwaitingSelection:
		snap.Phase = phaseAwaiting
	case Answered:
		snap.Phase = phaseAnswered
	case Completed:
		snap.Phase = phaseCompleted
		snap.FinalAnswers = append([]string(nil), st.FinalAnswers...)
	}
	return snap
}

// Restore rebuilds a Session from a snapshot, rejecting inconsistent ones.
func Restore(snap Snapshot) (*Session, error) {
	n := len(snap.Questions)
	if n == 0 {
		return nil, ErrEmptyQuestionSet
	}
	if err := checkPermutation(snap.PlayOrder, n); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s := &Session{
		questions: snap.Questions,
		order:     append([]int(nil), snap.PlayOrder...),
		log:       append(make([]string, 0, n), snap.Answers...),
	}
	switch snap.Phase {
	case phaseAwaiting:
		if len(s.log) >= n {
			return nil, fmt.Errorf("restore session: %d answers while awaiting", len(s.log))
		}
		s.state = AwaitingSelection{Position: len(s.log)}
	case phaseAnswered:
		if len(s.log) == 0 || len(s.log) > n {
			return nil, fmt.Errorf("restore session: %d answers while answered", len(s.log))
		}
		p := len(s.log) - 1
		s.state = Answered{Position: p, Selection: s.log[p]}
	case phaseCompleted:
		if len(snap.FinalAnswers) != n {
			return nil, fmt.Errorf("restore session: %w", ErrLengthMismatch)
		}
		s.log = nil
		s.state = Completed{FinalAnswers: append([]string(nil), snap.FinalAnswers...)}
	default:
		return nil, fmt.Errorf("restore session: unknown phase %q", snap.Phase)
	}
	return s, nil
}
