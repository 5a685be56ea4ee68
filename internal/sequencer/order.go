// Package sequencer decouples the order in which a question set is played from the
// original order used for scoring and re-sharing.
package sequencer

import (
	"errors"
	"fmt"

	"trivia-service/internal/domain"
)

// ErrLengthMismatch reports a caller defect: the answer log, the play order and the
// question count must all have the same length when answers are finalized.
var ErrLengthMismatch = errors.New("answer log and play order lengths differ")

// ErrInvalidPlayOrder marks a play order that is not a permutation of the question indexes.
var ErrInvalidPlayOrder = errors.New("play order is not a permutation")

// DerivePlayOrder returns the play order for n questions started at offset s.
// Play position p maps to original index (s+p) mod n. Any s outside [1, n-1]
// yields the identity order.
func DerivePlayOrder(n, s int) []int {
	if n <= 0 {
		return []int{}
	}
	if s <= 0 || s >= n {
		s = 0
	}
	order := make([]int, n)
	for p := range order {
		order[p] = (s + p) % n
	}
	return order
}

// RecordAnswer appends the selected option to the answer log. Any string is accepted.
func RecordAnswer(log []string, selected string) []string {
	return append(log, selected)
}

// FinalizeAnswers maps answers recorded in play order back to original question order.
func FinalizeAnswers(log []string, order []int, n int) ([]string, error) {
	if len(log) != n || len(order) != n {
		return nil, fmt.Errorf("%w: answers=%d order=%d questions=%d", ErrLengthMismatch, len(log), len(order), n)
	}
	if err := checkPermutation(order, n); err != nil {
		return nil, err
	}
	final := make([]string, n)
	for p, idx := range order {
		final[idx] = log[p]
	}
	return final, nil
}

func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: order=%d questions=%d", ErrLengthMismatch, len(order), n)
	}
	seen := make([]bool, n)
	for p, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return fmt.Errorf("%w: index %d at position %d", ErrInvalidPlayOrder, idx, p)
		}
		seen[idx] = true
	}
	return nil
}

// ComputeScore counts the answers that exactly match the correct option of the
// question at the same original index.
func ComputeScore(questions domain.QuestionSet, final []string) int {
	score := 0
	for i, q := range questions {
		if i < len(final) && final[i] == q.CorrectOption {
			score++
		}
	}
	return score
}

// Remark grades a score the way the results screen words it.
func Remark(score, total int) string {
	if total <= 0 {
		return RemarkKeepTrying
	}
	pct := score * 100 / total
	switch {
	case pct == 100:
		return RemarkPerfect
	case pct >= 80:
		return RemarkGreat
	case pct >= 50:
		return RemarkFair
	default:
		return RemarkKeepTrying
	}
}

const (
	RemarkPerfect    = "Excellent! You are a master!"
	RemarkGreat      = "Very good result!"
	RemarkFair       = "Not bad, keep pushing!"
	RemarkKeepTrying = "You need more practice!"
)
