package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"trivia-service/internal/domain"
)

var fencePattern = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// ParseQuestions decodes a model reply into a question set. A Markdown code fence around
// the JSON is tolerated and entries past domain.QuestionsPerQuiz are dropped.
func ParseQuestions(text string) (domain.QuestionSet, error) {
	body := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(body); m != nil && m[2] != "" {
		body = strings.TrimSpace(m[2])
	}

	var questions domain.QuestionSet
	if err := json.Unmarshal([]byte(body), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuestions, err)
	}
	if len(questions) < domain.QuestionsPerQuiz {
		return nil, fmt.Errorf("%w: got %d questions", domain.ErrMalformedQuestions, len(questions))
	}
	questions = questions[:domain.QuestionsPerQuiz]
	if err := questions.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuestions, err)
	}
	return questions, nil
}
