package http

import (
	"errors"
	"net/http"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// ShareHandler serves the JSON sharing API.
type ShareHandler struct {
	shares *app.ShareService
}

func NewShareHandler(shares *app.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

type createdResponse struct {
	ID string `json:"id"`
}

type sharedQuizResponse struct {
	Questions  domain.QuestionSet `json:"questions"`
	Topic      string             `json:"topic"`
	Difficulty int                `json:"difficulty"`
	StartIndex int                `json:"startIndex"`
}

type sharedResultResponse struct {
	Questions   domain.QuestionSet `json:"questions"`
	UserAnswers []string           `json:"userAnswers"`
	Topic       string             `json:"topic"`
	Difficulty  int                `json:"difficulty"`
}

func (h *ShareHandler) ShareQuiz(w http.ResponseWriter, r *http.Request) {
	var req app.ShareQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	id, err := h.shares.ShareQuiz(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (h *ShareHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.shares.GetQuiz(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrShareNotFound) {
		writeMessage(w, http.StatusNotFound, "Quiz not found.")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sharedQuizResponse{
		Questions:  quiz.Questions,
		Topic:      quiz.Topic,
		Difficulty: quiz.Difficulty,
		StartIndex: quiz.StartIndex,
	})
}

func (h *ShareHandler) ShareResult(w http.ResponseWriter, r *http.Request) {
	var req app.ShareResultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	id, err := h.shares.ShareResult(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (h *ShareHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.shares.GetResult(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrShareNotFound) {
		writeMessage(w, http.StatusNotFound, "Quiz result not found.")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sharedResultResponse{
		Questions:   res.Questions,
		UserAnswers: res.UserAnswers,
		Topic:       res.Topic,
		Difficulty:  res.Difficulty,
	})
}
