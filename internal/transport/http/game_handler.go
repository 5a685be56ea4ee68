package http

import (
	"errors"
	"net/http"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// GameHandler exposes the play loop over REST for clients without a websocket.
type GameHandler struct {
	games *app.GameService
}

func NewGameHandler(games *app.GameService) *GameHandler {
	return &GameHandler{games: games}
}

type answerRequest struct {
	Option string `json:"option"`
}

type canceledResponse struct {
	Canceled bool `json:"canceled"`
}

// Create generates a question set and starts a game with it.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var spec domain.QuizSpec
	if err := decodeJSON(r, &spec); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	view, err := h.games.Generate(r.Context(), owner(r), spec)
	if errors.Is(err, domain.ErrGenerationCanceled) {
		writeJSON(w, http.StatusConflict, canceledResponse{Canceled: true})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// CancelGeneration abandons the caller's in-flight generation, if any.
func (h *GameHandler) CancelGeneration(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, canceledResponse{Canceled: h.games.CancelGeneration(owner(r))})
}

// StartShared starts a game from a shared quiz link.
func (h *GameHandler) StartShared(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.StartShared(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	view, err := h.games.Select(r.Context(), owner(r), r.PathValue("id"), req.Option)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *GameHandler) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.Advance(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *GameHandler) ShareQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := h.games.ShareQuiz(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (h *GameHandler) ShareResult(w http.ResponseWriter, r *http.Request) {
	id, err := h.games.ShareResult(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (h *GameHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Discard(r.Context(), owner(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func owner(r *http.Request) string {
	if claims := claimsFrom(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}
