package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type fieldErrorsResponse struct {
	Errors domain.FieldErrors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps a use case error to its HTTP status and client message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, fieldErrorsResponse{Errors: fieldErrs})
		return
	}
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, message)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound, "Game not found."
	case errors.Is(err, domain.ErrShareNotFound):
		return http.StatusNotFound, "Shared link not found."
	case errors.Is(err, domain.ErrSharedLinkInvalid):
		return http.StatusUnprocessableEntity, "The shared link is invalid or has expired."
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "Profile not found."
	case errors.Is(err, domain.ErrTopicRequired),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidQuestion),
		errors.Is(err, app.ErrInvalidAnswers),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnsafeTopic):
		return http.StatusUnprocessableEntity, "This topic violates the safety policy. Please choose another topic."
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrMalformedQuestions):
		return http.StatusBadGateway, "Could not generate questions. Please try again."
	case errors.Is(err, domain.ErrGenerationCanceled):
		return http.StatusConflict, "Generation canceled."
	case app.IsPlayError(err):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, "This username is already taken."
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, "An account with this email already exists."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized."
	case errors.Is(err, auth.ErrGoogleDisabled):
		return http.StatusNotImplemented, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}
