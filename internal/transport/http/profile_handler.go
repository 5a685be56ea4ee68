package http

import (
	"net/http"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

type ProfileHandler struct {
	profiles *app.ProfileService
}

func NewProfileHandler(profiles *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get answers 404 while the user has not set up a profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.Profile
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	profile, err := h.profiles.Update(r.Context(), owner(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
