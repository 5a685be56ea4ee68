package app

import (
	"context"
	"errors"
	"time"

	"trivia-service/internal/domain"
)

// ProfileService reads and writes the profile of an authenticated user.
type ProfileService struct {
	profiles ProfileRepository
	now      func() time.Time
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles, now: time.Now}
}

// Get returns domain.ErrProfileNotFound when the user has not completed profile setup.
func (s *ProfileService) Get(ctx context.Context, userID string) (domain.Profile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// Update creates or replaces the user's profile. Validation problems are returned as
// domain.FieldErrors.
func (s *ProfileService) Update(ctx context.Context, userID string, profile domain.Profile) (domain.Profile, error) {
	if errs := profile.Validate(); errs != nil {
		return domain.Profile{}, errs
	}
	profile.UserID = userID
	profile.UpdatedAt = s.now().UTC()
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

// NeedsSetup reports whether the user still has to pick a username and avatar.
func (s *ProfileService) NeedsSetup(ctx context.Context, userID string) (bool, error) {
	_, err := s.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, domain.ErrProfileNotFound):
		return true, nil
	default:
		return false, err
	}
}
