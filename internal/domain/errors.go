package domain

import "errors"

var (
	// ErrGameNotFound is returned when a play session id is unknown or expired.
	ErrGameNotFound = errors.New("game not found")
	// ErrShareNotFound indicates a shared quiz or result id does not exist.
	ErrShareNotFound = errors.New("shared link not found")
	// ErrSharedLinkInvalid indicates a stored share payload that cannot be played.
	ErrSharedLinkInvalid = errors.New("shared link is invalid")
	// ErrInvalidQuestion indicates a question or question set with the wrong shape.
	ErrInvalidQuestion = errors.New("invalid question set")
	ErrTopicRequired     = errors.New("topic is required")
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 10")

	// ErrGenerationFailed wraps any failure of the question generation backend.
	ErrGenerationFailed = errors.New("could not generate questions, please try again")
	// ErrMalformedQuestions indicates the generator returned an unusable payload.
	ErrMalformedQuestions = errors.New("generated questions were malformed")
	// ErrUnsafeTopic indicates the generator refused the topic on safety grounds.
	ErrUnsafeTopic = errors.New("this topic violates the safety policy, please choose another one")
	// ErrGenerationCanceled is returned to the caller whose generation was canceled.
	// It is not a failure and carries no user-facing message.
	ErrGenerationCanceled = errors.New("generation canceled")

	// ErrProfileNotFound signals an authenticated user who has not set up a profile yet.
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username is already taken")

	ErrAccountExists      = errors.New("email is already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)
