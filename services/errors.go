package services

import "errors"

// Shared errors mapped to HTTP statuses in the handler layer.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entities
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrBetNotFound        = errors.New("bet not found")

	// Conflicts
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Uploads
	ErrUploaderNotConfigured = errors.New("file storage is not configured")
	ErrInvalidLogoType       = errors.New("unsupported logo content type")

	// Betting and settlement
	ErrMatchNotFinished = errors.New("match is not finished")
	ErrBettingClosed    = errors.New("betting is closed for this match")
	ErrBetInvalidWinner = errors.New("predicted winner must be one of the match teams")
	ErrBetInvalidScore  = errors.New("predicted scores must be non-negative")
	ErrResultInvalid    = errors.New("result winner must be one of the match teams")
	ErrMatchTeamsNotSet = errors.New("both match teams must be set before a result")
)
