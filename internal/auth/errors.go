package auth

import "errors"

// Error messages are rendered directly to the user by the HTTP layer, so
// they must be user-appropriate at the definition site.
var (
	// ErrChallengeDelivery indicates the directory could not issue or send
	// a one-time passcode.
	ErrChallengeDelivery = errors.New("failed to send a verification code, please try again")

	// ErrAccountExists indicates a sign-up attempt for an email that
	// already has a profile.
	ErrAccountExists = errors.New("an account with this email already exists, please sign in instead")

	// ErrInvalidOrExpiredOTP indicates the passcode was rejected or has
	// expired. The user must request a new code.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired code, please request a new one")

	// ErrProfilePersistence indicates profile creation failed and the
	// post-failure requery still found nothing. The message names the
	// expected schema fields to aid operator debugging.
	ErrProfilePersistence = errors.New("failed to create account profile (fullName, email, avatar, accountId)")
)
