// Package auth coordinates three identifiers across the sign-up, sign-in and
// verification operations: a caller-chosen provisional identifier, the
// directory's authoritative account identifier and the locally persisted
// profile record. The directory may silently substitute its own identifier
// at any call, so the profile's cached copy is never trusted; it is
// re-derived on every verification and self-healed opportunistically.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zulqarnainhdr514/storage-management/internal/directory"
	"github.com/zulqarnainhdr514/storage-management/internal/logger"
	"github.com/zulqarnainhdr514/storage-management/internal/profile"
	"github.com/zulqarnainhdr514/storage-management/internal/sanitizer"
	"github.com/zulqarnainhdr514/storage-management/internal/validator"
)

// Directory defines the directory operations required by the auth flow.
type Directory interface {
	CreateChallenge(ctx context.Context, accountID, email string) (string, error)
	CreateSession(ctx context.Context, accountID, passcode string) (*directory.Session, error)
	CurrentIdentity(ctx context.Context, secret string) (*directory.Identity, error)
	DeleteSession(ctx context.Context, secret string) error
}

// ProfileStore defines the profile persistence required by the auth flow.
type ProfileStore interface {
	FindByEmail(ctx context.Context, email string) (*profile.Record, error)
	FindByAccountID(ctx context.Context, accountID string) (*profile.Record, error)
	Create(ctx context.Context, rec *profile.Record) error
	UpdateAccountID(ctx context.Context, id profile.RecordID, accountID string) error
}

// SignUpResult carries the provisional identifier for passcode entry.
type SignUpResult struct {
	AccountID string
	FullName  string
	Email     string
}

// SignInResult distinguishes "no such account" from a delivery failure:
// an absent profile is an expected outcome, not an error.
type SignInResult struct {
	Found     bool
	AccountID string
}

// VerifyParams are the inputs to passcode verification. FullName and Email
// are present only on the sign-up path.
type VerifyParams struct {
	AccountID string
	Passcode  string
	FullName  string
	Email     string
}

// VerifyResult is the outcome of a successful verification. Secret is the
// session credential the HTTP layer persists into the session carrier.
type VerifyResult struct {
	SessionID string
	Secret    string
	AccountID string
}

// Service implements the OTP authentication and identity reconciliation flow.
type Service struct {
	directory Directory
	profiles  ProfileStore
	logger    *slog.Logger
	avatar    string
}

type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithDefaultAvatar overrides the avatar reference assigned to new profiles.
func WithDefaultAvatar(url string) Option {
	return func(s *Service) {
		s.avatar = url
	}
}

func NewService(dir Directory, profiles ProfileStore, opts ...Option) *Service {
	s := &Service{
		directory: dir,
		profiles:  profiles,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		avatar:    profile.DefaultAvatar,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// createChallenge asks the directory to deliver a passcode to email. When no
// hint identifier is supplied a fresh random one is generated. The directory
// is authoritative: the identifier it returns wins over the hint.
func (s *Service) createChallenge(ctx context.Context, email, hint string) (string, error) {
	if hint == "" {
		hint = uuid.NewString()
	}

	confirmed, err := s.directory.CreateChallenge(ctx, hint, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "directory rejected challenge request",
			logger.Operation("createChallenge"),
			logger.Email(email),
			logger.Error(err),
			logger.Component("auth"),
		)
		var dirErr *directory.Error
		if errors.As(err, &dirErr) && dirErr.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrChallengeDelivery, dirErr.Message)
		}
		return "", ErrChallengeDelivery
	}

	if confirmed == "" {
		// Degraded: the subsequent verification may fail if the directory
		// actually bound the challenge to another identifier.
		s.logger.WarnContext(ctx, "directory response omitted account id, falling back to hint",
			logger.Operation("createChallenge"),
			logger.Email(email),
			logger.AccountID(hint),
			logger.Component("auth"),
		)
		return hint, nil
	}

	return confirmed, nil
}

// SignUp starts account creation for a new email. It fails before any
// directory call if a profile for the email already exists; sign-up must not
// silently fall through to sign-in.
func (s *Service) SignUp(ctx context.Context, fullName, email string) (*SignUpResult, error) {
	fullName = sanitizer.Trim(fullName)
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.Required("fullName", fullName),
		validator.ValidEmail("email", email),
	); err != nil {
		return nil, err
	}

	_, err := s.profiles.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrAccountExists
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	accountID, err := s.createChallenge(ctx, email, "")
	if err != nil {
		return nil, err
	}

	return &SignUpResult{
		AccountID: accountID,
		FullName:  fullName,
		Email:     email,
	}, nil
}

// SignIn starts authentication for an existing email. The profile's
// last-known account id is passed as a hint so the directory can reuse the
// same account; if the directory has since diverged it self-corrects by
// returning its own identifier.
func (s *Service) SignIn(ctx context.Context, email string) (*SignInResult, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.ValidEmail("email", email),
	); err != nil {
		return nil, err
	}

	rec, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return &SignInResult{Found: false}, nil
		}
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	accountID, err := s.createChallenge(ctx, email, rec.AccountID)
	if err != nil {
		return nil, err
	}

	return &SignInResult{Found: true, AccountID: accountID}, nil
}

// Verify runs the full verification sequence: exchange the passcode for a
// session, re-derive the authoritative account id through the fresh session,
// then reconcile the profile record. Each call runs the whole sequence or
// fails at the first erroring step; there is no persisted intermediate state.
func (s *Service) Verify(ctx context.Context, params VerifyParams) (*VerifyResult, error) {
	sess, err := s.directory.CreateSession(ctx, params.AccountID, params.Passcode)
	if err != nil {
		if directory.IsInvalidToken(err) {
			return nil, ErrInvalidOrExpiredOTP
		}
		s.logger.ErrorContext(ctx, "directory session creation failed",
			logger.Operation("createSession"),
			logger.AccountID(params.AccountID),
			logger.Error(err),
			logger.Component("auth"),
		)
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}

	// The input identifier may have been superseded by the directory between
	// challenge issuance and now; the session's own identity is the only
	// source of truth.
	identity, err := s.directory.CurrentIdentity(ctx, sess.Secret)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve session identity",
			logger.Operation("getCurrentIdentity"),
			logger.AccountID(params.AccountID),
			logger.Error(err),
			logger.Component("auth"),
		)
		return nil, fmt.Errorf("failed to resolve account identity: %w", err)
	}
	accountID := identity.ID

	if err := s.reconcileProfile(ctx, params, accountID); err != nil {
		return nil, err
	}

	return &VerifyResult{
		SessionID: sess.ID,
		Secret:    sess.Secret,
		AccountID: accountID,
	}, nil
}

// reconcileProfile creates the profile on the sign-up path, or self-heals a
// drifted cached account id on an existing one.
func (s *Service) reconcileProfile(ctx context.Context, params VerifyParams, accountID string) error {
	email := sanitizer.NormalizeEmail(params.Email)
	if email == "" {
		return nil
	}

	rec, err := s.profiles.FindByEmail(ctx, email)
	switch {
	case err == nil:
		// fall through to drift check below
	case errors.Is(err, profile.ErrNotFound):
		if params.FullName == "" {
			// Sign-in path with a vanished profile: nothing to reconcile,
			// the session is still the deliverable.
			return nil
		}
		rec, err = s.createProfile(ctx, params.FullName, email, accountID)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("failed to look up profile: %w", err)
	}

	if rec.AccountID != accountID {
		// Best-effort: an out-of-date cached identifier must never block
		// session establishment.
		if err := s.profiles.UpdateAccountID(ctx, rec.ID, accountID); err != nil {
			s.logger.ErrorContext(ctx, "failed to update drifted account id, continuing",
				logger.Operation("updateAccountID"),
				logger.Email(email),
				logger.AccountID(accountID),
				logger.Error(err),
				logger.Component("auth"),
			)
		}
	}

	return nil
}

// createProfile inserts the record, recovering from the unique-email race:
// if a concurrent verification won the insert, requery and proceed with the
// winner's record. One bounded retry only; broader retries would mask real
// persistence failures.
func (s *Service) createProfile(ctx context.Context, fullName, email, accountID string) (*profile.Record, error) {
	rec := &profile.Record{
		FullName:  sanitizer.Trim(fullName),
		Email:     email,
		Avatar:    s.avatar,
		AccountID: accountID,
	}

	if err := s.profiles.Create(ctx, rec); err == nil {
		return rec, nil
	} else if !errors.Is(err, profile.ErrDuplicateEmail) {
		s.logger.ErrorContext(ctx, "profile creation failed",
			logger.Operation("createProfile"),
			logger.Email(email),
			logger.AccountID(accountID),
			logger.Error(err),
			logger.Component("auth"),
		)
	}

	existing, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrProfilePersistence
	}
	return existing, nil
}

// CurrentUser resolves the profile behind a session secret. An absent or
// invalid session and a missing profile are both normal unauthenticated
// states, reported as (nil, nil).
func (s *Service) CurrentUser(ctx context.Context, secret string) (*profile.Record, error) {
	if secret == "" {
		return nil, nil
	}

	identity, err := s.directory.CurrentIdentity(ctx, secret)
	if err != nil || identity == nil || identity.ID == "" {
		return nil, nil
	}

	rec, err := s.profiles.FindByAccountID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	return rec, nil
}

// SignOut deletes the directory session. Failures are logged, never
// surfaced: the caller clears the cookie and redirects regardless.
func (s *Service) SignOut(ctx context.Context, secret string) {
	if secret == "" {
		return
	}
	if err := s.directory.DeleteSession(ctx, secret); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete directory session",
			logger.Operation("deleteSession"),
			logger.Error(err),
			logger.Component("auth"),
		)
	}
}
