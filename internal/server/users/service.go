package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/grovellows/tendertrack/internal/common"
	"github.com/grovellows/tendertrack/internal/server/auth"
	"github.com/grovellows/tendertrack/internal/server/config"
	"github.com/grovellows/tendertrack/internal/server/mfa"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
	backupCodeCount   = 8
)

// LoginResult is what a completed (fully verified) login produces.
type LoginResult struct {
	User        *User
	AccessToken string
}

// MFAEnrollment is handed to the user at second-factor setup time. The
// plaintext backup codes appear here once and are stored only as digests.
type MFAEnrollment struct {
	Secret       string
	ProvisionURI string
	BackupCodes  []string
}

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	mfaIssuer                   string
	accessTokenValidityDuration time.Duration

	// now is a clock seam for lockout and TOTP tests.
	now func() time.Time
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		mfaIssuer:                   cfg.MFAIssuer,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// TokenValidity exposes the configured access token lifetime, used by the
// HTTP layer to size revocation-list TTLs.
func (s *Service) TokenValidity() time.Duration {
	return s.accessTokenValidityDuration
}

func (s *Service) Register(ctx context.Context, email, name, password, role string) (*User, error) {
	if email == "" || name == "" || password == "" {
		return nil, fmt.Errorf("missing required field")
	}
	if _, ok := knownRoles[role]; !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &User{
		Email:          email,
		Name:           name,
		Role:           role,
		HashedPassword: string(hash),
		Notifications:  DefaultNotificationPreferences(),
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return user, nil
}

// Login authenticates email+password, optionally completing the second
// factor in the same call.
//
// Outcomes:
//   - common.ErrorUnauthorized: unknown user or wrong password;
//   - common.ErrAccountLocked: too many recent failures;
//   - common.ErrMFARequired: password accepted, account has MFA enabled and
//     no code was supplied;
//   - common.ErrInvalidMFACode: supplied code rejected;
//   - otherwise a LoginResult with a signed access token.
func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (*LoginResult, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn comparable time so unknown emails are not distinguishable
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
				[]byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if user.LockedUntil != nil && user.LockedUntil.After(s.now()) {
		return nil, common.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		if err := s.recordFailure(ctx, user); err != nil {
			return nil, common.ErrorInternal
		}
		return nil, common.ErrorUnauthorized
	}

	if user.MFAEnabled {
		if mfaCode == "" {
			return nil, common.ErrMFARequired
		}
		ok, err := s.checkSecondFactor(ctx, user, mfaCode)
		if err != nil {
			return nil, common.ErrorInternal
		}
		if !ok {
			if err := s.recordFailure(ctx, user); err != nil {
				return nil, common.ErrorInternal
			}
			return nil, common.ErrInvalidMFACode
		}
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.repo.UpdateLoginState(ctx, user.ID, 0, nil); err != nil {
			return nil, common.ErrorInternal
		}
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{User: user, AccessToken: token}, nil
}

func (s *Service) recordFailure(ctx context.Context, user *User) error {
	attempts := user.FailedLoginAttempts + 1
	var lockedUntil *time.Time
	if attempts >= maxFailedAttempts {
		t := s.now().Add(lockoutDuration)
		lockedUntil = &t
	}
	return s.repo.UpdateLoginState(ctx, user.ID, attempts, lockedUntil)
}

// checkSecondFactor accepts a current TOTP code or an unused backup code.
// A matched backup code is consumed.
func (s *Service) checkSecondFactor(ctx context.Context, user *User, code string) (bool, error) {
	ok, err := mfa.VerifyCode(user.MFASecret, code, s.now())
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	digest := mfa.HashBackupCode(code)
	for i, stored := range user.BackupCodes {
		if subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1 {
			remaining := append(append([]string{}, user.BackupCodes[:i]...), user.BackupCodes[i+1:]...)
			if err := s.repo.UpdateMFA(ctx, user.ID, user.MFAEnabled, user.MFASecret, remaining); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdatePreferences(ctx context.Context, userID string, prefs NotificationPreferences) (*User, error) {
	if err := s.repo.UpdatePreferences(ctx, userID, prefs); err != nil {
		return nil, common.ErrorInternal
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateLinkedIn(ctx context.Context, userID string, url string) (*User, error) {
	if err := s.repo.UpdateLinkedIn(ctx, userID, url); err != nil {
		return nil, common.ErrorInternal
	}
	return s.repo.GetByID(ctx, userID)
}

// SetupMFA generates a secret and backup codes for the user. The second
// factor stays disabled until ConfirmMFA proves the authenticator works.
func (s *Service) SetupMFA(ctx context.Context, userID string) (*MFAEnrollment, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.MFAEnabled {
		return nil, common.ErrorConflict
	}

	secret, err := mfa.GenerateSecret()
	if err != nil {
		return nil, common.ErrorInternal
	}
	codes, hashes, err := mfa.GenerateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repo.UpdateMFA(ctx, userID, false, secret, hashes); err != nil {
		return nil, common.ErrorInternal
	}

	return &MFAEnrollment{
		Secret:       secret,
		ProvisionURI: mfa.ProvisionURI(secret, user.Email, s.mfaIssuer),
		BackupCodes:  codes,
	}, nil
}

// ConfirmMFA turns the second factor on once the user presents a valid code
// for the freshly provisioned secret.
func (s *Service) ConfirmMFA(ctx context.Context, userID, code string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFASecret == "" {
		return common.ErrorNotFound
	}

	ok, err := mfa.VerifyCode(user.MFASecret, code, s.now())
	if err != nil {
		return common.ErrorInternal
	}
	if !ok {
		return common.ErrInvalidMFACode
	}

	return s.repo.UpdateMFA(ctx, userID, true, user.MFASecret, user.BackupCodes)
}

// DisableMFA turns the second factor off after re-verifying the password.
func (s *Service) DisableMFA(ctx context.Context, userID, password string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return common.ErrorUnauthorized
	}
	return s.repo.UpdateMFA(ctx, userID, false, "", nil)
}
