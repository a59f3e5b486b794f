package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grovellows/tendertrack/internal/common"
	"github.com/grovellows/tendertrack/internal/server/auth"
	"github.com/grovellows/tendertrack/internal/server/config"
	"github.com/grovellows/tendertrack/internal/server/mfa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID   map[string]*User
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*User{}}
}

func (f *fakeRepo) Create(_ context.Context, user *User) (*User, error) {
	f.nextID++
	u := *user
	u.ID = fmt.Sprintf("u-%d", f.nextID)
	u.CreatedAt = time.Now()
	f.byID[u.ID] = &u
	out := u
	return &out, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeRepo) List(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeRepo) UpdatePreferences(_ context.Context, id string, prefs NotificationPreferences) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Notifications = prefs
	return nil
}

func (f *fakeRepo) UpdateLinkedIn(_ context.Context, id string, url string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LinkedInURL = url
	return nil
}

func (f *fakeRepo) UpdateLoginState(_ context.Context, id string, failedAttempts int, lockedUntil *time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.FailedLoginAttempts = failedAttempts
	u.LockedUntil = lockedUntil
	return nil
}

func (f *fakeRepo) UpdateMFA(_ context.Context, id string, enabled bool, secret string, backupCodes []string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.MFAEnabled = enabled
	u.MFASecret = secret
	u.BackupCodes = backupCodes
	return nil
}

func testService(repo Repository) *Service {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewService(repo, cfg)
}

func register(t *testing.T, s *Service, email string) *User {
	t.Helper()
	u, err := s.Register(context.Background(), email, "Alice", "pa55word", RoleProjectManager)
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	s := testService(newFakeRepo())

	u := register(t, s, "a@x.com")
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "pa55word", u.HashedPassword, "password must be hashed")
	assert.True(t, u.Notifications.NewTenders, "defaults applied")

	_, err := s.Register(context.Background(), "a@x.com", "Alice", "pa55word", RoleProjectManager)
	assert.ErrorIs(t, err, common.ErrorConflict)

	_, err = s.Register(context.Background(), "b@x.com", "Bob", "x", "Astronaut")
	assert.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	s := testService(newFakeRepo())
	register(t, s, "a@x.com")

	res, err := s.Login(context.Background(), "a@x.com", "pa55word", "")
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.NotEmpty(t, res.AccessToken)

	userID, err := auth.GetUserIDFromToken(res.AccessToken, []byte("secretKey"))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")

	_, err := s.Login(context.Background(), "a@x.com", "nope", "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, 1, repo.byID[u.ID].FailedLoginAttempts)
}

func TestLogin_UnknownUser(t *testing.T) {
	s := testService(newFakeRepo())
	_, err := s.Login(context.Background(), "nobody@x.com", "pa55word", "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	register(t, s, "a@x.com")

	for i := 0; i < maxFailedAttempts; i++ {
		_, err := s.Login(context.Background(), "a@x.com", "nope", "")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	}

	// correct password no longer helps
	_, err := s.Login(context.Background(), "a@x.com", "pa55word", "")
	assert.ErrorIs(t, err, common.ErrAccountLocked)
}

func TestLogin_LockExpiresAndCounterResets(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")

	for i := 0; i < maxFailedAttempts; i++ {
		_, _ = s.Login(context.Background(), "a@x.com", "nope", "")
	}

	s.now = func() time.Time { return time.Now().Add(lockoutDuration + time.Minute) }

	res, err := s.Login(context.Background(), "a@x.com", "pa55word", "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, 0, repo.byID[u.ID].FailedLoginAttempts)
	assert.Nil(t, repo.byID[u.ID].LockedUntil)
}

func enableMFA(t *testing.T, s *Service, repo *fakeRepo, userID string) (secret string, backupCodes []string) {
	t.Helper()
	enrollment, err := s.SetupMFA(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, repo.byID[userID].MFAEnabled, "setup alone must not enable")

	code, err := mfa.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.ConfirmMFA(context.Background(), userID, code))
	assert.True(t, repo.byID[userID].MFAEnabled)

	return enrollment.Secret, enrollment.BackupCodes
}

func TestLogin_MFARequiredWithoutCode(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")
	enableMFA(t, s, repo, u.ID)

	_, err := s.Login(context.Background(), "a@x.com", "pa55word", "")
	assert.ErrorIs(t, err, common.ErrMFARequired)
}

func TestLogin_MFAWithTOTPCode(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")
	secret, _ := enableMFA(t, s, repo, u.ID)

	code, err := mfa.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	res, err := s.Login(context.Background(), "a@x.com", "pa55word", code)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestLogin_MFAWrongCode(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")
	enableMFA(t, s, repo, u.ID)

	_, err := s.Login(context.Background(), "a@x.com", "pa55word", "000000")
	assert.ErrorIs(t, err, common.ErrInvalidMFACode)
	assert.Equal(t, 1, repo.byID[u.ID].FailedLoginAttempts)
}

func TestLogin_BackupCodeIsSingleUse(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")
	_, backupCodes := enableMFA(t, s, repo, u.ID)
	require.NotEmpty(t, backupCodes)

	res, err := s.Login(context.Background(), "a@x.com", "pa55word", backupCodes[0])
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	_, err = s.Login(context.Background(), "a@x.com", "pa55word", backupCodes[0])
	assert.ErrorIs(t, err, common.ErrInvalidMFACode)
}

func TestConfirmMFA_WrongCode(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")

	_, err := s.SetupMFA(context.Background(), u.ID)
	require.NoError(t, err)

	err = s.ConfirmMFA(context.Background(), u.ID, "000000")
	assert.ErrorIs(t, err, common.ErrInvalidMFACode)
	assert.False(t, repo.byID[u.ID].MFAEnabled)
}

func TestDisableMFA(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")
	enableMFA(t, s, repo, u.ID)

	assert.ErrorIs(t, s.DisableMFA(context.Background(), u.ID, "nope"), common.ErrorUnauthorized)
	require.NoError(t, s.DisableMFA(context.Background(), u.ID, "pa55word"))
	assert.False(t, repo.byID[u.ID].MFAEnabled)
	assert.Empty(t, repo.byID[u.ID].MFASecret)
}

func TestUpdatePreferencesAndLinkedIn(t *testing.T) {
	repo := newFakeRepo()
	s := testService(repo)
	u := register(t, s, "a@x.com")

	prefs := DefaultNotificationPreferences()
	prefs.DailyDigest = false
	updated, err := s.UpdatePreferences(context.Background(), u.ID, prefs)
	require.NoError(t, err)
	assert.False(t, updated.Notifications.DailyDigest)

	updated, err = s.UpdateLinkedIn(context.Background(), u.ID, "https://linkedin.com/in/alice")
	require.NoError(t, err)
	assert.Equal(t, "https://linkedin.com/in/alice", updated.LinkedInURL)
}
