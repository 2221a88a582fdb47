package auth

import (
	"SmartExpire/domain"
	"SmartExpire/pkg/jwt"
	"SmartExpire/pkg/memstore"
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu      sync.Mutex
	enabled bool
	fail    bool
	sent    []string
	bodies  []string
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) SendMail(toEmail string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, toEmail)
	m.bodies = append(m.bodies, body)
	return nil
}

func newService(mailer *fakeMailer, requireVerified bool) (AuthService, *memstore.Store) {
	store := memstore.New()
	svc := NewAuthService(store, jwt.NewJWTService("test-secret", time.Hour), mailer, Options{
		AppURL:               "https://app.example.com",
		RequireVerifiedEmail: requireVerified,
	})
	return svc, store
}

var signUp = domain.SignUpRequest{Email: " Ana@Example.com ", Password: "correct-horse", FirstName: "Ana"}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(&fakeMailer{}, false)

	res, err := svc.SignUp(ctx, signUp)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", res.Email)
	assert.False(t, res.VerificationSent)

	stored, err := store.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.Password, "password is hashed")

	session, err := svc.SignIn(ctx, domain.SignInRequest{Email: "ANA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, res.UserID, session.UserID)
	assert.NotEmpty(t, session.AccessToken)

	current, err := svc.GetCurrentSession(ctx, session.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, res.UserID, current.UserID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _ := newService(&fakeMailer{}, false)
	_, err := svc.SignUp(context.Background(), signUp)
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), signUp)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(&fakeMailer{}, false)
	_, err := svc.SignUp(ctx, signUp)
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, domain.SignInRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, domain.SignInRequest{Email: "bob@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGetCurrentSessionWithoutToken(t *testing.T) {
	svc, _ := newService(&fakeMailer{}, false)
	session, err := svc.GetCurrentSession(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestSignOutRevokesTokenAndNotifies(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(&fakeMailer{}, false)
	var changes []domain.SessionChange
	svc.OnSessionChange(func(ctx context.Context, change domain.SessionChange) {
		changes = append(changes, change)
	})

	res, err := svc.SignUp(ctx, signUp)
	require.NoError(t, err)
	session, err := svc.SignIn(ctx, domain.SignInRequest{Email: "ana@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, session.AccessToken))

	_, err = svc.GetCurrentSession(ctx, session.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	assert.ErrorIs(t, svc.SignOut(ctx, session.AccessToken), domain.ErrTokenInvalid)

	userID := uuid.MustParse(res.UserID)
	assert.Equal(t, []domain.SessionChange{
		{Event: domain.SessionSignedIn, UserID: userID},
		{Event: domain.SessionSignedOut, UserID: userID},
	}, changes)
}

var tokenPattern = regexp.MustCompile(`token=([^"&]+)`)

func TestVerificationFlow(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{enabled: true}
	svc, store := newService(mailer, true)

	res, err := svc.SignUp(ctx, signUp)
	require.NoError(t, err)
	assert.True(t, res.VerificationSent)
	require.Equal(t, []string{"ana@example.com"}, mailer.sent)

	_, err = svc.SignIn(ctx, domain.SignInRequest{Email: "ana@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, domain.ErrEmailNotVerified)

	match := tokenPattern.FindStringSubmatch(mailer.bodies[0])
	require.Len(t, match, 2)
	require.NoError(t, svc.VerifyEmail(ctx, match[1]))

	stored, err := store.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)

	_, err = svc.SignIn(ctx, domain.SignInRequest{Email: "ana@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
}

func TestSignUpSurvivesMailFailure(t *testing.T) {
	svc, _ := newService(&fakeMailer{enabled: true, fail: true}, false)
	res, err := svc.SignUp(context.Background(), signUp)
	require.NoError(t, err)
	assert.False(t, res.VerificationSent)
}

func TestVerifyEmailRejectsSessionToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(&fakeMailer{}, false)
	_, err := svc.SignUp(ctx, signUp)
	require.NoError(t, err)
	session, err := svc.SignIn(ctx, domain.SignInRequest{Email: "ana@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.VerifyEmail(ctx, session.AccessToken), domain.ErrTokenInvalid)
}
