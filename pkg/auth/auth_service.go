package auth

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/internal/utils/mailing"
	"SmartExpire/pkg/jwt"
	"SmartExpire/pkg/user"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const verificationTTL = 24 * time.Hour

// SessionListener is told about every sign-in and sign-out.
type SessionListener func(ctx context.Context, change domain.SessionChange)

type (
	AuthService interface {
		SignUp(ctx context.Context, req domain.SignUpRequest) (domain.SignUpResponse, error)
		SignIn(ctx context.Context, req domain.SignInRequest) (domain.SessionResponse, error)
		SignOut(ctx context.Context, token string) error
		GetCurrentSession(ctx context.Context, token string) (*domain.SessionResponse, error)
		OnSessionChange(listener SessionListener)
		VerifyEmail(ctx context.Context, token string) error
	}

	Options struct {
		AppURL               string
		RequireVerifiedEmail bool
	}

	authService struct {
		userRepository user.UserRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
		options        Options

		mu        sync.RWMutex
		revoked   map[string]time.Time
		listeners []SessionListener
	}
)

func NewAuthService(userRepository user.UserRepository, jwtService jwt.JWTService, mailer mailing.Mailer, options Options) AuthService {
	return &authService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
		options:        options,
		revoked:        make(map[string]time.Time),
	}
}

func (s *authService) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.SignUpResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepository.GetUserByEmail(ctx, email); err == nil {
		return domain.SignUpResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.SignUpResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.SignUpResponse{}, err
	}

	newUser := entities.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := s.userRepository.CreateUser(ctx, &newUser); err != nil {
		return domain.SignUpResponse{}, err
	}

	res := domain.SignUpResponse{UserID: newUser.ID.String(), Email: newUser.Email}
	if s.mailer != nil && s.mailer.Enabled() {
		if err := s.sendVerification(newUser); err != nil {
			log.Errorf("send verification mail to %s: %v", newUser.Email, err)
		} else {
			res.VerificationSent = true
		}
	}
	return res, nil
}

func (s *authService) sendVerification(u entities.User) error {
	token, err := s.jwtService.GenerateTokenVerification(u.ID.String(), verificationTTL)
	if err != nil {
		return err
	}
	body := mailing.VerificationBody(s.options.AppURL, u.FirstName, token)
	return s.mailer.SendMail(u.Email, "Verify your SmartExpire account", body)
}

func (s *authService) SignIn(ctx context.Context, req domain.SignInRequest) (domain.SessionResponse, error) {
	u, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.SessionResponse{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.SessionResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return domain.SessionResponse{}, domain.ErrInvalidCredentials
	}
	if s.options.RequireVerifiedEmail && !u.EmailVerified {
		return domain.SessionResponse{}, domain.ErrEmailNotVerified
	}

	token, expiresAt, err := s.jwtService.GenerateTokenUser(u.ID.String(), u.Email)
	if err != nil {
		return domain.SessionResponse{}, err
	}

	s.notify(ctx, domain.SessionChange{Event: domain.SessionSignedIn, UserID: u.ID})
	return domain.SessionResponse{
		AccessToken: token,
		UserID:      u.ID.String(),
		Email:       u.Email,
		ExpiresAt:   expiresAt,
	}, nil
}

// SignOut revokes token until it would have expired anyway.
func (s *authService) SignOut(ctx context.Context, token string) error {
	session, err := s.GetCurrentSession(ctx, token)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrTokenNotFound
	}

	s.mu.Lock()
	now := time.Now()
	for t, until := range s.revoked {
		if until.Before(now) {
			delete(s.revoked, t)
		}
	}
	s.revoked[token] = session.ExpiresAt
	s.mu.Unlock()

	userID, _ := uuid.Parse(session.UserID)
	s.notify(ctx, domain.SessionChange{Event: domain.SessionSignedOut, UserID: userID})
	return nil
}

// GetCurrentSession returns nil without error for an empty token.
func (s *authService) GetCurrentSession(ctx context.Context, token string) (*domain.SessionResponse, error) {
	if token == "" {
		return nil, nil
	}

	s.mu.RLock()
	_, revoked := s.revoked[token]
	s.mu.RUnlock()
	if revoked {
		return nil, domain.ErrTokenInvalid
	}

	userID, expiresAt, err := s.jwtService.GetUserIDByToken(token)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	u, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.SessionResponse{
		AccessToken: token,
		UserID:      u.ID.String(),
		Email:       u.Email,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *authService) OnSessionChange(listener SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *authService) notify(ctx context.Context, change domain.SessionChange) {
	s.mu.RLock()
	listeners := make([]SessionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(ctx, change)
	}
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.jwtService.ValidateTokenVerification(token)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.userRepository.MarkEmailVerified(ctx, id)
}
