package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	MessageSuccessRegister    = "user registered successfully"
	MessageSuccessLogin       = "user logged in successfully"
	MessageSuccessLogout      = "user logged out successfully"
	MessageSuccessGetSession  = "session retrieved successfully"
	MessageSuccessVerifyEmail = "email verified successfully"
	MessageFailedRegister     = "failed to register user"
	MessageFailedLogin        = "failed to login"
	MessageFailedLogout       = "failed to logout"
	MessageFailedGetSession   = "failed to get session"
	MessageFailedVerifyEmail  = "failed to verify email"

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrUserNotFound       = errors.New("user not found")
)

type (
	SignUpRequest struct {
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name" validate:"omitempty"`
	}

	SignUpResponse struct {
		UserID           string `json:"user_id"`
		Email            string `json:"email"`
		VerificationSent bool   `json:"verification_sent"`
	}

	SignInRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	SessionResponse struct {
		AccessToken string    `json:"access_token"`
		UserID      string    `json:"user_id"`
		Email       string    `json:"email"`
		ExpiresAt   time.Time `json:"expires_at"`
	}
)

type SessionEvent string

const (
	SessionSignedIn  SessionEvent = "signed_in"
	SessionSignedOut SessionEvent = "signed_out"
)

// SessionChange is delivered to session listeners. UserID is the user who
// signed in or out.
type SessionChange struct {
	Event  SessionEvent
	UserID uuid.UUID
}
