package jwt

import (
	"SmartExpire/domain"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	purposeSession      = "session"
	purposeVerification = "verify_email"
)

type (
	JWTService interface {
		GenerateTokenUser(userID string, email string) (string, time.Time, error)
		GetUserIDByToken(token string) (string, time.Time, error)
		GenerateTokenVerification(userID string, duration time.Duration) (string, error)
		ValidateTokenVerification(token string) (string, error)
	}

	jwtUserClaim struct {
		UserID  string `json:"user_id"`
		Email   string `json:"email,omitempty"`
		Purpose string `json:"purpose"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		now       func() time.Time
	}
)

func NewJWTService(secretKey string, ttl time.Duration) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "SMARTEXPIRE",
		ttl:       ttl,
		now:       time.Now,
	}
}

func (j *jwtService) sign(claims jwtUserClaim) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) GenerateTokenUser(userID string, email string) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)
	tx, err := j.sign(jwtUserClaim{
		UserID:  userID,
		Email:   email,
		Purpose: purposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return tx, expiresAt, nil
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) validate(token string, purpose string) (*jwtUserClaim, error) {
	t_Token, err := jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || !t_Token.Valid || claims.Purpose != purpose || claims.Issuer != j.issuer {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (j *jwtService) GetUserIDByToken(token string) (string, time.Time, error) {
	claims, err := j.validate(token, purposeSession)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (j *jwtService) GenerateTokenVerification(userID string, duration time.Duration) (string, error) {
	now := j.now()
	return j.sign(jwtUserClaim{
		UserID:  userID,
		Purpose: purposeVerification,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
}

func (j *jwtService) ValidateTokenVerification(token string) (string, error) {
	claims, err := j.validate(token, purposeVerification)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
