package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type TokenSigner func(ttl time.Duration) (string, error)

// AuthService guards the admin surface with a single bcrypt-hashed password.
type AuthService struct {
	passHash  []byte
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewAuthService(passHash string, signer TokenSigner, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		passHash:  []byte(strings.TrimSpace(passHash)),
		signToken: signer,
		tokenTTL:  ttl,
	}
}

// Enabled reports whether an admin password has been configured.
func (s *AuthService) Enabled() bool { return len(s.passHash) > 0 }

func (s *AuthService) Login(password string) (*AuthResult, error) {
	if !s.Enabled() {
		return nil, NewUnauthorizedError("auth.disabled")
	}
	if strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("auth.invalid_credentials")
	}
	if err := bcrypt.CompareHashAndPassword(s.passHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("auth.invalid_credentials")
	}
	if s.signToken == nil {
		return nil, NewUnavailableError("internal", nil)
	}
	issued := time.Now().UTC()
	token, err := s.signToken(s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: issued.Add(s.tokenTTL)}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// HashPassword returns the bcrypt hash to put in the admin_password_hash setting.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", NewInvalidError("auth.invalid_credentials")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
