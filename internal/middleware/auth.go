package middleware

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/soaringjerry/Persona/internal/models"
)

const (
	adminKeyInfo = "persona admin token v1"
	shareKeyInfo = "persona share token v1"
	adminSubject = "admin"
	claimsKey    = "persona.admin_claims"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenKeys holds the HS256 keys derived from the configured secret. Admin and
// share tokens use different keys so one can never stand in for the other.
type TokenKeys struct {
	admin []byte
	share []byte
	now   func() time.Time
}

func NewTokenKeys(secret string) (*TokenKeys, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is empty")
	}
	admin, err := deriveKey(secret, adminKeyInfo)
	if err != nil {
		return nil, err
	}
	share, err := deriveKey(secret, shareKeyInfo)
	if err != nil {
		return nil, err
	}
	return &TokenKeys{admin: admin, share: share, now: time.Now}, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return key, nil
}

type AdminClaims struct {
	jwt.RegisteredClaims
}

// ShareClaims identify one stored result.
type ShareClaims struct {
	Timestamp int64                  `json:"ts"`
	Type      models.PersonalityType `json:"type"`
	jwt.RegisteredClaims
}

func (k *TokenKeys) SignAdminToken(ttl time.Duration) (string, error) {
	now := k.now()
	claims := AdminClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   adminSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.admin)
}

func (k *TokenKeys) ParseAdminToken(tok string) (*AdminClaims, error) {
	c := &AdminClaims{}
	if err := k.parse(tok, c, k.admin); err != nil {
		return nil, err
	}
	if c.Subject != adminSubject {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// SignShareToken returns a token for the result keyed by ts and its expiry.
func (k *TokenKeys) SignShareToken(ts int64, t models.PersonalityType, ttl time.Duration) (string, time.Time, error) {
	now := k.now()
	exp := now.Add(ttl)
	claims := ShareClaims{
		Timestamp: ts,
		Type:      t,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(ts, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.share)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp.UTC(), nil
}

func (k *TokenKeys) ParseShareToken(tok string) (*ShareClaims, error) {
	c := &ShareClaims{}
	if err := k.parse(tok, c, k.share); err != nil {
		return nil, err
	}
	if c.Timestamp <= 0 {
		return nil, ErrInvalidToken
	}
	return c, nil
}

func (k *TokenKeys) parse(tok string, claims jwt.Claims, key []byte) error {
	t, err := jwt.ParseWithClaims(tok, claims, func(token *jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(k.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid {
		return ErrInvalidToken
	}
	return nil
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(keys *TokenKeys) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			if claims, err := keys.ParseAdminToken(tok); err == nil {
				c.Set(claimsKey, claims)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": T(c, "auth.unauthorized"),
		})
	}
}

// AdminClaimsFrom returns the claims RequireAdmin attached.
func AdminClaimsFrom(c *gin.Context) (*AdminClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*AdminClaims)
	return claims, ok
}

// ShareTimestamp returns the result key a valid share token points at.
func (k *TokenKeys) ShareTimestamp(tok string) (int64, error) {
	c, err := k.ParseShareToken(tok)
	if err != nil {
		return 0, err
	}
	return c.Timestamp, nil
}
