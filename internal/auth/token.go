// Package auth issues and parses session tokens: HS256 access JWTs and
// opaque refresh tokens stored as sha256 hashes.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is what handlers learn about the caller from an access token.
type Claims struct {
	UserID uuid.UUID
	Role   models.Role
}

type AccessToken struct {
	Token string
	Exp   time.Time
}

type RefreshToken struct {
	Raw  string
	Hash string
	Exp  time.Time
}

func NewAccessToken(secret string, userID uuid.UUID, role models.Role, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

func ParseAccessToken(secret, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	return &Claims{UserID: id, Role: models.Role(role)}, nil
}

// NewRefreshToken returns 48 random bytes hex encoded, with their hash.
func NewRefreshToken(ttl time.Duration) (RefreshToken, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	raw := hex.EncodeToString(buf)
	return RefreshToken{Raw: raw, Hash: HashRefreshToken(raw), Exp: time.Now().UTC().Add(ttl)}, nil
}

func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
