package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"bookstore/internal/models"
)

// Token kinds embedded in the "typ" claim. Refresh tokens may only be exchanged
// for a new pair, never used as a bearer credential.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned when a token fails parsing, signature
	// verification, expiry or type checks.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims carried by both access and refresh tokens.
type Claims struct {
	UserID    uuid.UUID       `json:"user_id"`
	Role      models.UserRole `json:"role"`
	TokenType string          `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair handed out at registration and login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer signs and verifies token pairs. It is the system's only knowledge of the
// token scheme; everything else treats tokens as opaque strings.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair returns a fresh access/refresh token pair for the user.
func (i *Issuer) IssuePair(user *models.User) (*TokenPair, error) {
	access, err := i.sign(user, tokenTypeAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(user, tokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) sign(user *models.User, typ string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ParseAccess verifies an access token and returns its claims.
func (i *Issuer) ParseAccess(token string) (*Claims, error) {
	return i.parse(token, tokenTypeAccess)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	return i.parse(token, tokenTypeRefresh)
}

func (i *Issuer) parse(token, wantType string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
