// Package auth issues and verifies the bearer tokens accepted by the secure
// pokemon endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/segmentio/ksuid"
)

const DefaultTTL = 60 * time.Minute

var (
	ErrNoSecret     = errors.New("jwt secret is not configured")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by a pokecsv token
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenIssuer
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration    // defaults to DefaultTTL
	Now      func() time.Time // for tests
}

// Token is an issued token and its expiry
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// TokenIssuer signs and validates HS256 tokens
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenIssuer(config TokenConfig) (*TokenIssuer, error) {
	if config.Secret == "" {
		return nil, ErrNoSecret
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		secret:   []byte(config.Secret),
		issuer:   config.Issuer,
		audience: config.Audience,
		ttl:      ttl,
		now:      now,
	}, nil
}

// Issue signs a token for subject. The token id is a fresh ksuid.
func (i *TokenIssuer) Issue(subject string) (*Token, error) {
	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.ttl)

	claims := Claims{
		Name: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ksuid.New().String(),
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate parses raw and checks signature, expiry, issuer and audience
func (i *TokenIssuer) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	// jwt/v4 validates time claims against time.Now; check them ourselves
	// so the issuer clock applies.
	parser.SkipClaimsValidation = true
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	now := i.now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("%w: token is expired", ErrInvalidToken)
	}
	if !claims.VerifyNotBefore(now, false) {
		return nil, fmt.Errorf("%w: token is not valid yet", ErrInvalidToken)
	}
	if i.issuer != "" && !claims.VerifyIssuer(i.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	if i.audience != "" && !claims.VerifyAudience(i.audience, true) {
		return nil, fmt.Errorf("%w: unexpected audience", ErrInvalidToken)
	}

	return claims, nil
}
