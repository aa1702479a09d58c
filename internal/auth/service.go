// Package auth implements the single-admin login flow: argon2id credential
// verification and HS256 access tokens with algorithm pinning on parse.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/inhaus-automation/backend/internal/common"
)

const defaultAccessTTL = 12 * time.Hour

// Service verifies admin credentials and issues access tokens.
type Service struct {
	username     string
	passwordHash string
	secret       []byte
	accessTTL    time.Duration
	now          func() time.Time
	signer       jwa.SignatureAlgorithm
	validator    TokenValidator
	issuer       string
	audience     string
	clockSkew    time.Duration
}

// Config configures the auth service. Username and PasswordHash come from
// deployment configuration; there is no user table.
type Config struct {
	Username       string
	PasswordHash   string
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       string
	ClockSkew      time.Duration
}

// NewService constructs a Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Username == "" || cfg.PasswordHash == "" {
		return nil, errors.New("auth: admin credentials are required")
	}
	if len(cfg.Secret) < 32 {
		return nil, errors.New("auth: secret must be at least 32 bytes")
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	signer := jwa.HS256
	return &Service{
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		secret:       []byte(cfg.Secret),
		accessTTL:    accessTTL,
		now:          time.Now,
		signer:       signer,
		validator: TokenValidator{
			Issuer:    cfg.Issuer,
			Audience:  cfg.Audience,
			ClockSkew: cfg.ClockSkew,
			Algorithm: signer,
		},
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		clockSkew: cfg.ClockSkew,
	}, nil
}

// WithNow overrides the service clock. Intended for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// LoginResult bundles token material returned after a successful login.
type LoginResult struct {
	Username     string    `json:"username"`
	AccessToken  string    `json:"access_token"`
	AccessExpiry time.Time `json:"access_expires_at"`
}

// Login verifies the admin credentials and returns a signed access token.
// Username comparison and hash verification both run on every attempt so
// timing does not reveal which part failed.
func (s *Service) Login(username, password string) (LoginResult, error) {
	match, err := argon2id.ComparePasswordAndHash(password, s.passwordHash)
	if err != nil {
		return LoginResult{}, common.NewAppError("UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized, err)
	}
	if !match || username != s.username {
		return LoginResult{}, common.NewAppError("UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized, nil)
	}
	token, expiry, err := s.signAccessToken(username)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Username: username, AccessToken: token, AccessExpiry: expiry}, nil
}

// ParseAccessToken verifies a token and returns the admin username it was
// issued for. The algorithm is extracted from the token and pinned against
// the service's signer before any key is used.
func (s *Service) ParseAccessToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.NewAppError("UNAUTHORIZED", "missing token", http.StatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if s.validator.Algorithm != "" && algorithm != s.validator.Algorithm {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret))
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if err := s.validator.Validate(parsed, algorithm, s.now()); err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	return parsed.Subject(), nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", fmt.Errorf("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func (s *Service) signAccessToken(username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	builder := jwt.NewBuilder().
		Subject(username).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt)
	token, err := builder.Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}
