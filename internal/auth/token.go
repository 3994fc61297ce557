package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Subject scopes a token to one purpose. Verification requires an exact
// match, so a reset token can never be replayed as a session token.
type Subject string

const (
	SubjectAuth    Subject = "auth"
	SubjectConfirm Subject = "confirm"
	SubjectReset   Subject = "reset"
)

// Verification failure kinds.
var (
	ErrMissingToken    = errors.New("missing token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSubjectMismatch = errors.New("token subject mismatch")
	ErrTokenExpired    = errors.New("token expired")
	ErrAccountNotFound = errors.New("account not found")
)

// Claims describes the JWT payload.
type Claims struct {
	Email        string  `json:"email,omitempty"`
	TokenSubject Subject `json:"subject"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens for a single subject. One
// instance is built per subject, all sharing the same injected secret but
// carrying independent TTLs.
type TokenService struct {
	secret       []byte
	subject      Subject
	ttl          time.Duration
	ignoreExpiry bool
	logger       *zap.Logger
}

// Option adjusts TokenService construction.
type Option func(*TokenService)

// IgnoreExpiry disables expiration checking on Verify. Used for one-shot
// confirm/reset tokens where staleness is enforced at the business layer.
func IgnoreExpiry() Option {
	return func(s *TokenService) { s.ignoreExpiry = true }
}

// NewTokenService builds a service for the given subject. A zero ttl
// produces tokens without an expiration claim.
func NewTokenService(secret string, subject Subject, ttl time.Duration, logger *zap.Logger, opts ...Option) *TokenService {
	s := &TokenService{
		secret:  []byte(secret),
		subject: subject,
		ttl:     ttl,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate signs a token for the account. expiresAt is zero when the service
// has no TTL configured.
func (s *TokenService) Generate(accountID, email string) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Email:        email,
		TokenSubject: s.subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  accountID,
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	var expiresAt time.Time
	if s.ttl != 0 {
		expiresAt = now.Add(s.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("token generation failed",
			zap.String("subject", string(s.subject)),
			zap.String("account_id", accountID),
			zap.Error(err))
		return "", time.Time{}, err
	}

	s.logger.Debug("token issued",
		zap.String("subject", string(s.subject)),
		zap.String("account_id", accountID),
		zap.Time("expires_at", expiresAt))
	return signed, expiresAt, nil
}

// Verify checks signature, subject and (unless disabled) expiration, and
// returns the embedded claims.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.ignoreExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	parser := jwt.NewParser(opts...)

	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		kind := ErrInvalidToken
		if errors.Is(err, jwt.ErrTokenExpired) {
			kind = ErrTokenExpired
		}
		s.logger.Debug("token verification failed",
			zap.String("subject", string(s.subject)),
			zap.Error(err))
		return nil, kind
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.TokenSubject != s.subject {
		s.logger.Debug("token subject mismatch",
			zap.String("expected", string(s.subject)),
			zap.String("got", string(claims.TokenSubject)))
		return nil, ErrSubjectMismatch
	}

	s.logger.Debug("token verified",
		zap.String("subject", string(s.subject)),
		zap.String("account_id", claims.Subject))
	return claims, nil
}
