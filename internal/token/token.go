package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/soratani/task-tracker-api/internal/constants"
)

var (
	// ErrMalformedToken is returned when a token cannot be parsed or its
	// signature does not verify against the signing key.
	ErrMalformedToken = errors.New("malformed token")

	// ErrEmptySubject is returned when issuing a token for an empty subject.
	ErrEmptySubject = errors.New("token subject is required")
)

// Service issues and verifies signed session tokens. Tokens carry only a
// subject and an absolute expiry, so verification needs no store access and
// any instance holding the same signing key can validate them.
type Service struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time // injectable for tests
}

// NewService creates a token service around an injected signing secret.
func NewService(secret string) *Service {
	return &Service{
		signingKey: []byte(secret),
		ttl:        constants.TokenTTL,
		now:        time.Now,
	}
}

// Issue creates a signed token for the given subject, expiring after the
// fixed TTL.
func (s *Service) Issue(subject string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// SubjectOf extracts the embedded subject. Expiry is deliberately not
// checked here; only parse and signature failures are rejected.
func (s *Service) SubjectOf(raw string) (string, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid reports whether the token belongs to the expected subject and has
// not yet expired. Any parse or signature failure counts as not valid.
func (s *Service) IsValid(raw, expectedSubject string) bool {
	claims, err := s.parse(raw)
	if err != nil {
		return false
	}
	if claims.Subject != expectedSubject {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return s.now().Before(claims.ExpiresAt.Time)
}

// parse verifies the signature and decodes the claims. Time-based claims are
// not validated here so that SubjectOf works on expired tokens; IsValid
// applies the expiry rule itself.
func (s *Service) parse(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}
	return claims, nil
}
