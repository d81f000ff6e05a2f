package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/usermgmt/user-management-api/internal/core/domain"
)

// DefaultTokenTTL is how long issued tokens stay valid when no TTL is
// configured.
const DefaultTokenTTL = 3 * time.Hour

// defaultUserIDClaim carries the stable user id when no claim name is
// configured. Downstream consumers may remap it via configuration.
const defaultUserIDClaim = "uid"

// TokenConfig holds the signing parameters for the token issuer.
type TokenConfig struct {
	// Secret is the symmetric HS256 signing key. Required.
	Secret string
	// Issuer and Audience are embedded verbatim into every token and
	// checked verbatim on verification. Empty values disable the check.
	Issuer   string
	Audience string
	// UserIDClaim is the claim type carrying the stable user id.
	UserIDClaim string
	// TTL is the issuance-to-expiry window. Defaults to DefaultTokenTTL.
	TTL time.Duration
}

// TokenService builds claim sets and produces signed, expiring tokens, and
// verifies tokens presented back by protected endpoints. It is stateless and
// safe for concurrent use.
type TokenService struct {
	cfg TokenConfig
}

// NewTokenService validates cfg and returns a ready issuer. A missing signing
// secret is a configuration fault surfaced here, at startup, never per
// request.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	if cfg.UserIDClaim == "" {
		cfg.UserIDClaim = defaultUserIDClaim
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &TokenService{cfg: cfg}, nil
}

// Issue mints a signed token for identity expiring TTL from now.
func (s *TokenService) Issue(identity domain.VerifiedIdentity) (string, time.Time, error) {
	return s.IssueAt(identity, time.Now().UTC())
}

// IssueAt is Issue with an explicit clock. Apart from the fresh jti nonce the
// output is fully determined by identity and now.
func (s *TokenService) IssueAt(identity domain.VerifiedIdentity, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.cfg.TTL)

	claims := jwt.MapClaims{
		s.cfg.UserIDClaim: identity.ID,
		"sub":             identity.ID,
		"name":            identity.Username,
		"roles":           identity.Roles,
		"jti":             uuid.NewString(),
		"iat":             now.Unix(),
		"exp":             expiresAt.Unix(),
	}
	if s.cfg.Issuer != "" {
		claims["iss"] = s.cfg.Issuer
	}
	if s.cfg.Audience != "" {
		claims["aud"] = s.cfg.Audience
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, expiry and the configured issuer/audience, and
// returns the identity claims. Any failure collapses into ErrInvalidToken so
// callers cannot partially trust a rejected token.
func (s *TokenService) Verify(token string) (*domain.AuthClaims, error) {
	claims := jwt.MapClaims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.AuthClaims{}
	out.UserID, _ = claims[s.cfg.UserIDClaim].(string)
	out.Username, _ = claims["name"].(string)
	out.TokenID, _ = claims["jti"].(string)
	if raw, ok := claims["roles"].([]any); ok {
		for _, r := range raw {
			if role, ok := r.(string); ok {
				out.Roles = append(out.Roles, role)
			}
		}
	}
	return out, nil
}
