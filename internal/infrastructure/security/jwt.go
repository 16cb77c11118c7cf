package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storely/auth-service/internal/application/auth"
	"github.com/storely/auth-service/internal/domain"
)

// JWTIssuer signs and verifies HS256 tokens. Issuing uses the first entry
// of the issuer/audience allow-lists; validation accepts any entry.
type JWTIssuer struct {
	secret    []byte
	issuers   []string
	audiences []string

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTIssuer(secret string, issuers, audiences []string, accessTTL, refreshTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret:     []byte(secret),
		issuers:    issuers,
		audiences:  audiences,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type accessClaims struct {
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

func (s *JWTIssuer) issueFor(userID string) jwt.RegisteredClaims {
	now := time.Now()
	rc := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if len(s.issuers) > 0 {
		rc.Issuer = s.issuers[0]
	}
	if len(s.audiences) > 0 {
		rc.Audience = jwt.ClaimStrings{s.audiences[0]}
	}
	return rc
}

// IssueAccessToken embeds the user id as subject plus one permission claim
// entry per name. Short-lived; authorizes API calls.
func (s *JWTIssuer) IssueAccessToken(userID string, permissions []string) (string, error) {
	rc := s.issueFor(userID)
	rc.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.accessTTL))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Permissions:      permissions,
		RegisteredClaims: rc,
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// IssueRefreshToken embeds the user id and a fresh jti so two tokens for the
// same subject issued back to back still differ. Never carries permissions.
func (s *JWTIssuer) IssueRefreshToken(userID string) (string, error) {
	rc := s.issueFor(userID)
	rc.ID = uuid.NewString()
	rc.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.refreshTTL))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, rc)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTIssuer) keyFunc(t *jwt.Token) (any, error) {
	// prevent alg confusion
	if t.Method != jwt.SigningMethodHS256 {
		return nil, domain.ErrTokenInvalid()
	}
	return s.secret, nil
}

func (s *JWTIssuer) allowedIssuer(iss string) bool {
	if len(s.issuers) == 0 {
		return true
	}
	for _, want := range s.issuers {
		if iss == want {
			return true
		}
	}
	return false
}

func (s *JWTIssuer) allowedAudience(aud jwt.ClaimStrings) bool {
	if len(s.audiences) == 0 {
		return true
	}
	for _, want := range s.audiences {
		for _, got := range aud {
			if got == want {
				return true
			}
		}
	}
	return false
}

// VerifyAccessToken validates signature, lifetime and issuer/audience
// allow-lists, then returns the identity and permission claims.
func (s *JWTIssuer) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenClaims{}, domain.ErrTokenExpired()
		}
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	if claims.Subject == "" {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	if !s.allowedIssuer(claims.Issuer) || !s.allowedAudience(claims.Audience) {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return auth.TokenClaims{
		UserID:      claims.Subject,
		Permissions: claims.Permissions,
		Exp:         exp,
	}, nil
}

// ExtractSubject reads the subject of a token whose expiry may have passed.
// The signature is still verified; forged tokens are rejected.
func (s *JWTIssuer) ExtractSubject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation())
	if err != nil {
		return "", domain.ErrTokenInvalid()
	}
	if claims.Subject == "" {
		return "", domain.ErrTokenInvalid()
	}
	return claims.Subject, nil
}

// TokenExpiry returns the expiry embedded in a signed token, expired or not.
func (s *JWTIssuer) TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation())
	if err != nil {
		return time.Time{}, domain.ErrTokenInvalid()
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, domain.ErrTokenInvalid()
	}
	return claims.ExpiresAt.Time, nil
}
