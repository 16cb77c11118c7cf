package auth

import (
	"time"

	"github.com/storely/auth-service/internal/domain"
)

type Service struct {
	users       UserRepo
	permissions PermissionRepo
	hasher      PasswordHasher
	issuer      TokenIssuer
	pub         EventPublisher

	accessTTL       time.Duration
	accessFailedMax int
	lockoutDuration time.Duration

	now   func() time.Time
	audit func(action string, fields map[string]string)
}

type Config struct {
	AccessTTL       time.Duration
	AccessFailedMax int
	LockoutDuration time.Duration
}

func NewService(
	users UserRepo,
	permissions PermissionRepo,
	hasher PasswordHasher,
	issuer TokenIssuer,
	pub EventPublisher,
	cfg Config,
) *Service {
	max := cfg.AccessFailedMax
	if max <= 0 {
		max = 3
	}
	lockout := cfg.LockoutDuration
	if lockout <= 0 {
		lockout = 5 * time.Minute
	}
	return &Service{
		users:       users,
		permissions: permissions,
		hasher:      hasher,
		issuer:      issuer,
		pub:         pub,

		accessTTL:       cfg.AccessTTL,
		accessFailedMax: max,
		lockoutDuration: lockout,

		now:   time.Now,
		audit: func(string, map[string]string) {},
	}
}

// WithAudit installs a callback for business-event logging.
func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// AuthTokens is the common token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // "Bearer"
	ExpiresIn    int64  // access token lifetime, seconds
}

type LoginResult struct {
	User   domain.User
	Tokens AuthTokens
}

type RegisterResult struct {
	User domain.User
}

// issueTokens mints an access token carrying the given permissions and a
// fresh refresh token for the user.
func (s *Service) issueTokens(userID string, permissions []string) (AuthTokens, error) {
	access, err := s.issuer.IssueAccessToken(userID, permissions)
	if err != nil {
		return AuthTokens{}, err
	}
	refresh, err := s.issuer.IssueRefreshToken(userID)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func isNotFound(err error) bool {
	return domain.Is(err, "user_not_found")
}
