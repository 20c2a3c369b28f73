package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ro-recruiting/back-office-api/internal/models"
	"github.com/ro-recruiting/back-office-api/pkg/config"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
)

// SessionClaims is the JWT payload carried by the session cookie.
type SessionClaims struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService authenticates the configured back-office users and issues
// session tokens. There is no user table; operators come from configuration.
type AuthService struct {
	users      []config.User
	secret     []byte
	expiration time.Duration
	logger     *zap.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = 12 * time.Hour
	}
	return &AuthService{users: cfg.Users, secret: []byte(cfg.Secret), expiration: expiration, logger: logger}
}

// Login verifies credentials and returns the authenticated user plus a signed
// session token. Unknown user and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(req models.LoginRequest) (*models.SessionUser, string, error) {
	if req.Username == "" || req.Password == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "username and password are required")
	}

	for _, user := range s.users {
		if user.Username != req.Username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			break
		}
		token, err := s.issueToken(user)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue session")
		}
		return &models.SessionUser{Name: user.Name, Username: user.Username, Email: user.Email}, token, nil
	}

	s.logger.Sugar().Warnw("login rejected", "username", req.Username)
	return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
}

// Verify parses and validates a session token.
func (s *AuthService) Verify(token string) (*models.SessionUser, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return &models.SessionUser{Name: claims.Name, Username: claims.Username, Email: claims.Email}, nil
}

// Expiration exposes the session lifetime for cookie max-age.
func (s *AuthService) Expiration() time.Duration {
	return s.expiration
}

func (s *AuthService) issueToken(user config.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
