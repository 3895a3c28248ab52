package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/model"
)

// Common auth errors.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims extends JWT standard claims with the session user and role.
// The token ID doubles as the flow session ID.
type Claims struct {
	jwt.RegisteredClaims
	Role  model.Role `json:"role"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

// SessionID returns the flow session bound to the token.
func (c *Claims) SessionID() string {
	return c.ID
}

// User returns the session user.
func (c *Claims) User() model.UserInfo {
	return model.UserInfo{Name: c.Name, Email: c.Email}
}

// IssuedToken is a signed session token.
type IssuedToken struct {
	Token     string    `json:"token"`
	SessionID string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService handles role decisions and session tokens.
type AuthService struct {
	cfg    *config.Config
	policy AccessPolicy
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, policy AccessPolicy) *AuthService {
	return &AuthService{cfg: cfg, policy: policy, now: time.Now}
}

// RoleFor returns the role the access policy grants to email.
func (s *AuthService) RoleFor(email string) model.Role {
	return s.policy.RoleFor(email)
}

// IssueToken signs a token for user with a fresh session ID.
func (s *AuthService) IssueToken(user model.UserInfo, role model.Role) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.SessionTTL)
	sessionID := uuid.New().String()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:  role,
		Name:  user.Name,
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &IssuedToken{Token: signed, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" || claims.Email == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
