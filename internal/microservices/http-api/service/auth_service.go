package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shohorbari/internal/config"
	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"
	"shohorbari/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInactiveUser       = errors.New("user account is disabled")
)

const tokenTypeAccess = "access"

// Claims is the access token payload
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Principal converts the token claims into the identity the policy works on
func (c *Claims) Principal() policy.Principal {
	return policy.Principal{UserID: c.UserID, Role: policy.Role(c.Role)}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type AuthService interface {
	Register(ctx context.Context, user *models.User, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
	Me(ctx context.Context, p policy.Principal) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, password string) (*models.User, error)
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		now:              time.Now,
	}
}

// Register creates a regular user. The role is forced to "user" whatever the caller passed.
func (s *authService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	// the binding counts runes, bcrypt counts bytes
	if len(password) > auth.MaxPasswordBytes {
		return nil, NewValidationError("password", fmt.Sprintf("ensure this field has no more than %d bytes", auth.MaxPasswordBytes))
	}
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Password = hashedPassword
	user.Role = models.RoleUser
	user.IsActive = true

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", ErrConflict, ErrEmailInUse)
		}
		return nil, err
	}
	return user, nil
}

// Login: authenticates a user and returns access and refresh tokens upon successful login.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		// same cost as a real comparison
		auth.BurnCompare(password)
		return nil, nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	pair, err := s.issuePair(ctx, user, "")
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err == nil {
		user.LastLogin = &now
	}
	return pair, user, nil
}

// Refresh rotates the refresh token: the presented one is revoked and a new pair is issued.
func (s *authService) Refresh(ctx context.Context, refreshTokenString string) (*TokenPair, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if refreshToken.Revoked {
		return nil, ErrInvalidToken
	}
	if refreshToken.ExpiredAt(s.now()) {
		_ = s.refreshTokenRepo.Revoke(ctx, refreshToken.ID)
		return nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	pair, err := s.issuePair(ctx, user, refreshToken.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// lost a race with another rotation of the same token
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return pair, nil
}

// Revoke never reports whether the token existed
func (s *authService) Revoke(ctx context.Context, refreshTokenString string) error {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.refreshTokenRepo.Revoke(ctx, refreshToken.ID)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != tokenTypeAccess || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) Me(ctx context.Context, p policy.Principal) (*models.User, error) {
	if err := policy.Authorize(p, policy.ViewProfile, nil); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin, or promotes an existing account with that email.
// An existing password is left untouched.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role == models.RoleAdmin && user.IsActive {
			return user, nil
		}
		user.Role = models.RoleAdmin
		user.IsActive = true
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashedPassword, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		admin := &models.User{
			Email:    strings.ToLower(strings.TrimSpace(email)),
			Password: hashedPassword,
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if err := s.userRepo.Create(ctx, admin); err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		return admin, nil
	default:
		return nil, err
	}
}

func (s *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.refreshTokenRepo.DeleteExpired(ctx, s.now())
}

// issuePair signs an access token and stores a fresh refresh token. When
// rotateFrom is set the old refresh token is revoked in the same transaction.
func (s *authService) issuePair(ctx context.Context, user *models.User, rotateFrom string) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}
	if rotateFrom == "" {
		err = s.refreshTokenRepo.Create(ctx, refreshToken)
	} else {
		err = s.refreshTokenRepo.Rotate(ctx, rotateFrom, refreshToken)
	}
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Type:   tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
