package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"artisanconnect/internal/models"
	"artisanconnect/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var slugUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Identity is the authenticated caller as carried by the bearer token.
// The superadmin has no UserID.
type Identity struct {
	UserID   string
	Username string
	Role     models.Role
}

// AuthConfig configures token issuance and the superadmin account.
type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	SuperadminUser string
	SuperadminPass string
}

// SignupInput is the data needed to register a buyer or seller.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     models.Role
	Phone    string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
	adminUser  string
	adminPass  string
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, cfg AuthConfig, logger *zap.Logger) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenDurat: ttl,
		adminUser:  cfg.SuperadminUser,
		adminPass:  cfg.SuperadminPass,
		logger:     logger,
	}
}

// Signup registers a buyer or seller, hashes their password and issues a token.
func (s *AuthService) Signup(in SignupInput) (*models.User, string, error) {
	if in.Role != models.RoleBuyer && in.Role != models.RoleSeller {
		return nil, "", fmt.Errorf("%w: invalid role %q", ErrValidation, in.Role)
	}

	if _, err := s.userRepo.GetByUsername(in.Username); err == nil {
		return nil, "", fmt.Errorf("%w: user already exists", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}
	if _, err := s.userRepo.GetByEmail(in.Email); err == nil {
		return nil, "", fmt.Errorf("%w: user already exists", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	slug, err := newSlug(in.Username)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
		Phone:    in.Phone,
		Slug:     &slug,
		Role:     in.Role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.issueToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, token, nil
}

// Login authenticates by email or username and returns a token.
func (s *AuthService) Login(emailOrUsername, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(emailOrUsername)
	if errors.Is(err, ErrNotFound) {
		user, err = s.userRepo.GetByUsername(emailOrUsername)
	}
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SuperadminLogin checks the configured operator credentials.
func (s *AuthService) SuperadminLogin(username, password string) (string, error) {
	if s.adminUser == "" || s.adminPass == "" {
		return "", fmt.Errorf("superadmin: %w", ErrNotConfigured)
	}
	if username != s.adminUser || password != s.adminPass {
		return "", ErrInvalidCredentials
	}
	return s.issueToken("", s.adminUser, models.RoleSuperadmin)
}

func (s *AuthService) issueToken(userID, username string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"role":     string(role),
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	}
	if userID != "" {
		claims["id"] = userID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the caller identity.
func (s *AuthService) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	id := &Identity{}
	id.UserID, _ = claims["id"].(string)
	id.Username, _ = claims["username"].(string)
	role, _ := claims["role"].(string)
	id.Role = models.Role(role)
	if id.Role == "" || (id.UserID == "" && id.Role != models.RoleSuperadmin) {
		return nil, fmt.Errorf("invalid token: missing identity claims")
	}
	return id, nil
}

// GetBySlug returns the public profile behind a slug.
func (s *AuthService) GetBySlug(slug string) (*models.User, error) {
	return s.userRepo.GetBySlug(slug)
}

// ListUsers returns every registered user.
func (s *AuthService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

func newSlug(username string) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate slug: %w", err)
	}
	base := strings.ToLower(slugUnsafe.ReplaceAllString(username, ""))
	return base + "-" + hex.EncodeToString(buf), nil
}
