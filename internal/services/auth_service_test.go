package services_test

import (
	"testing"
	"time"

	"artisanconnect/internal/models"
	"artisanconnect/internal/repositories"
	"artisanconnect/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	if user.ID == "" {
		user.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	return m.user(m.Called(id))
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	return m.user(m.Called(username))
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	return m.user(m.Called(email))
}

func (m *MockUserRepository) GetBySlug(slug string) (*models.User, error) {
	return m.user(m.Called(slug))
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, services.AuthConfig{
		JWTSecret:      testJWTSecret,
		TokenTTL:       time.Hour,
		SuperadminUser: "admin",
		SuperadminPass: "s3cret",
	}, zap.NewNop())
}

func TestAuthService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByUsername", "Ravi K").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "ravi@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, token, err := authService.Signup(services.SignupInput{
		Username: "Ravi K",
		Email:    "ravi@example.com",
		Password: "password123",
		Role:     models.RoleSeller,
		Phone:    "9000000001",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	require.NotNil(t, user.Slug)
	assert.Regexp(t, `^ravik-[0-9a-f]{8}$`, *user.Slug)

	identity, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, models.RoleSeller, identity.Role)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignupRejectsExistingUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByUsername", "ravi").Return(&models.User{ID: "1", Username: "ravi"}, nil).Once()

	_, _, err := authService.Signup(services.SignupInput{Username: "ravi", Email: "r@example.com", Password: "password123", Role: models.RoleBuyer})
	assert.ErrorIs(t, err, services.ErrConflict)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_SignupRejectsSuperadminRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	_, _, err := authService.Signup(services.SignupInput{Username: "x", Email: "x@example.com", Password: "password123", Role: models.RoleSuperadmin})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &models.User{ID: "user-1", Username: "priya", Email: "priya@example.com", Password: string(hashedPassword), Role: models.RoleBuyer}

	t.Run("by email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", "priya@example.com").Return(stored, nil).Once()

		user, token, err := newAuthService(mockRepo).Login("priya@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("by username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", "priya").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByUsername", "priya").Return(stored, nil).Once()

		_, _, err := newAuthService(mockRepo).Login("priya", "password123")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", "priya@example.com").Return(stored, nil).Once()

		_, _, err := newAuthService(mockRepo).Login("priya@example.com", "wrongpassword")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", "ghost").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByUsername", "ghost").Return(nil, repositories.ErrNotFound).Once()

		_, _, err := newAuthService(mockRepo).Login("ghost", "password123")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestAuthService_SuperadminLogin(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))

	token, err := authService.SuperadminLogin("admin", "s3cret")
	require.NoError(t, err)
	identity, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperadmin, identity.Role)
	assert.Empty(t, identity.UserID)

	_, err = authService.SuperadminLogin("admin", "nope")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	unconfigured := services.NewAuthService(new(MockUserRepository), services.AuthConfig{JWTSecret: testJWTSecret}, zap.NewNop())
	_, err = unconfigured.SuperadminLogin("", "")
	assert.ErrorIs(t, err, services.ErrNotConfigured)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))

	sign := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	t.Run("expired token", func(t *testing.T) {
		token := sign(testJWTSecret, jwt.MapClaims{"id": "u", "username": "u", "role": "buyer", "exp": time.Now().Add(-time.Hour).Unix()})
		_, err := authService.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := sign("other_secret", jwt.MapClaims{"id": "u", "username": "u", "role": "buyer", "exp": time.Now().Add(time.Hour).Unix()})
		_, err := authService.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("user token without id", func(t *testing.T) {
		token := sign(testJWTSecret, jwt.MapClaims{"username": "u", "role": "seller", "exp": time.Now().Add(time.Hour).Unix()})
		_, err := authService.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := authService.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})
}
