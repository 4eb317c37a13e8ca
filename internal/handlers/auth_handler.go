package handlers

import (
	"artisanconnect/internal/middleware"
	"artisanconnect/internal/models"
	"artisanconnect/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes. auth guards the
// superadmin user listing.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/superadmin/login", h.HandleSuperadminLogin)
	authRoutes.Get("/superadmin/users", auth, middleware.RequireRole(models.RoleSuperadmin), h.HandleListUsers)
	authRoutes.Get("/slug/:slug", h.HandleGetBySlug)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=buyer seller"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// SuperadminLoginRequest represents the request body for the operator login.
type SuperadminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func authResponse(user *models.User, token string) fiber.Map {
	return fiber.Map{
		"user":  user.Public(),
		"token": token,
	}
}

// HandleSignup registers a buyer or seller.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	user, token, err := h.authService.Signup(services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Phone:    req.Phone,
	})
	if err != nil {
		h.logger.Warn("signup failed", zap.String("username", req.Username), zap.Error(err))
		return respondError(c, err, "Registration failed")
	}
	return c.JSON(authResponse(user, token))
}

// HandleLogin authenticates a buyer or seller by email or username.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	user, token, err := h.authService.Login(req.EmailOrUsername, req.Password)
	if err != nil {
		return respondError(c, err, "Invalid credentials")
	}
	return c.JSON(authResponse(user, token))
}

// HandleSuperadminLogin authenticates the platform operator.
func (h *AuthHandler) HandleSuperadminLogin(c *fiber.Ctx) error {
	var req SuperadminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	token, err := h.authService.SuperadminLogin(req.Username, req.Password)
	if err != nil {
		return respondError(c, err, "Superadmin login failed")
	}
	return c.JSON(fiber.Map{
		"user":  fiber.Map{"username": req.Username, "role": models.RoleSuperadmin},
		"token": token,
	})
}

// HandleGetBySlug returns an artisan's public profile.
func (h *AuthHandler) HandleGetBySlug(c *fiber.Ctx) error {
	user, err := h.authService.GetBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err, "Not found")
	}
	return c.JSON(user.Public())
}

// HandleListUsers lists every user for the superadmin.
func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers()
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return c.JSON(out)
}
