package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/gateway/internal/errors"
	"github.com/allisson/gateway/internal/httputil"
	userDomain "github.com/allisson/gateway/internal/user/domain"
	"github.com/allisson/gateway/internal/user/http/dto"
	userService "github.com/allisson/gateway/internal/user/service"
	userUseCase "github.com/allisson/gateway/internal/user/usecase"
	customValidation "github.com/allisson/gateway/internal/validation"
)

// UserHandler handles HTTP requests for account registration and authentication.
type UserHandler struct {
	userUseCase  userUseCase.UserUseCase
	tokenService userService.TokenService
	logger       *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(
	useCase userUseCase.UserUseCase,
	tokenService userService.TokenService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase:  useCase,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterHandler creates a new account.
// POST /v1/users
// Returns 201 Created with the account, or 409 Conflict if the phone is taken.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), &userDomain.RegisterInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// RequestCodeHandler issues a one-time verification code.
// POST /v1/auth/code
// Always returns 204 No Content on success so account existence isn't leaked.
func (h *UserHandler) RequestCodeHandler(c *gin.Context) {
	var req dto.RequestCodeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.userUseCase.RequestCode(c.Request.Context(), req.Phone); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// LoginHandler redeems a verification code and opens a session.
// POST /v1/auth/login
// Returns 200 OK with the session token, or 401 for invalid codes.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.userUseCase.Login(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoginOutputToResponse(output))
}

// LogoutHandler removes the current session.
// POST /v1/auth/logout - Requires authentication.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	tokenHash := h.tokenService.HashToken(authHeader[len(bearerPrefix):])

	if err := h.userUseCase.Logout(c.Request.Context(), tokenHash); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// MeHandler returns the authenticated account.
// GET /v1/me - Requires authentication.
func (h *UserHandler) MeHandler(c *gin.Context) {
	user, ok := GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}
