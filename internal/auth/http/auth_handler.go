package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/allisson/tokenbox/internal/auth/usecase"
	"github.com/allisson/tokenbox/internal/httputil"
)

// loginRequest is the POST /auth payload.
type loginRequest struct {
	Username string `json:"username"`
	Realm    string `json:"realm"`
	Password string `json:"password"`
}

// loginResponse is the issued-token payload inside the result envelope.
type loginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	useCase authUseCase.UseCase
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(useCase authUseCase.UseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{useCase: useCase, logger: logger}
}

// Login handles POST /auth.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.useCase.Login(c.Request.Context(), authUseCase.LoginInput{
		Username: req.Username,
		Realm:    req.Realm,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.Success(c, loginResponse{
		Token:     output.Token,
		Role:      string(output.Scope),
		ExpiresAt: output.ExpiresAt,
	})
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/auth", h.Login)
}
