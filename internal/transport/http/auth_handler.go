package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cryptoscamalert/backend/internal/service"
	"github.com/cryptoscamalert/backend/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	handler := &AuthHandler{auth: auth}

	group := e.Group("/api/users")
	group.POST("/register", handler.register)
	group.POST("/login", handler.login)
	group.POST("/login/google", handler.loginWithGoogle)
	group.POST("/forgotpassword", handler.forgotPassword)
	group.PATCH("/resetpassword/:token", handler.resetPassword)
}

// register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body RegisterRequest true "registration payload"
// @Success 201 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/users/register [post]
func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	user, token, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusConflict, util.Error("an account with this email already exists"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not create the account"))
		}
	}

	return c.JSON(http.StatusCreated, util.Envelope{
		"user":  toAuthUser(user),
		"token": token,
	})
}

// login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "login payload"
// @Success 200 {object} util.Envelope
// @Failure 401 {object} ErrorResponse
// @Router /api/users/login [post]
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, util.Error("incorrect email or password"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not log in"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"user":  toAuthUser(user),
		"token": token,
	})
}

// loginWithGoogle godoc
// @Summary Log in with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body GoogleLoginRequest true "google login payload"
// @Success 200 {object} util.Envelope
// @Failure 401 {object} ErrorResponse
// @Router /api/users/login/google [post]
func (h *AuthHandler) loginWithGoogle(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	user, token, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGoogleLoginOff):
			return c.JSON(http.StatusNotImplemented, util.Error("google login is not configured"))
		case errors.Is(err, service.ErrInvalidGoogleToken):
			return c.JSON(http.StatusUnauthorized, util.Error("invalid google token"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not log in"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"user":  toAuthUser(user),
		"token": token,
	})
}

// forgotPassword godoc
// @Summary Email a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body ForgotPasswordRequest true "forgot password payload"
// @Success 200 {object} util.Envelope
// @Failure 404 {object} ErrorResponse
// @Router /api/users/forgotpassword [post]
func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error("there is no user with this email address"))
		case errors.Is(err, service.ErrResetMailFailed):
			return c.JSON(http.StatusInternalServerError, util.Error("there was an error sending the email, try again later"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not start the password reset"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"message": "reset token sent to your email",
	})
}

// resetPassword godoc
// @Summary Redeem a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "reset token"
// @Param payload body ResetPasswordRequest true "reset password payload"
// @Success 200 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Router /api/users/resetpassword/{token} [patch]
func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	user, token, err := h.auth.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResetTokenInvalid):
			return c.JSON(http.StatusBadRequest, util.Error("token is invalid or has expired"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not reset the password"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"user":       toAuthUser(user),
		"token":      token,
		"changed_at": time.Now().UTC().Format(time.RFC3339),
	})
}
