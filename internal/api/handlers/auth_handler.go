package handlers

import (
	"SmartExpire/domain"
	"SmartExpire/internal/api/presenters"
	"SmartExpire/pkg/auth"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AuthHandler interface {
		SignUp(c *fiber.Ctx) error
		SignIn(c *fiber.Ctx) error
		SignOut(c *fiber.Ctx) error
		Session(c *fiber.Ctx) error
		VerifyEmail(c *fiber.Ctx) error
	}

	authHandler struct {
		authService auth.AuthService
		validator   *validator.Validate
	}
)

func NewAuthHandler(authService auth.AuthService, validator *validator.Validate) AuthHandler {
	return &authHandler{
		authService: authService,
		validator:   validator,
	}
}

func (h *authHandler) SignUp(c *fiber.Ctx) error {
	req := new(domain.SignUpRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegister, err)
	}

	res, err := h.authService.SignUp(c.Context(), *req)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			status = fiber.StatusConflict
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedRegister, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *authHandler) SignIn(c *fiber.Ctx) error {
	req := new(domain.SignInRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.authService.SignIn(c.Context(), *req)
	if err != nil {
		status := fiber.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			status = fiber.StatusUnauthorized
		case errors.Is(err, domain.ErrEmailNotVerified):
			status = fiber.StatusForbidden
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedLogin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *authHandler) SignOut(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	if err := h.authService.SignOut(c.Context(), token); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedLogout, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessLogout)
}

func (h *authHandler) Session(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	session, err := h.authService.GetCurrentSession(c.Context(), token)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetSession, err)
	}
	return presenters.SuccessResponse(c, session, fiber.StatusOK, domain.MessageSuccessGetSession)
}

func (h *authHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedVerifyEmail, domain.ErrTokenNotFound)
	}

	if err := h.authService.VerifyEmail(c.Context(), token); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedVerifyEmail, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessVerifyEmail)
}
