package handlers

import (
	"hoaportal/internal/audit"
	"hoaportal/internal/models"
	"hoaportal/internal/services/auth"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}

	user, err := h.auth.Register(c.UserContext(), input, audit.FromFiber(c))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Created(c, fiber.Map{"user": user})
}

// Login returns a token pair, or two_factor_required when the account needs
// a second factor and none was sent.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input auth.LoginInput
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}

	res, err := h.auth.Login(c.UserContext(), input, audit.FromFiber(c))
	if err != nil {
		return utils.Fail(c, err)
	}
	if res.TwoFactorRequired {
		return utils.Success(c, fiber.Map{
			"two_factor_required": true,
			"message":             "Two-factor authentication code required",
		})
	}
	return utils.Success(c, res)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}

	pair, err := h.auth.Refresh(c.UserContext(), input.RefreshToken)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, pair)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), p.ID); err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, message("Logged out successfully"))
}
