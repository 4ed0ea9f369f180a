package handlers

import (
	"hoaportal/internal/audit"
	"hoaportal/internal/services/security"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type SecurityHandler struct {
	security *security.Service
}

func NewSecurityHandler(securityService *security.Service) *SecurityHandler {
	return &SecurityHandler{security: securityService}
}

func (h *SecurityHandler) ChangePassword(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	var input security.ChangePasswordInput
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := h.security.ChangePassword(c.UserContext(), p.ID, input, audit.FromFiber(c)); err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, message("Password changed successfully"))
}

func (h *SecurityHandler) RequestEmailVerification(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	var input struct {
		NewEmail string `json:"new_email"`
	}
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := h.security.RequestEmailChange(c.UserContext(), p.ID, input.NewEmail); err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, message("Verification email sent"))
}

func (h *SecurityHandler) VerifyEmail(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	var input struct {
		Token string `json:"token"`
	}
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := h.security.ConfirmEmail(c.UserContext(), p.ID, input.Token, audit.FromFiber(c)); err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, message("Email verified successfully"))
}

func (h *SecurityHandler) RequestPhoneVerification(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	var input struct {
		NewPhone string `json:"new_phone"`
	}
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := h.security.RequestPhoneChange(c.UserContext(), p.ID, input.NewPhone); err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, message("Verification code sent"))
}

func (h *SecurityHandler) VerifyPhone(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	var input struct {
		Code string `json:"code"`
	}
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := h.security.ConfirmPhone(c.UserContext(), p.ID, input.Code, audit.FromFiber(c)); err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, message("Phone number verified successfully"))
}
