package handlers

import (
	"hoaportal/internal/audit"
	"hoaportal/internal/services/security"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TwoFactorHandler struct {
	security *security.Service
}

func NewTwoFactorHandler(securityService *security.Service) *TwoFactorHandler {
	return &TwoFactorHandler{security: securityService}
}

func (h *TwoFactorHandler) Setup(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	res, err := h.security.BeginSetup(c.UserContext(), p.ID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, res)
}

func (h *TwoFactorHandler) VerifySetup(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	var input struct {
		Secret string `json:"secret"`
		Code   string `json:"code"`
	}
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	codes, err := h.security.ConfirmSetup(c.UserContext(), p.ID, input.Secret, input.Code, audit.FromFiber(c))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message":      "Two-factor authentication enabled successfully",
		"backup_codes": codes,
	})
}

func (h *TwoFactorHandler) Disable(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	var input struct {
		Password string `json:"password"`
	}
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := h.security.Disable(c.UserContext(), p.ID, input.Password, audit.FromFiber(c)); err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, message("Two-factor authentication disabled successfully"))
}

func (h *TwoFactorHandler) BackupCodes(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	codes, err := h.security.RegenerateBackupCodes(c.UserContext(), p.ID, audit.FromFiber(c))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.Map{"backup_codes": codes})
}

func (h *TwoFactorHandler) Verify(c *fiber.Ctx) error {
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
	res, err := h.security.VerifyCode(c.UserContext(), p.ID, input.Code)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, res)
}
