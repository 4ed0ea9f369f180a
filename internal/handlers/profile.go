package handlers

import (
	"context"

	"hoaportal/internal/audit"
	"hoaportal/internal/authz"
	"hoaportal/internal/models"
	"hoaportal/internal/services/profile"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profile *profile.Service
}

func NewProfileHandler(profileService *profile.Service) *ProfileHandler {
	return &ProfileHandler{profile: profileService}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	view, err := h.profile.GetProfile(c.UserContext(), p.ID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, view)
}

type updateFunc[T any] func(ctx context.Context, userID uuid.UUID, in T, rc audit.RequestContext) (*models.User, error)

// update binds a section payload and applies it to the caller's profile.
func update[T any](fn updateFunc[T], done string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if p == nil {
			return err
		}
		var input T
		if !parseBody(c, &input) {
			return utils.BadRequest(c, "Invalid request body")
		}
		user, err := fn(c.UserContext(), p.ID, input, audit.FromFiber(c))
		if err != nil {
			return utils.Fail(c, err)
		}
		return utils.Success(c, fiber.Map{"message": done, "user": user})
	}
}

func (h *ProfileHandler) UpdateBasic() fiber.Handler {
	return update(h.profile.UpdateBasic, "Basic information updated successfully")
}

func (h *ProfileHandler) UpdateResidence() fiber.Handler {
	return update(h.profile.UpdateResidence, "Residence information updated successfully")
}

func (h *ProfileHandler) UpdateEmergency() fiber.Handler {
	return update(h.profile.UpdateEmergency, "Emergency contacts updated successfully")
}

func (h *ProfileHandler) UpdatePrivacy() fiber.Handler {
	return update(h.profile.UpdatePrivacy, "Privacy settings updated successfully")
}

func (h *ProfileHandler) UpdateNotifications() fiber.Handler {
	return update(h.profile.UpdateNotifications, "Notification preferences updated successfully")
}

func (h *ProfileHandler) UpdateSystem() fiber.Handler {
	return update(h.profile.UpdateSystem, "System preferences updated successfully")
}

func (h *ProfileHandler) UpdateFinancial() fiber.Handler {
	return update(h.profile.UpdateFinancial, "Financial preferences updated successfully")
}

func (h *ProfileHandler) ChangeLogs(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	logs, err := h.profile.ChangeLogs(c.UserContext(), p.ID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.Map{"change_logs": logs})
}

func (h *ProfileHandler) CompletionStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	status, err := h.profile.CompletionStatus(c.UserContext(), p.ID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, status)
}

func (h *ProfileHandler) ExportData(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	export, err := h.profile.ExportData(c.UserContext(), p.ID, audit.FromFiber(c))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, export)
}

// UserProfile returns another account's profile to its owner or an admin.
// Anyone else gets 404 so the id's existence is not revealed.
func (h *ProfileHandler) UserProfile(c *fiber.Ctx) error {
	p, id, err := ownedTarget(c, authz.KindAccount)
	if p == nil {
		return err
	}
	view, err := h.profile.GetProfile(c.UserContext(), id)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, view)
}

func (h *ProfileHandler) UserChangeLogs(c *fiber.Ctx) error {
	p, id, err := ownedTarget(c, authz.KindChangeLog)
	if p == nil {
		return err
	}
	logs, err := h.profile.ChangeLogs(c.UserContext(), id)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.Map{"change_logs": logs})
}
