package handlers

import (
	"hoaportal/internal/audit"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories/cache"
	"hoaportal/internal/services/auth"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	auth  *auth.Service
	cache *cache.CacheService
}

// NewAdminHandler builds the admin endpoints. cacheService may be nil.
func NewAdminHandler(authService *auth.Service, cacheService *cache.CacheService) *AdminHandler {
	return &AdminHandler{auth: authService, cache: cacheService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)

	users, total, err := h.auth.ListUsers(c.UserContext(), p.Page, p.Limit)
	if err != nil {
		return utils.Fail(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(users, p))
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	actor, err := principal(c)
	if actor == nil {
		return err
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}
	var input struct {
		Role models.Role `json:"role"`
	}
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}

	user, err := h.auth.SetRole(c.UserContext(), actor, id, input.Role, audit.FromFiber(c))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "Role updated successfully", "user": user})
}

func (h *AdminHandler) CacheStats(c *fiber.Ctx) error {
	if h.cache == nil {
		return utils.Success(c, fiber.Map{"enabled": false})
	}
	stats := h.cache.GetStats(c.UserContext())
	return utils.Success(c, fiber.Map{
		"enabled": true,
		"pool_stats": fiber.Map{
			"hits":        stats.Hits,
			"misses":      stats.Misses,
			"timeouts":    stats.Timeouts,
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"stale_conns": stats.StaleConns,
		},
	})
}
