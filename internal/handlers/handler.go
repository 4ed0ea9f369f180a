// Package handlers adapts HTTP requests onto the service layer.
package handlers

import (
	"hoaportal/internal/authz"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// principal returns the authenticated caller, or writes a 401 and returns nil.
func principal(c *fiber.Ctx) (*authz.Principal, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return nil, utils.Unauthorized(c, "Unauthorized")
	}
	return authz.FromClaims(claims), nil
}

func parseBody(c *fiber.Ctx, out interface{}) bool {
	return c.BodyParser(out) == nil
}

func pathUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func message(msg string) fiber.Map {
	return fiber.Map{"message": msg}
}

// ownedTarget resolves the :id user of a user-scoped route. Callers that are
// neither that user nor an admin get 404 so the id's existence is not revealed.
func ownedTarget(c *fiber.Ctx, kind authz.Kind) (*authz.Principal, uuid.UUID, error) {
	p, err := principal(c)
	if p == nil {
		return nil, uuid.Nil, err
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return nil, uuid.Nil, utils.BadRequest(c, "Invalid user id")
	}
	if !authz.OwnerOrAdmin(p, authz.OwnedBy(kind, id)) {
		return nil, uuid.Nil, utils.NotFound(c, "User not found")
	}
	return p, id, nil
}
