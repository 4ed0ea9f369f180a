package handlers

import (
	"hoaportal/internal/audit"
	"hoaportal/internal/authz"
	"hoaportal/internal/models"
	"hoaportal/internal/services/household"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type HouseholdHandler struct {
	Members  *RecordHandler[models.HouseholdMember, household.MemberInput]
	Pets     *RecordHandler[models.Pet, household.PetInput]
	Vehicles *RecordHandler[models.Vehicle, household.VehicleInput]
}

func NewHouseholdHandler(svc *household.Service) *HouseholdHandler {
	return &HouseholdHandler{
		Members: &RecordHandler[models.HouseholdMember, household.MemberInput]{
			records: svc.Members, kind: authz.KindHouseholdMember, list: "household_members",
		},
		Pets: &RecordHandler[models.Pet, household.PetInput]{
			records: svc.Pets, kind: authz.KindPet, list: "pets",
		},
		Vehicles: &RecordHandler[models.Vehicle, household.VehicleInput]{
			records: svc.Vehicles, kind: authz.KindVehicle, list: "vehicles",
		},
	}
}

// RecordHandler serves one record type from the caller's own collection.
type RecordHandler[T any, I household.Input[T]] struct {
	records *household.Records[T, I]
	kind    authz.Kind
	list    string
}

func (h *RecordHandler[T, I]) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	return h.respondList(c, p.ID)
}

// UserList lists another account's records for its owner or an admin.
func (h *RecordHandler[T, I]) UserList(c *fiber.Ctx) error {
	p, id, err := ownedTarget(c, h.kind)
	if p == nil {
		return err
	}
	return h.respondList(c, id)
}

func (h *RecordHandler[T, I]) respondList(c *fiber.Ctx, userID uuid.UUID) error {
	recs, err := h.records.List(c.UserContext(), userID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.Map{h.list: recs})
}

func (h *RecordHandler[T, I]) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if p == nil {
		return err
	}
	var input I
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	rec, err := h.records.Create(c.UserContext(), p.ID, input, audit.FromFiber(c))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Created(c, rec)
}

func (h *RecordHandler[T, I]) Get(c *fiber.Ctx) error {
	p, id, err := h.target(c)
	if p == nil {
		return err
	}
	rec, err := h.records.Get(c.UserContext(), p.ID, id)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, rec)
}

// Update serves both PUT and PATCH; absent fields keep their values.
func (h *RecordHandler[T, I]) Update(c *fiber.Ctx) error {
	p, id, err := h.target(c)
	if p == nil {
		return err
	}
	var input I
	if !parseBody(c, &input) {
		return utils.BadRequest(c, "Invalid request body")
	}
	rec, err := h.records.Update(c.UserContext(), p.ID, id, input, audit.FromFiber(c))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, rec)
}

func (h *RecordHandler[T, I]) Delete(c *fiber.Ctx) error {
	p, id, err := h.target(c)
	if p == nil {
		return err
	}
	if err := h.records.Delete(c.UserContext(), p.ID, id, audit.FromFiber(c)); err != nil {
		return utils.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecordHandler[T, I]) target(c *fiber.Ctx) (*authz.Principal, uuid.UUID, error) {
	p, err := principal(c)
	if p == nil {
		return nil, uuid.Nil, err
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return nil, uuid.Nil, utils.BadRequest(c, "Invalid id")
	}
	return p, id, nil
}
