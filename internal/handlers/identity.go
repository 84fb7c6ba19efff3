package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/services"
)

// IdentityHandler handles user, PI and association routes
type IdentityHandler struct {
	DB *gorm.DB
}

// CreateUser handles POST /users
// @Summary Register a lab member
// @Tags Identity
// @Accept json
// @Produce json
// @Param user body services.IdentityInput true "User"
// @Success 201 {object} services.IdentityCreated
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *IdentityHandler) CreateUser(c *fiber.Ctx) error {
	var in services.IdentityInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	user, err := services.CreateUser(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// ListUsers handles GET /users/all
// @Summary List users with their PIs
// @Tags Identity
// @Produce json
// @Success 200 {array} services.UserListing
// @Router /users/all [get]
func (h *IdentityHandler) ListUsers(c *fiber.Ctx) error {
	users, err := services.ListUsers(c.UserContext(), h.DB)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// UserPIs handles GET /users/:id/pis
// @Summary PIs a user works for
// @Tags Identity
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} services.PIListing
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/pis [get]
func (h *IdentityHandler) UserPIs(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	pis, err := services.UserPIs(c.UserContext(), h.DB, id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(pis)
}

// CreatePI handles POST /pis
// @Summary Register a principal investigator
// @Tags Identity
// @Accept json
// @Produce json
// @Param pi body services.IdentityInput true "PI"
// @Success 201 {object} services.IdentityCreated
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /pis [post]
func (h *IdentityHandler) CreatePI(c *fiber.Ctx) error {
	var in services.IdentityInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	pi, err := services.CreatePI(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pi)
}

// ListPIs handles GET /pis/all
// @Summary List PIs with their rooms
// @Tags Identity
// @Produce json
// @Success 200 {array} services.PIListing
// @Router /pis/all [get]
func (h *IdentityHandler) ListPIs(c *fiber.Ctx) error {
	pis, err := services.ListPIs(c.UserContext(), h.DB)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(pis)
}

// Associate handles POST /users/:id/pis/:pi_id
// @Summary Link a user to a PI
// @Tags Identity
// @Produce json
// @Param id path int true "User ID"
// @Param pi_id path int true "PI ID"
// @Success 200 {object} services.AssociationResult
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/pis/{pi_id} [post]
func (h *IdentityHandler) Associate(c *fiber.Ctx) error {
	userID, piID, err := associationIDs(c)
	if err != nil {
		return err
	}

	result, err := services.AssociateUserPI(c.UserContext(), h.DB, userID, piID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// Dissociate handles DELETE /users/:id/pis/:pi_id
// @Summary Unlink a user from a PI
// @Tags Identity
// @Produce json
// @Param id path int true "User ID"
// @Param pi_id path int true "PI ID"
// @Success 200 {object} services.AssociationResult
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/pis/{pi_id} [delete]
func (h *IdentityHandler) Dissociate(c *fiber.Ctx) error {
	userID, piID, err := associationIDs(c)
	if err != nil {
		return err
	}

	result, err := services.DissociateUserPI(c.UserContext(), h.DB, userID, piID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func associationIDs(c *fiber.Ctx) (uint, uint, error) {
	userID, err := paramID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	piID, err := paramID(c, "pi_id")
	if err != nil {
		return 0, 0, err
	}
	return userID, piID, nil
}
