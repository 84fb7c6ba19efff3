package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/middleware"
	"github.com/uscann/chemtrack/internal/services"
	"github.com/uscann/chemtrack/internal/types"
	"github.com/uscann/chemtrack/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ChemicalHandler handles inventory routes
type ChemicalHandler struct {
	DB        *gorm.DB
	Compounds services.CompoundLookup
}

// RoomChemicals is the by-room listing body.
type RoomChemicals struct {
	Chemicals []services.RoomChemical `json:"chemicals"`
}

// List handles GET /chemicals
// @Summary List the inventory
// @Description Every chemical with its room number, building and space
// @Tags Chemicals
// @Produce json
// @Success 200 {array} services.ChemicalView
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /chemicals [get]
func (h *ChemicalHandler) List(c *fiber.Ctx) error {
	chems, err := services.ListChemicals(c.UserContext(), h.DB)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(chems)
}

// Query handles GET /chemicals/query
// @Summary Query chemicals by exact fields
// @Description Filters are ANDed; at least one is required
// @Tags Chemicals
// @Produce json
// @Param name query string false "Exact name"
// @Param barcode query string false "Exact barcode"
// @Param cas_number query string false "Exact CAS number"
// @Success 200 {array} services.ChemicalView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /chemicals/query [get]
func (h *ChemicalHandler) Query(c *fiber.Ctx) error {
	var criteria services.ChemicalCriteria
	if err := c.QueryParser(&criteria); err != nil {
		return types.BadRequest("invalid query").WithErr(err)
	}

	chems, err := services.QueryChemicals(c.UserContext(), h.DB, criteria)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(chems)
}

// ByRoom handles GET /chemicals/room/:room_id
// @Summary Chemicals in a room
// @Tags Chemicals
// @Produce json
// @Param room_id path int true "Room ID"
// @Success 200 {object} RoomChemicals
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chemicals/room/{room_id} [get]
func (h *ChemicalHandler) ByRoom(c *fiber.Ctx) error {
	roomID, err := paramID(c, "room_id")
	if err != nil {
		return err
	}

	chems, err := services.ChemicalsByRoom(c.UserContext(), h.DB, roomID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(RoomChemicals{Chemicals: chems})
}

// Create handles POST /chemicals and POST /add_chemical
// @Summary Add a chemical
// @Description Total weight in pounds is derived from amount and unit at creation
// @Tags Chemicals
// @Accept json
// @Produce json
// @Param chemical body services.ChemicalInput true "Chemical"
// @Success 201 {object} services.ChemicalCreated
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /chemicals [post]
// @Router /add_chemical [post]
func (h *ChemicalHandler) Create(c *fiber.Ctx) error {
	var in services.ChemicalInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	created, err := services.CreateChemical(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update handles PUT /chemicals/update
// @Summary Replace a chemical's fields
// @Description id, name, cas_number, barcode, amount, unit and expiration_date are all required
// @Tags Chemicals
// @Accept json
// @Produce json
// @Param chemical body services.ChemicalUpdate true "Chemical"
// @Success 200 {object} services.ChemicalView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /chemicals/update [put]
func (h *ChemicalHandler) Update(c *fiber.Ctx) error {
	var in services.ChemicalUpdate
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	updated, err := services.UpdateChemical(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// Delete handles DELETE /chemicaldelete/:id
// @Summary Delete a chemical
// @Tags Chemicals
// @Produce json
// @Param id path int true "Chemical ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chemicaldelete/{id} [delete]
func (h *ChemicalHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := services.DeleteChemical(c.UserContext(), h.DB, id); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Chemical deleted successfully", fiber.StatusOK)
}

// Check handles POST /scan/check_chemical
// @Summary Verify a scanned chemical's location
// @Description A mismatch is advisory and still answers 200 with match false and a return alert
// @Tags Scan
// @Accept json
// @Produce json
// @Param scan body services.ScanInput true "Barcode and selected room"
// @Success 200 {object} services.ScanResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /scan/check_chemical [post]
func (h *ChemicalHandler) Check(c *fiber.Ctx) error {
	var in services.ScanInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	result, err := services.CheckChemical(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// Search handles POST /search-chemical
// @Summary Free-text inventory search
// @Description Case-insensitive match over name, CAS number and barcode within the caller's PIs
// @Tags Search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search body services.SearchInput true "Query and filter"
// @Success 200 {array} services.SearchHit
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /search-chemical [post]
func (h *ChemicalHandler) Search(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFrom(c)
	if !ok {
		return types.Unauthorized("Bearer token required")
	}

	var in services.SearchInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	hits, err := services.SearchChemicals(c.UserContext(), h.DB, who, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(hits)
}

// Lookup handles GET /chemicals/lookup
// @Summary Look up a compound by CAS number
// @Description Resolves the name and formula from PubChem
// @Tags Chemicals
// @Produce json
// @Param cas query string true "CAS registry number"
// @Success 200 {object} services.Compound
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /chemicals/lookup [get]
func (h *ChemicalHandler) Lookup(c *fiber.Ctx) error {
	compound, err := h.Compounds.LookupCAS(c.UserContext(), c.Query("cas"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(compound)
}

// Export handles GET /chemicals/export
// @Summary Export the inventory as a spreadsheet
// @Tags Chemicals
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param room_id query int false "Limit to one room"
// @Success 200 {file} file
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chemicals/export [get]
func (h *ChemicalHandler) Export(c *fiber.Ctx) error {
	roomID, err := queryID(c, "room_id")
	if err != nil {
		return err
	}

	data, err := services.ExportInventory(c.UserContext(), h.DB, roomID)
	if err != nil {
		return err
	}

	name := "inventory-" + time.Now().UTC().Format("20060102") + ".xlsx"
	if roomID != 0 {
		name = fmt.Sprintf("inventory-room-%d-%s.xlsx", roomID, time.Now().UTC().Format("20060102"))
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Status(fiber.StatusOK).Send(data)
}
