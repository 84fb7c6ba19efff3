// locations.go
//
// Laboratory chemical inventory tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of chemtrack.
// chemtrack is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// chemtrack is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with chemtrack.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/services"
	"github.com/uscann/chemtrack/internal/types"
	"github.com/uscann/chemtrack/internal/utils"
)

// LocationHandler handles building, room and space routes
type LocationHandler struct {
	DB *gorm.DB
}

// RoomDetailsRequest is the POST /rooms/details body.
type RoomDetailsRequest struct {
	RoomID *types.FlexID `json:"room_id" swaggertype:"integer"`
}

// SpacesCreated is the POST /spaces body. ID and Description echo the first
// space for clients that post a single object.
type SpacesCreated struct {
	ID          uint                 `json:"id"`
	Description string               `json:"description"`
	Spaces      []services.SpaceView `json:"spaces"`
}

// CreateBuilding handles POST /buildings
// @Summary Add a building
// @Tags Locations
// @Accept json
// @Produce json
// @Param building body services.BuildingInput true "Building"
// @Success 201 {object} services.BuildingView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /buildings [post]
func (h *LocationHandler) CreateBuilding(c *fiber.Ctx) error {
	var in services.BuildingInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	building, err := services.CreateBuilding(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(building)
}

// ListBuildings handles GET /buildings-fetch
// @Summary List buildings
// @Tags Locations
// @Produce json
// @Success 200 {array} services.BuildingView
// @Router /buildings-fetch [get]
func (h *LocationHandler) ListBuildings(c *fiber.Ctx) error {
	buildings, err := services.ListBuildings(c.UserContext(), h.DB)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(buildings)
}

// CreateRoom handles POST /rooms
// @Summary Add a room
// @Description The building and the PI must already exist
// @Tags Locations
// @Accept json
// @Produce json
// @Param room body services.RoomInput true "Room"
// @Success 201 {object} services.RoomView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms [post]
func (h *LocationHandler) CreateRoom(c *fiber.Ctx) error {
	var in services.RoomInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	room, err := services.CreateRoom(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// AddRoom handles POST /add_room
// @Summary Add a room to a PI
// @Description The building may be named; an unknown name creates the building. Returns all of the PI's rooms.
// @Tags Locations
// @Accept json
// @Produce json
// @Param room body services.AddRoomInput true "Room"
// @Success 201 {object} services.AddRoomResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /add_room [post]
func (h *LocationHandler) AddRoom(c *fiber.Ctx) error {
	var in services.AddRoomInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	result, err := services.AddRoom(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// UpdateRoomField handles POST /rooms/update_field
// @Summary Change some fields of a room
// @Description Only the keys present in the body are changed
// @Tags Locations
// @Accept json
// @Produce json
// @Param room body services.RoomFieldUpdate true "Room fields"
// @Success 200 {object} services.RoomView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms/update_field [post]
func (h *LocationHandler) UpdateRoomField(c *fiber.Ctx) error {
	var in services.RoomFieldUpdate
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	room, err := services.UpdateRoomFields(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(room)
}

// RoomDetails handles POST /rooms/details
// @Summary Room details with spaces
// @Tags Locations
// @Accept json
// @Produce json
// @Param room body RoomDetailsRequest true "Room"
// @Success 200 {object} services.RoomDetails
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms/details [post]
func (h *LocationHandler) RoomDetails(c *fiber.Ctx) error {
	var in RoomDetailsRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	if in.RoomID == nil {
		return types.BadRequest("Missing required fields: room_id")
	}

	details, err := services.GetRoomDetails(c.UserContext(), h.DB, in.RoomID.Uint())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(details)
}

// RoomSpaces handles GET /rooms/:room_id/spaces
// @Summary Spaces of a room
// @Tags Locations
// @Produce json
// @Param room_id path int true "Room ID"
// @Success 200 {array} services.SpaceView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms/{room_id}/spaces [get]
func (h *LocationHandler) RoomSpaces(c *fiber.Ctx) error {
	roomID, err := paramID(c, "room_id")
	if err != nil {
		return err
	}

	spaces, err := services.ListRoomSpaces(c.UserContext(), h.DB, roomID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(spaces)
}

// DeleteRoom handles DELETE /rooms/:room_id
// @Summary Delete an empty room
// @Description The room's spaces go with it; a room still holding chemicals is refused
// @Tags Locations
// @Produce json
// @Param room_id path int true "Room ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /rooms/{room_id} [delete]
func (h *LocationHandler) DeleteRoom(c *fiber.Ctx) error {
	roomID, err := paramID(c, "room_id")
	if err != nil {
		return err
	}

	if err := services.DeleteRoom(c.UserContext(), h.DB, roomID); err != nil {
		return err
	}
	return utils.MessageResponse(c, fmt.Sprintf("Room %d deleted", roomID), fiber.StatusOK)
}

// CreateSpaces handles POST /spaces
// @Summary Add spaces
// @Description Accepts one space object or an array of them; all are created or none
// @Tags Locations
// @Accept json
// @Produce json
// @Param spaces body []services.SpaceInput true "Spaces"
// @Success 201 {object} SpacesCreated
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /spaces [post]
func (h *LocationHandler) CreateSpaces(c *fiber.Ctx) error {
	var in types.FlexList[services.SpaceInput]
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	spaces, err := services.CreateSpaces(c.UserContext(), h.DB, in.Items())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(SpacesCreated{
		ID:          spaces[0].ID,
		Description: spaces[0].Description,
		Spaces:      spaces,
	})
}

// ManageSpace handles POST /manage_space
// @Summary Create or update a space
// @Description With id the supplied keys of that space change; without id a space is created
// @Tags Locations
// @Accept json
// @Produce json
// @Param space body services.SpaceInput true "Space"
// @Success 200 {object} services.SpaceView
// @Success 201 {object} services.SpaceView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /manage_space [post]
func (h *LocationHandler) ManageSpace(c *fiber.Ctx) error {
	var in services.SpaceInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	space, created, err := services.ManageSpace(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(space)
}

// DeleteSpace handles DELETE /spaces/:id
// @Summary Delete a space
// @Description Chemicals stored in the space stay in the room without a space
// @Tags Locations
// @Produce json
// @Param id path int true "Space ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /spaces/{id} [delete]
func (h *LocationHandler) DeleteSpace(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := services.DeleteSpace(c.UserContext(), h.DB, id); err != nil {
		return err
	}
	return utils.MessageResponse(c, fmt.Sprintf("Space %d deleted", id), fiber.StatusOK)
}
