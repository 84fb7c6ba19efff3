// organization_service.go
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

package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/metrics"
	"github.com/uscann/chemtrack/internal/models"
	"github.com/uscann/chemtrack/internal/types"
)

type BuildingInput struct {
	Name string `json:"name"`
}

type BuildingView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RoomInput is the POST /rooms body.
type RoomInput struct {
	BuildingID   *types.FlexID `json:"building_id" swaggertype:"integer"`
	RoomNumber   string        `json:"room_number"`
	PIID         *types.FlexID `json:"pi_id" swaggertype:"integer"`
	ContactName  string        `json:"contact_name"`
	ContactPhone string        `json:"contact_phone"`
}

// AddRoomInput adds a room to a PI, naming the building by id or by name.
type AddRoomInput struct {
	PIID         *types.FlexID `json:"pi_id" swaggertype:"integer"`
	RoomNumber   string        `json:"room_number"`
	BuildingID   *types.FlexID `json:"building_id" swaggertype:"integer"`
	BuildingName string        `json:"building_name"`
	ContactName  string        `json:"contact_name"`
	ContactPhone string        `json:"contact_phone"`
}

// RoomFieldUpdate changes only the keys present in the request.
type RoomFieldUpdate struct {
	RoomID       *types.FlexID `json:"room_id" swaggertype:"integer"`
	RoomNumber   *string       `json:"room_number"`
	ContactName  *string       `json:"contact_name"`
	ContactPhone *string       `json:"contact_phone"`
	BuildingID   *types.FlexID `json:"building_id" swaggertype:"integer"`
	PIID         *types.FlexID `json:"pi_id" swaggertype:"integer"`
}

type RoomView struct {
	ID           uint   `json:"id"`
	RoomNumber   string `json:"room_number"`
	BuildingID   uint   `json:"building_id"`
	BuildingName string `json:"building_name"`
	PIID         uint   `json:"pi_id"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

type AddRoomResult struct {
	Success bool          `json:"success"`
	RoomID  uint          `json:"room_id"`
	Rooms   []RoomSummary `json:"rooms"`
}

type RoomDetails struct {
	RoomID       uint        `json:"room_id"`
	RoomNumber   string      `json:"room_number"`
	BuildingName string      `json:"building_name"`
	PIID         uint        `json:"pi_id"`
	ContactName  string      `json:"contact_name"`
	ContactPhone string      `json:"contact_phone"`
	Spaces       []SpaceView `json:"spaces"`
}

// SpaceInput serves both space creation and the manage_space upsert. Pointer
// fields distinguish "absent" from "empty".
type SpaceInput struct {
	ID          *types.FlexID `json:"id" swaggertype:"integer"`
	RoomID      *types.FlexID `json:"room_id" swaggertype:"integer"`
	Description *string       `json:"description"`
	SpaceType   *string       `json:"space_type"`
	SpaceID     *string       `json:"space_id"`
}

type SpaceView struct {
	ID          uint   `json:"id"`
	RoomID      uint   `json:"room_id"`
	Description string `json:"description"`
	SpaceType   string `json:"space_type"`
	SpaceID     string `json:"space_id"`
}

// CreateBuilding adds a building.
func CreateBuilding(ctx context.Context, db *gorm.DB, in BuildingInput) (*BuildingView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.BadRequest("Missing required fields: name")
	}

	building := models.Building{Name: name}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&building).Error; err != nil {
			return writeError(err, "building already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("building", "create")
	return &BuildingView{ID: building.ID, Name: building.Name}, nil
}

// ListBuildings returns every building ordered by name.
func ListBuildings(ctx context.Context, db *gorm.DB) ([]BuildingView, error) {
	var buildings []models.Building
	if err := db.WithContext(ctx).Order("name, id").Find(&buildings).Error; err != nil {
		return nil, types.Internal(err)
	}
	out := make([]BuildingView, 0, len(buildings))
	for _, b := range buildings {
		out = append(out, BuildingView{ID: b.ID, Name: b.Name})
	}
	return out, nil
}

// CreateRoom adds a room to an existing building for an existing PI.
func CreateRoom(ctx context.Context, db *gorm.DB, in RoomInput) (*RoomView, error) {
	roomNumber := strings.TrimSpace(in.RoomNumber)
	missing := missingFields(
		field{"building_id", in.BuildingID != nil && *in.BuildingID != 0},
		field{"room_number", roomNumber != ""},
		field{"pi_id", in.PIID != nil && *in.PIID != 0},
	)
	if len(missing) > 0 {
		return nil, types.BadRequest("Missing required fields: %s", strings.Join(missing, ", "))
	}

	var view RoomView
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var building models.Building
		if err := tx.First(&building, in.BuildingID.Uint()).Error; err != nil {
			return lookupError(err, "building %d not found", in.BuildingID.Uint())
		}
		if err := checkPIExists(tx, in.PIID.Uint()); err != nil {
			return err
		}

		room := models.Room{
			BuildingID:   building.ID,
			RoomNumber:   roomNumber,
			PIID:         in.PIID.Uint(),
			ContactName:  strings.TrimSpace(in.ContactName),
			ContactPhone: strings.TrimSpace(in.ContactPhone),
		}
		if err := tx.Create(&room).Error; err != nil {
			return writeError(err, "room already exists")
		}
		room.Building = &building
		view = toRoomView(room)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("room", "create")
	return &view, nil
}

// AddRoom creates a room for a PI, reusing a building with the given name or
// creating it, and returns all of the PI's rooms.
func AddRoom(ctx context.Context, db *gorm.DB, in AddRoomInput) (*AddRoomResult, error) {
	roomNumber := strings.TrimSpace(in.RoomNumber)
	named := strings.TrimSpace(in.BuildingName)
	hasBuildingID := in.BuildingID != nil && *in.BuildingID != 0
	missing := missingFields(
		field{"pi_id", in.PIID != nil && *in.PIID != 0},
		field{"room_number", roomNumber != ""},
		field{"building_id or building_name", hasBuildingID || named != ""},
	)
	if len(missing) > 0 {
		return nil, types.BadRequest("Missing required fields: %s", strings.Join(missing, ", "))
	}

	result := &AddRoomResult{Success: true}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		piID := in.PIID.Uint()
		if err := checkPIExists(tx, piID); err != nil {
			return err
		}

		var building models.Building
		if hasBuildingID {
			if err := tx.First(&building, in.BuildingID.Uint()).Error; err != nil {
				return lookupError(err, "building %d not found", in.BuildingID.Uint())
			}
		} else if err := tx.Where(models.Building{Name: named}).FirstOrCreate(&building).Error; err != nil {
			return types.Internal(err)
		}

		room := models.Room{
			BuildingID:   building.ID,
			RoomNumber:   roomNumber,
			PIID:         piID,
			ContactName:  strings.TrimSpace(in.ContactName),
			ContactPhone: strings.TrimSpace(in.ContactPhone),
		}
		if err := tx.Create(&room).Error; err != nil {
			return writeError(err, "room already exists")
		}
		result.RoomID = room.ID

		var rooms []models.Room
		if err := tx.Preload("Building").Where("pi_id = ?", piID).Order("id").Find(&rooms).Error; err != nil {
			return types.Internal(err)
		}
		result.Rooms = summarizeRooms(rooms)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("room", "create")
	return result, nil
}

// UpdateRoomFields applies a partial room update.
func UpdateRoomFields(ctx context.Context, db *gorm.DB, in RoomFieldUpdate) (*RoomView, error) {
	if in.RoomID == nil || *in.RoomID == 0 {
		return nil, types.BadRequest("Missing required fields: room_id")
	}

	updates := map[string]interface{}{}
	if in.RoomNumber != nil {
		rn := strings.TrimSpace(*in.RoomNumber)
		if rn == "" {
			return nil, types.BadRequest("room_number must not be empty")
		}
		updates["room_number"] = rn
	}
	if in.ContactName != nil {
		updates["contact_name"] = strings.TrimSpace(*in.ContactName)
	}
	if in.ContactPhone != nil {
		updates["contact_phone"] = strings.TrimSpace(*in.ContactPhone)
	}
	if in.BuildingID != nil && *in.BuildingID != 0 {
		updates["building_id"] = in.BuildingID.Uint()
	}
	if in.PIID != nil && *in.PIID != 0 {
		updates["pi_id"] = in.PIID.Uint()
	}
	if len(updates) == 0 {
		return nil, types.BadRequest("no fields to update, expected one of room_number, contact_name, contact_phone, building_id, pi_id")
	}

	var view RoomView
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, in.RoomID.Uint()).Error; err != nil {
			return lookupError(err, "room %d not found", in.RoomID.Uint())
		}
		if id, ok := updates["building_id"].(uint); ok {
			var building models.Building
			if err := tx.First(&building, id).Error; err != nil {
				return lookupError(err, "building %d not found", id)
			}
		}
		if id, ok := updates["pi_id"].(uint); ok {
			if err := checkPIExists(tx, id); err != nil {
				return err
			}
		}

		if err := tx.Model(&room).Updates(updates).Error; err != nil {
			return writeError(err, "room already exists")
		}

		var saved models.Room
		if err := tx.Preload("Building").First(&saved, room.ID).Error; err != nil {
			return types.Internal(err)
		}
		view = toRoomView(saved)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("room", "update")
	return &view, nil
}

// GetRoomDetails returns a room with its building name and spaces.
func GetRoomDetails(ctx context.Context, db *gorm.DB, roomID uint) (*RoomDetails, error) {
	if roomID == 0 {
		return nil, types.BadRequest("Missing required fields: room_id")
	}

	var room models.Room
	if err := db.WithContext(ctx).
		Preload("Building").
		Preload("Spaces", orderByID("spaces")).
		First(&room, roomID).Error; err != nil {
		return nil, lookupError(err, "room %d not found", roomID)
	}

	return &RoomDetails{
		RoomID:       room.ID,
		RoomNumber:   room.RoomNumber,
		BuildingName: buildingName(room.Building),
		PIID:         room.PIID,
		ContactName:  room.ContactName,
		ContactPhone: room.ContactPhone,
		Spaces:       toSpaceViews(room.Spaces),
	}, nil
}

// ListRoomSpaces returns the spaces of an existing room.
func ListRoomSpaces(ctx context.Context, db *gorm.DB, roomID uint) ([]SpaceView, error) {
	details, err := GetRoomDetails(ctx, db, roomID)
	if err != nil {
		return nil, err
	}
	return details.Spaces, nil
}

// DeleteRoom removes a room and its spaces. Rooms still holding chemicals
// are refused.
func DeleteRoom(ctx context.Context, db *gorm.DB, roomID uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return lookupError(err, "room %d not found", roomID)
		}

		var count int64
		if err := tx.Model(&models.Chemical{}).Where("room_id = ?", roomID).Count(&count).Error; err != nil {
			return types.Internal(err)
		}
		if count > 0 {
			return types.Conflict("room %d still holds %d chemicals", roomID, count)
		}

		if err := tx.Where("room_id = ?", roomID).Delete(&models.Space{}).Error; err != nil {
			return types.Internal(err)
		}
		if err := tx.Delete(&room).Error; err != nil {
			return writeError(err, "room is still in use")
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordMutation("room", "delete")
	return nil
}

// CreateSpaces adds one or more spaces in a single transaction.
func CreateSpaces(ctx context.Context, db *gorm.DB, inputs []SpaceInput) ([]SpaceView, error) {
	if len(inputs) == 0 {
		return nil, types.BadRequest("Missing required fields: room_id, description")
	}
	for _, in := range inputs {
		missing := missingFields(
			field{"room_id", in.RoomID != nil && *in.RoomID != 0},
			field{"description", in.Description != nil && strings.TrimSpace(*in.Description) != ""},
		)
		if len(missing) > 0 {
			return nil, types.BadRequest("Missing required fields: %s", strings.Join(missing, ", "))
		}
	}

	views := make([]SpaceView, 0, len(inputs))
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			space, err := createSpace(tx, in)
			if err != nil {
				return err
			}
			views = append(views, toSpaceView(*space))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Mutations.WithLabelValues("space", "create").Add(float64(len(views)))
	return views, nil
}

// ManageSpace updates the supplied keys of an existing space when id is
// given, otherwise creates a space. The boolean reports a create.
func ManageSpace(ctx context.Context, db *gorm.DB, in SpaceInput) (*SpaceView, bool, error) {
	if in.ID == nil || *in.ID == 0 {
		if in.RoomID == nil || *in.RoomID == 0 {
			return nil, false, types.BadRequest("Missing required fields: room_id")
		}
		if nonEmpty(in.Description) == "" && nonEmpty(in.SpaceType) == "" && nonEmpty(in.SpaceID) == "" {
			return nil, false, types.BadRequest("at least one of description, space_type, space_id is required")
		}

		var view SpaceView
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			space, err := createSpace(tx, in)
			if err != nil {
				return err
			}
			view = toSpaceView(*space)
			return nil
		})
		if err != nil {
			return nil, false, err
		}
		metrics.RecordMutation("space", "create")
		return &view, true, nil
	}

	updates := map[string]interface{}{}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.SpaceType != nil {
		updates["space_type"] = strings.TrimSpace(*in.SpaceType)
	}
	if in.SpaceID != nil {
		updates["label"] = strings.TrimSpace(*in.SpaceID)
	}
	if len(updates) == 0 {
		return nil, false, types.BadRequest("no fields to update, expected one of description, space_type, space_id")
	}

	var view SpaceView
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space models.Space
		if err := tx.First(&space, in.ID.Uint()).Error; err != nil {
			return lookupError(err, "space %d not found", in.ID.Uint())
		}
		if in.RoomID != nil && *in.RoomID != 0 && in.RoomID.Uint() != space.RoomID {
			return types.BadRequest("space %d does not belong to room %d", space.ID, in.RoomID.Uint())
		}
		if err := tx.Model(&space).Updates(updates).Error; err != nil {
			return types.Internal(err)
		}

		var saved models.Space
		if err := tx.First(&saved, space.ID).Error; err != nil {
			return types.Internal(err)
		}
		view = toSpaceView(saved)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	metrics.RecordMutation("space", "update")
	return &view, false, nil
}

// DeleteSpace removes a space, detaching the chemicals stored in it.
func DeleteSpace(ctx context.Context, db *gorm.DB, id uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Chemical{}).
			Where("space_id = ?", id).
			Update("space_id", nil).Error; err != nil {
			return types.Internal(err)
		}

		res := tx.Delete(&models.Space{}, id)
		if res.Error != nil {
			return types.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return types.NotFound("space %d not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordMutation("space", "delete")
	return nil
}

func createSpace(tx *gorm.DB, in SpaceInput) (*models.Space, error) {
	roomID := in.RoomID.Uint()
	var count int64
	if err := tx.Model(&models.Room{}).Where("id = ?", roomID).Count(&count).Error; err != nil {
		return nil, types.Internal(err)
	}
	if count == 0 {
		return nil, types.NotFound("room %d not found", roomID)
	}

	space := models.Space{
		RoomID:      roomID,
		Description: nonEmpty(in.Description),
		SpaceType:   nonEmpty(in.SpaceType),
		Label:       nonEmpty(in.SpaceID),
	}
	if err := tx.Create(&space).Error; err != nil {
		return nil, writeError(err, "space already exists")
	}
	return &space, nil
}

func checkPIExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.PI{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return types.Internal(err)
	}
	if count == 0 {
		return types.NotFound("PI %d not found", id)
	}
	return nil
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func toRoomView(r models.Room) RoomView {
	return RoomView{
		ID:           r.ID,
		RoomNumber:   r.RoomNumber,
		BuildingID:   r.BuildingID,
		BuildingName: buildingName(r.Building),
		PIID:         r.PIID,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
	}
}

func toSpaceView(s models.Space) SpaceView {
	return SpaceView{
		ID:          s.ID,
		RoomID:      s.RoomID,
		Description: s.Description,
		SpaceType:   s.SpaceType,
		SpaceID:     s.Label,
	}
}

func toSpaceViews(spaces []models.Space) []SpaceView {
	out := make([]SpaceView, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, toSpaceView(s))
	}
	return out
}
