// chemical_service.go
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
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/database"
	"github.com/uscann/chemtrack/internal/metrics"
	"github.com/uscann/chemtrack/internal/models"
	"github.com/uscann/chemtrack/internal/types"
)

// LbsPerUnit converts any non-pound amount to pounds.
const LbsPerUnit = 2.20462

const dateLayout = "2006-01-02"

// TotalWeightLbs derives the stored weight in pounds. Amounts in lb/lbs pass
// through; every other unit is treated as kilograms.
func TotalWeightLbs(amount float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "lb", "lbs":
		return amount
	default:
		return amount * LbsPerUnit
	}
}

// ChemicalInput is the create request body.
type ChemicalInput struct {
	Name           string           `json:"name"`
	CASNumber      string           `json:"cas_number"`
	Barcode        string           `json:"barcode"`
	RoomID         *types.FlexID    `json:"room_id" swaggertype:"integer"`
	SpaceID        *types.FlexID    `json:"space_id" swaggertype:"integer"`
	Amount         *types.FlexFloat `json:"amount" swaggertype:"number"`
	Unit           string           `json:"unit"`
	ExpirationDate string           `json:"expiration_date"`
}

// ChemicalUpdate is the strict update request body. Every editable field must
// be present; expiration_date may be "" to clear it.
type ChemicalUpdate struct {
	ID             *types.FlexID    `json:"id" swaggertype:"integer"`
	Name           *string          `json:"name"`
	CASNumber      *string          `json:"cas_number"`
	Barcode        *string          `json:"barcode"`
	Amount         *types.FlexFloat `json:"amount" swaggertype:"number"`
	Unit           *string          `json:"unit"`
	ExpirationDate *string          `json:"expiration_date"`
	RoomID         *types.FlexID    `json:"room_id" swaggertype:"integer"`
	SpaceID        *types.FlexID    `json:"space_id" swaggertype:"integer"`
}

// ChemicalCreated is returned after a successful create.
type ChemicalCreated struct {
	ID             uint    `json:"id"`
	Barcode        string  `json:"barcode"`
	Name           string  `json:"name"`
	TotalWeightLbs float64 `json:"total_weight_lbs"`
	RoomNumber     string  `json:"room_number"`
	BuildingName   string  `json:"building_name"`
}

// ChemicalView is a chemical with its location denormalised.
type ChemicalView struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	CASNumber      string  `json:"cas_number"`
	Barcode        string  `json:"barcode"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
	ExpirationDate string  `json:"expiration_date"`
	DateAdded      string  `json:"date_added"`
	TotalWeightLbs float64 `json:"total_weight_lbs"`
	RoomID         uint    `json:"room_id"`
	Room           string  `json:"room"`
	BuildingName   string  `json:"building_name"`
	SpaceID        *uint   `json:"space_id"`
	Space          string  `json:"space"`
}

// RoomChemical is one entry of the by-room listing.
type RoomChemical struct {
	RoomID  uint   `json:"room_id"`
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
}

// ChemicalCriteria are exact-match filters, ANDed together.
type ChemicalCriteria struct {
	Name      string `query:"name"`
	Barcode   string `query:"barcode"`
	CASNumber string `query:"cas_number"`
}

func (c ChemicalCriteria) empty() bool {
	return c.Name == "" && c.Barcode == "" && c.CASNumber == ""
}

// ListChemicals returns the whole inventory ordered by id.
func ListChemicals(ctx context.Context, db *gorm.DB) ([]ChemicalView, error) {
	var chems []models.Chemical
	if err := withLocation(db.WithContext(ctx)).Order("chemicals.id").Find(&chems).Error; err != nil {
		return nil, types.Internal(err)
	}
	return toViews(chems), nil
}

// QueryChemicals returns chemicals matching every supplied criterion.
func QueryChemicals(ctx context.Context, db *gorm.DB, criteria ChemicalCriteria) ([]ChemicalView, error) {
	if criteria.empty() {
		return nil, types.BadRequest("at least one of name, barcode, cas_number is required")
	}

	query := withLocation(db.WithContext(ctx))
	if criteria.Name != "" {
		query = query.Where("chemicals.name = ?", criteria.Name)
	}
	if criteria.Barcode != "" {
		query = query.Where("chemicals.barcode = ?", criteria.Barcode)
	}
	if criteria.CASNumber != "" {
		query = query.Where("chemicals.cas_number = ?", criteria.CASNumber)
	}

	var chems []models.Chemical
	if err := query.Order("chemicals.id").Find(&chems).Error; err != nil {
		return nil, types.Internal(err)
	}
	return toViews(chems), nil
}

// ChemicalsByRoom lists the chemicals stored in a room. An empty room is
// reported as NotFound.
func ChemicalsByRoom(ctx context.Context, db *gorm.DB, roomID uint) ([]RoomChemical, error) {
	var chems []models.Chemical
	if err := db.WithContext(ctx).
		Select("id", "room_id", "barcode", "name").
		Where("room_id = ?", roomID).
		Order("id").
		Find(&chems).Error; err != nil {
		return nil, types.Internal(err)
	}
	if len(chems) == 0 {
		return nil, types.NotFound("No chemicals found for the given room ID")
	}

	out := make([]RoomChemical, 0, len(chems))
	for _, c := range chems {
		out = append(out, RoomChemical{RoomID: c.RoomID, Barcode: c.Barcode, Name: c.Name})
	}
	return out, nil
}

// CreateChemical registers a new container.
func CreateChemical(ctx context.Context, db *gorm.DB, in ChemicalInput) (*ChemicalCreated, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.CASNumber = strings.TrimSpace(in.CASNumber)
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.Unit = strings.TrimSpace(in.Unit)

	missing := missingFields(
		field{"name", in.Name != ""},
		field{"cas_number", in.CASNumber != ""},
		field{"barcode", in.Barcode != ""},
		field{"room_id", in.RoomID != nil && *in.RoomID != 0},
		field{"amount", in.Amount != nil},
		field{"unit", in.Unit != ""},
	)
	if len(missing) > 0 {
		return nil, types.BadRequest("Missing required fields: %s", strings.Join(missing, ", "))
	}
	amount := in.Amount.Float64()
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	expires, err := parseDate(in.ExpirationDate)
	if err != nil {
		return nil, err
	}

	roomID := in.RoomID.Uint()
	spaceID := types.PtrUint(in.SpaceID)

	var result *ChemicalCreated
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := findRoom(tx, roomID)
		if err != nil {
			return err
		}
		if err := checkSpaceInRoom(tx, spaceID, roomID); err != nil {
			return err
		}
		if err := checkBarcodeFree(tx, in.Barcode, 0); err != nil {
			return err
		}

		chem := models.Chemical{
			Name:           in.Name,
			CASNumber:      in.CASNumber,
			Barcode:        in.Barcode,
			RoomID:         roomID,
			SpaceID:        spaceID,
			Amount:         amount,
			Unit:           in.Unit,
			ExpirationDate: expires,
			TotalWeightLbs: TotalWeightLbs(amount, in.Unit),
		}
		if err := tx.Create(&chem).Error; err != nil {
			return writeError(err, "barcode already in use")
		}

		result = &ChemicalCreated{
			ID:             chem.ID,
			Barcode:        chem.Barcode,
			Name:           chem.Name,
			TotalWeightLbs: chem.TotalWeightLbs,
			RoomNumber:     room.RoomNumber,
			BuildingName:   buildingName(room.Building),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("chemical", "create")
	return result, nil
}

// UpdateChemical replaces every editable field of a chemical. The stored
// weight is left as derived at creation.
func UpdateChemical(ctx context.Context, db *gorm.DB, in ChemicalUpdate) (*ChemicalView, error) {
	missing := missingFields(
		field{"id", in.ID != nil && *in.ID != 0},
		field{"name", in.Name != nil && strings.TrimSpace(*in.Name) != ""},
		field{"cas_number", in.CASNumber != nil && strings.TrimSpace(*in.CASNumber) != ""},
		field{"barcode", in.Barcode != nil && strings.TrimSpace(*in.Barcode) != ""},
		field{"amount", in.Amount != nil},
		field{"unit", in.Unit != nil && strings.TrimSpace(*in.Unit) != ""},
		field{"expiration_date", in.ExpirationDate != nil},
	)
	if len(missing) > 0 {
		return nil, types.BadRequest("Missing required fields: %s", strings.Join(missing, ", "))
	}
	amount := in.Amount.Float64()
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	expires, err := parseDate(*in.ExpirationDate)
	if err != nil {
		return nil, err
	}

	id := in.ID.Uint()
	barcode := strings.TrimSpace(*in.Barcode)

	var view ChemicalView
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chem models.Chemical
		if err := tx.First(&chem, id).Error; err != nil {
			return lookupError(err, "chemical %d not found", id)
		}

		if in.RoomID != nil && *in.RoomID != 0 && in.RoomID.Uint() != chem.RoomID {
			if _, err := findRoom(tx, in.RoomID.Uint()); err != nil {
				return err
			}
			chem.RoomID = in.RoomID.Uint()
			chem.SpaceID = nil
		}
		if in.SpaceID != nil {
			chem.SpaceID = types.PtrUint(in.SpaceID)
		}
		if err := checkSpaceInRoom(tx, chem.SpaceID, chem.RoomID); err != nil {
			return err
		}
		if barcode != chem.Barcode {
			if err := checkBarcodeFree(tx, barcode, chem.ID); err != nil {
				return err
			}
		}

		chem.Name = strings.TrimSpace(*in.Name)
		chem.CASNumber = strings.TrimSpace(*in.CASNumber)
		chem.Barcode = barcode
		chem.Amount = amount
		chem.Unit = strings.TrimSpace(*in.Unit)
		chem.ExpirationDate = expires

		if err := tx.Omit("Room", "Space", "DateAdded", "TotalWeightLbs").Save(&chem).Error; err != nil {
			return writeError(err, "barcode already in use")
		}

		var saved models.Chemical
		if err := withLocation(tx).First(&saved, chem.ID).Error; err != nil {
			return types.Internal(err)
		}
		view = toView(saved)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("chemical", "update")
	return &view, nil
}

// DeleteChemical removes one chemical.
func DeleteChemical(ctx context.Context, db *gorm.DB, id uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Chemical{}, id)
		if res.Error != nil {
			return types.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return types.NotFound("chemical %d not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordMutation("chemical", "delete")
	return nil
}

func withLocation(db *gorm.DB) *gorm.DB {
	return db.Preload("Room").Preload("Room.Building").Preload("Space")
}

func toViews(chems []models.Chemical) []ChemicalView {
	out := make([]ChemicalView, 0, len(chems))
	for _, c := range chems {
		out = append(out, toView(c))
	}
	return out
}

func toView(c models.Chemical) ChemicalView {
	v := ChemicalView{
		ID:             c.ID,
		Name:           c.Name,
		CASNumber:      c.CASNumber,
		Barcode:        c.Barcode,
		Amount:         c.Amount,
		Unit:           c.Unit,
		ExpirationDate: formatDate(c.ExpirationDate),
		TotalWeightLbs: c.TotalWeightLbs,
		RoomID:         c.RoomID,
		SpaceID:        c.SpaceID,
	}
	if !c.DateAdded.IsZero() {
		v.DateAdded = c.DateAdded.UTC().Format(time.RFC3339)
	}
	if c.Room != nil {
		v.Room = c.Room.RoomNumber
		v.BuildingName = buildingName(c.Room.Building)
	}
	if c.Space != nil {
		v.Space = c.Space.Description
	}
	return v
}

func parseDate(s string) (*datatypes.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, types.BadRequest("invalid date %q, expected YYYY-MM-DD", s).WithErr(err)
	}
	d := datatypes.Date(t)
	return &d, nil
}

func formatDate(d *datatypes.Date) string {
	if d == nil {
		return "N/A"
	}
	return time.Time(*d).Format(dateLayout)
}

func findRoom(tx *gorm.DB, id uint) (*models.Room, error) {
	var room models.Room
	if err := tx.Preload("Building").First(&room, id).Error; err != nil {
		return nil, lookupError(err, "room %d not found", id)
	}
	return &room, nil
}

func checkSpaceInRoom(tx *gorm.DB, spaceID *uint, roomID uint) error {
	if spaceID == nil {
		return nil
	}
	var space models.Space
	if err := tx.First(&space, *spaceID).Error; err != nil {
		return lookupError(err, "space %d not found", *spaceID)
	}
	if space.RoomID != roomID {
		return types.BadRequest("space %d does not belong to room %d", *spaceID, roomID)
	}
	return nil
}

// checkBarcodeFree is advisory; the unique index decides under concurrency.
func checkBarcodeFree(tx *gorm.DB, barcode string, exceptID uint) error {
	var count int64
	query := tx.Model(&models.Chemical{}).Where("barcode = ?", barcode)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return types.Internal(err)
	}
	if count > 0 {
		return types.Conflict("barcode already in use")
	}
	return nil
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return types.BadRequest("amount must be a finite number")
	}
	if amount < 0 {
		return types.BadRequest("amount must not be negative")
	}
	return nil
}

type field struct {
	name    string
	present bool
}

func missingFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func lookupError(err error, format string, args ...any) error {
	if isNotFound(err) {
		return types.NotFound(format, args...)
	}
	return types.Internal(err)
}

// writeError classifies a failed insert or update.
func writeError(err error, conflictMessage string) error {
	switch {
	case database.IsUniqueViolation(err):
		return types.Conflict("%s", conflictMessage).WithErr(err)
	case database.IsForeignKeyViolation(err):
		return types.Conflict("referenced record does not exist or is still in use").WithErr(err)
	default:
		return types.Internal(err)
	}
}
