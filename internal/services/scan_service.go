// scan_service.go
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
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/hints"

	"github.com/uscann/chemtrack/internal/metrics"
	"github.com/uscann/chemtrack/internal/models"
	"github.com/uscann/chemtrack/internal/types"
)

// ScanInput is a scanned barcode and the room the scanner is standing in.
type ScanInput struct {
	Barcode        string        `json:"barcode"`
	SelectedRoomID *types.FlexID `json:"selected_room_id" swaggertype:"integer"`
}

// ChemicalInfo is the detail returned when a scanned chemical is in place.
type ChemicalInfo struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	CASNumber      string  `json:"cas_number"`
	Barcode        string  `json:"barcode"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
	ExpirationDate string  `json:"expiration_date"`
	Room           string  `json:"room"`
	RoomID         uint    `json:"room_id"`
	Space          string  `json:"space"`
	SpaceID        *uint   `json:"space_id"`
	TotalWeightLbs float64 `json:"total_weight_lbs"`
}

// ScanResult is either a match with ChemicalInfo or a mismatch with an
// advisory telling the caller where the chemical belongs.
type ScanResult struct {
	Match        bool          `json:"match"`
	Alert        string        `json:"alert,omitempty"`
	ChemicalInfo *ChemicalInfo `json:"chemical_info,omitempty"`
}

// CheckChemical verifies that a scanned chemical is stored in the selected room.
func CheckChemical(ctx context.Context, db *gorm.DB, in ScanInput) (*ScanResult, error) {
	barcode := strings.TrimSpace(in.Barcode)
	if barcode == "" || in.SelectedRoomID == nil || *in.SelectedRoomID == 0 {
		return nil, types.BadRequest("barcode and selected_room_id are required")
	}
	selected := in.SelectedRoomID.Uint()

	var chem models.Chemical
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "scan_check")).
		Preload("Room").
		Preload("Room.Building").
		Preload("Space").
		Where("barcode = ?", barcode).
		First(&chem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordScan(metrics.ScanNotFound)
			return nil, types.NotFound("Sorry, that chemical is not found")
		}
		return nil, types.Internal(err)
	}
	if chem.Room == nil {
		return nil, types.NotFound("Room not found for this chemical")
	}

	building := buildingName(chem.Room.Building)
	spaceDescription := ""
	if chem.Space != nil {
		spaceDescription = chem.Space.Description
	}

	if chem.RoomID != selected {
		metrics.RecordScan(metrics.ScanMismatch)
		alert := fmt.Sprintf("Please return this chemical to %s, %s %s", chem.Room.RoomNumber, building, spaceDescription)
		return &ScanResult{Match: false, Alert: strings.TrimSpace(alert)}, nil
	}

	metrics.RecordScan(metrics.ScanMatch)
	return &ScanResult{
		Match: true,
		ChemicalInfo: &ChemicalInfo{
			ID:             chem.ID,
			Name:           chem.Name,
			CASNumber:      chem.CASNumber,
			Barcode:        chem.Barcode,
			Amount:         chem.Amount,
			Unit:           chem.Unit,
			ExpirationDate: formatDate(chem.ExpirationDate),
			Room:           fmt.Sprintf("%s, %s", chem.Room.RoomNumber, building),
			RoomID:         chem.RoomID,
			Space:          spaceDescription,
			SpaceID:        chem.SpaceID,
			TotalWeightLbs: chem.TotalWeightLbs,
		},
	}, nil
}
