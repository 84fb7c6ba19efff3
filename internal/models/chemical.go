// chemical.go
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

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Chemical is one physical container, identified by its barcode.
type Chemical struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"`
	Name           string          `gorm:"size:100;not null;index"`
	CASNumber      string          `gorm:"column:cas_number;size:50;not null;index"`
	Barcode        string          `gorm:"size:64;not null;uniqueIndex"`
	RoomID         uint            `gorm:"not null;index"`
	Room           *Room           `gorm:"foreignKey:RoomID"`
	SpaceID        *uint           `gorm:"index"`
	Space          *Space          `gorm:"foreignKey:SpaceID;constraint:OnDelete:SET NULL"`
	Amount         float64         `gorm:"not null"`
	Unit           string          `gorm:"size:10;not null"`
	ExpirationDate *datatypes.Date `gorm:"type:date"`
	DateAdded      time.Time       `gorm:"autoCreateTime"`
	TotalWeightLbs float64         `gorm:"not null"`
}

func (Chemical) TableName() string {
	return "chemicals"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&PI{},
		&Building{},
		&Room{},
		&Space{},
		&Chemical{},
	}
}
