// location.go
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

import "time"

type Building struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:80;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Rooms     []Room `gorm:"foreignKey:BuildingID;constraint:OnDelete:RESTRICT"`
}

// Room belongs to a building and is owned by a PI. Deleting a room removes its
// spaces and is refused while chemicals still reference it.
type Room struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	BuildingID   uint      `gorm:"not null;index"`
	Building     *Building `gorm:"foreignKey:BuildingID"`
	RoomNumber   string    `gorm:"size:10;not null"`
	PIID         uint      `gorm:"column:pi_id;not null;index"`
	PI           *PI       `gorm:"foreignKey:PIID"`
	ContactName  string    `gorm:"size:80"`
	ContactPhone string    `gorm:"size:15"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Spaces       []Space    `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	Chemicals    []Chemical `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT"`
}

// Space is a storage location inside a room, such as a shelf or cabinet.
// Label is the externally printed identifier, exposed as space_id in the API.
type Space struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	RoomID      uint   `gorm:"not null;index"`
	Description string `gorm:"size:200"`
	SpaceType   string `gorm:"size:50"`
	Label       string `gorm:"column:label;size:50"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Building) TableName() string {
	return "buildings"
}

func (Room) TableName() string {
	return "rooms"
}

func (Space) TableName() string {
	return "spaces"
}
