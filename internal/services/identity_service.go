// identity_service.go
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
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/metrics"
	"github.com/uscann/chemtrack/internal/models"
	"github.com/uscann/chemtrack/internal/types"
)

// IdentityInput is the body for creating a user or a PI.
type IdentityInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type IdentityCreated struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type NamedRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type RoomRef struct {
	ID         uint   `json:"id"`
	RoomNumber string `json:"room_number"`
}

type UserListing struct {
	ID    uint       `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	PIs   []NamedRef `json:"pis"`
}

type PIListing struct {
	ID    uint      `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Rooms []RoomRef `json:"rooms"`
}

// AssociationResult reports an association change.
type AssociationResult struct {
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
	PIID    uint   `json:"pi_id"`
}

func (in IdentityInput) normalize() (IdentityInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return in, err
	}
	return in, nil
}

// CreateUser registers a lab member.
func CreateUser(ctx context.Context, db *gorm.DB, in IdentityInput) (*IdentityCreated, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, types.Internal(err)
	}

	user := models.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkEmailFree(tx, &models.User{}, in.Email); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return writeError(err, "email already registered")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("user", "create")
	return &IdentityCreated{ID: user.ID, Name: user.Name}, nil
}

// CreatePI registers a principal investigator.
func CreatePI(ctx context.Context, db *gorm.DB, in IdentityInput) (*IdentityCreated, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, types.Internal(err)
	}

	pi := models.PI{Name: in.Name, Email: in.Email, PasswordHash: hash}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkEmailFree(tx, &models.PI{}, in.Email); err != nil {
			return err
		}
		if err := tx.Create(&pi).Error; err != nil {
			return writeError(err, "email already registered")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("pi", "create")
	return &IdentityCreated{ID: pi.ID, Name: pi.Name}, nil
}

// ListUsers returns every user with the PIs they work for.
func ListUsers(ctx context.Context, db *gorm.DB) ([]UserListing, error) {
	var users []models.User
	if err := db.WithContext(ctx).Preload("PIs", orderByID("pis")).Order("id").Find(&users).Error; err != nil {
		return nil, types.Internal(err)
	}

	out := make([]UserListing, 0, len(users))
	for _, u := range users {
		refs := make([]NamedRef, 0, len(u.PIs))
		for _, pi := range u.PIs {
			refs = append(refs, NamedRef{ID: pi.ID, Name: pi.Name})
		}
		out = append(out, UserListing{ID: u.ID, Name: u.Name, Email: u.Email, PIs: refs})
	}
	return out, nil
}

// ListPIs returns every PI with their rooms.
func ListPIs(ctx context.Context, db *gorm.DB) ([]PIListing, error) {
	var pis []models.PI
	if err := db.WithContext(ctx).Preload("Rooms", orderByID("rooms")).Order("id").Find(&pis).Error; err != nil {
		return nil, types.Internal(err)
	}
	return toPIListings(pis), nil
}

// UserPIs returns the PIs a user works for.
func UserPIs(ctx context.Context, db *gorm.DB, userID uint) ([]PIListing, error) {
	var user models.User
	if err := db.WithContext(ctx).
		Preload("PIs", orderByID("pis")).
		Preload("PIs.Rooms", orderByID("rooms")).
		First(&user, userID).Error; err != nil {
		return nil, lookupError(err, "User not found")
	}
	return toPIListings(user.PIs), nil
}

// AssociateUserPI links a user to a PI. Linking twice is a no-op.
func AssociateUserPI(ctx context.Context, db *gorm.DB, userID, piID uint) (*AssociationResult, error) {
	var result *AssociationResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, pi, err := findUserAndPI(tx, userID, piID)
		if err != nil {
			return err
		}
		if err := tx.Model(user).Omit("PIs.*").Association("PIs").Append(pi); err != nil {
			return writeError(err, "association already exists")
		}
		result = &AssociationResult{
			Message: fmt.Sprintf("PI %s associated with User %s", pi.Name, user.Name),
			UserID:  user.ID,
			PIID:    pi.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("user_pi", "create")
	return result, nil
}

// DissociateUserPI removes a user to PI link. Removing a missing link is a no-op.
func DissociateUserPI(ctx context.Context, db *gorm.DB, userID, piID uint) (*AssociationResult, error) {
	var result *AssociationResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, pi, err := findUserAndPI(tx, userID, piID)
		if err != nil {
			return err
		}
		if err := tx.Model(user).Association("PIs").Delete(pi); err != nil {
			return types.Internal(err)
		}
		result = &AssociationResult{
			Message: fmt.Sprintf("PI %s removed from User %s", pi.Name, user.Name),
			UserID:  user.ID,
			PIID:    pi.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMutation("user_pi", "delete")
	return result, nil
}

func findUserAndPI(tx *gorm.DB, userID, piID uint) (*models.User, *models.PI, error) {
	var user models.User
	var pi models.PI
	userErr := tx.First(&user, userID).Error
	piErr := tx.First(&pi, piID).Error
	if userErr != nil || piErr != nil {
		for _, err := range []error{userErr, piErr} {
			if err != nil && !isNotFound(err) {
				return nil, nil, types.Internal(err)
			}
		}
		return nil, nil, types.NotFound("User or PI not found")
	}
	return &user, &pi, nil
}

func checkEmailFree(tx *gorm.DB, model interface{}, email string) error {
	var count int64
	if err := tx.Model(model).Where("email = ?", email).Count(&count).Error; err != nil {
		return types.Internal(err)
	}
	if count > 0 {
		return types.Conflict("email already registered")
	}
	return nil
}

func toPIListings(pis []models.PI) []PIListing {
	out := make([]PIListing, 0, len(pis))
	for _, pi := range pis {
		rooms := make([]RoomRef, 0, len(pi.Rooms))
		for _, r := range pi.Rooms {
			rooms = append(rooms, RoomRef{ID: r.ID, RoomNumber: r.RoomNumber})
		}
		out = append(out, PIListing{ID: pi.ID, Name: pi.Name, Email: pi.Email, Rooms: rooms})
	}
	return out
}
