// auth_service.go
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
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/models"
	"github.com/uscann/chemtrack/internal/types"
)

// Roles carried in bearer tokens.
const (
	RoleUser = "user"
	RolePI   = "pi"
)

const tokenIssuer = "chemtrack"

const invalidCredentials = "Invalid email or password"

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
}

// Claims are the JWT claims issued at login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the identity.
func (ti *TokenIssuer) Issue(id Identity) (string, error) {
	now := ti.now()
	claims := Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(id.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Parse verifies a token and returns the identity it carries.
func (ti *TokenIssuer) Parse(tokenString string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return Identity{}, types.Unauthorized("Invalid or expired token").WithErr(err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return Identity{}, types.Unauthorized("Invalid token subject")
	}
	if claims.Role != RoleUser && claims.Role != RolePI {
		return Identity{}, types.Unauthorized("Invalid token role")
	}

	return Identity{ID: uint(id), Role: claims.Role}, nil
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyHash     string
	dummyHashOnce sync.Once
)

// burnComparison spends one bcrypt comparison when the email is unknown so the
// two login failures take comparable time.
func burnComparison(password string) {
	dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("chemtrack-unknown-identity"), bcrypt.DefaultCost)
		if err == nil {
			dummyHash = string(hash)
		}
	})
	VerifyPassword(dummyHash, password)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoomSummary is a room as listed in login and add-room payloads.
type RoomSummary struct {
	RoomID       uint   `json:"room_id"`
	RoomNumber   string `json:"room_number"`
	BuildingName string `json:"building_name"`
}

// PISummary is a PI with its rooms, as listed in the user login payload.
type PISummary struct {
	PIID   uint          `json:"pi_id"`
	PIName string        `json:"pi_name"`
	Rooms  []RoomSummary `json:"rooms"`
}

type UserLogin struct {
	Success  bool        `json:"success"`
	UserID   uint        `json:"user_id"`
	UserName string      `json:"user_name"`
	Token    string      `json:"token"`
	PIs      []PISummary `json:"pis"`
}

type PILogin struct {
	Success bool          `json:"success"`
	PIID    uint          `json:"pi_id"`
	PIName  string        `json:"pi_name"`
	Token   string        `json:"token"`
	Rooms   []RoomSummary `json:"rooms"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c Credentials) validate() error {
	c.Email = strings.TrimSpace(c.Email)
	return validateStruct(c)
}

// LoginUser verifies a lab member and returns their PIs and rooms.
func LoginUser(ctx context.Context, db *gorm.DB, issuer *TokenIssuer, creds Credentials) (*UserLogin, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	var user models.User
	err := db.WithContext(ctx).
		Preload("PIs", orderByID("pis")).
		Preload("PIs.Rooms", orderByID("rooms")).
		Preload("PIs.Rooms.Building").
		Where("email = ?", normalizeEmail(creds.Email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			burnComparison(creds.Password)
			return nil, types.Unauthorized(invalidCredentials)
		}
		return nil, types.Internal(err)
	}
	if !VerifyPassword(user.PasswordHash, creds.Password) {
		return nil, types.Unauthorized(invalidCredentials)
	}

	token, err := issuer.Issue(Identity{ID: user.ID, Role: RoleUser})
	if err != nil {
		return nil, types.Internal(err)
	}

	pis := make([]PISummary, 0, len(user.PIs))
	for _, pi := range user.PIs {
		pis = append(pis, PISummary{PIID: pi.ID, PIName: pi.Name, Rooms: summarizeRooms(pi.Rooms)})
	}

	return &UserLogin{
		Success:  true,
		UserID:   user.ID,
		UserName: user.Name,
		Token:    token,
		PIs:      pis,
	}, nil
}

// LoginPI verifies a principal investigator and returns their rooms.
func LoginPI(ctx context.Context, db *gorm.DB, issuer *TokenIssuer, creds Credentials) (*PILogin, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	var pi models.PI
	err := db.WithContext(ctx).
		Preload("Rooms", orderByID("rooms")).
		Preload("Rooms.Building").
		Where("email = ?", normalizeEmail(creds.Email)).
		First(&pi).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			burnComparison(creds.Password)
			return nil, types.Unauthorized(invalidCredentials)
		}
		return nil, types.Internal(err)
	}
	if !VerifyPassword(pi.PasswordHash, creds.Password) {
		return nil, types.Unauthorized(invalidCredentials)
	}

	token, err := issuer.Issue(Identity{ID: pi.ID, Role: RolePI})
	if err != nil {
		return nil, types.Internal(err)
	}

	return &PILogin{
		Success: true,
		PIID:    pi.ID,
		PIName:  pi.Name,
		Token:   token,
		Rooms:   summarizeRooms(pi.Rooms),
	}, nil
}

func summarizeRooms(rooms []models.Room) []RoomSummary {
	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomSummary{RoomID: r.ID, RoomNumber: r.RoomNumber, BuildingName: buildingName(r.Building)})
	}
	return out
}

func buildingName(b *models.Building) string {
	if b == nil {
		return "Unknown Building"
	}
	return b.Name
}

func orderByID(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id")
	}
}
