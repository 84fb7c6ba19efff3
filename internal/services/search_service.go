package services

import (
	"context"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/hints"

	"github.com/uscann/chemtrack/internal/models"
	"github.com/uscann/chemtrack/internal/types"
)

// Search filter modes.
const (
	FilterCurrentRoom = "CurrentRoom"
	FilterCurrentPI   = "CurrentPI"
	FilterAllPIs      = "AllPIs"
)

// SearchInput is the free-text search request body.
type SearchInput struct {
	Query          string        `json:"query"`
	Filter         string        `json:"filter"`
	SelectedRoomID *types.FlexID `json:"selected_room_id" swaggertype:"integer"`
	SelectedPIID   *types.FlexID `json:"selected_pi_id" swaggertype:"integer"`
}

// SearchHit is one search result.
type SearchHit struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	CASNumber    string `json:"cas_number"`
	Barcode      string `json:"barcode"`
	RoomID       uint   `json:"room_id"`
	RoomNumber   string `json:"room_number"`
	BuildingName string `json:"building_name"`
	Space        string `json:"space"`
}

// ParseFilter accepts "CurrentRoom", "Current Room" and the like in any case.
// An empty filter searches everything in scope.
func ParseFilter(s string) (string, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "currentroom":
		return FilterCurrentRoom, nil
	case "currentpi":
		return FilterCurrentPI, nil
	case "allpis", "":
		return FilterAllPIs, nil
	default:
		return "", types.BadRequest("unknown filter %q, expected one of Current Room, Current PI, All PIs", s)
	}
}

// ScopePIIDs returns the PIs whose inventory the caller may search: a PI
// sees itself, a user sees the PIs it is associated with.
func ScopePIIDs(ctx context.Context, db *gorm.DB, who Identity) ([]uint, error) {
	switch who.Role {
	case RolePI:
		return []uint{who.ID}, nil
	case RoleUser:
		var ids []uint
		if err := db.WithContext(ctx).
			Table("user_pis").
			Where("user_id = ?", who.ID).
			Order("pi_id").
			Pluck("pi_id", &ids).Error; err != nil {
			return nil, types.Internal(err)
		}
		return ids, nil
	default:
		return nil, types.Unauthorized("Unknown identity role")
	}
}

// SearchChemicals matches the query as a case-insensitive substring of name,
// CAS number or barcode within the rooms selected by the filter.
func SearchChemicals(ctx context.Context, db *gorm.DB, who Identity, in SearchInput) ([]SearchHit, error) {
	query := strings.ToLower(strings.TrimSpace(in.Query))
	if query == "" {
		return nil, types.BadRequest("query is required")
	}
	filter, err := ParseFilter(in.Filter)
	if err != nil {
		return nil, err
	}

	scope, err := ScopePIIDs(ctx, db, who)
	if err != nil {
		return nil, err
	}

	roomIDs, err := searchRooms(ctx, db, who, filter, scope, in)
	if err != nil {
		return nil, err
	}
	if len(roomIDs) == 0 {
		return []SearchHit{}, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	var chems []models.Chemical
	if err := withLocation(db.WithContext(ctx)).
		Clauses(hints.Comment("select", "inventory_search")).
		Where("chemicals.room_id IN ?", roomIDs).
		Where("(LOWER(chemicals.name) LIKE ? ESCAPE '!' OR LOWER(chemicals.cas_number) LIKE ? ESCAPE '!' OR LOWER(chemicals.barcode) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern).
		Order("chemicals.name, chemicals.id").
		Find(&chems).Error; err != nil {
		return nil, types.Internal(err)
	}

	hits := make([]SearchHit, 0, len(chems))
	for _, c := range chems {
		hit := SearchHit{
			ID:        c.ID,
			Name:      c.Name,
			CASNumber: c.CASNumber,
			Barcode:   c.Barcode,
			RoomID:    c.RoomID,
		}
		if c.Room != nil {
			hit.RoomNumber = c.Room.RoomNumber
			hit.BuildingName = buildingName(c.Room.Building)
		}
		if c.Space != nil {
			hit.Space = c.Space.Description
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func searchRooms(ctx context.Context, db *gorm.DB, who Identity, filter string, scope []uint, in SearchInput) ([]uint, error) {
	db = db.WithContext(ctx)

	switch filter {
	case FilterCurrentRoom:
		if in.SelectedRoomID == nil || *in.SelectedRoomID == 0 {
			return nil, types.BadRequest("selected_room_id is required for the Current Room filter")
		}
		room, err := findRoom(db, in.SelectedRoomID.Uint())
		if err != nil {
			return nil, err
		}
		if !slices.Contains(scope, room.PIID) {
			return nil, types.Forbidden("room %d is outside your inventory", room.ID)
		}
		return []uint{room.ID}, nil

	case FilterCurrentPI:
		piID := uint(0)
		if in.SelectedPIID != nil {
			piID = in.SelectedPIID.Uint()
		}
		if piID == 0 && who.Role == RolePI {
			piID = who.ID
		}
		if piID == 0 {
			return nil, types.BadRequest("selected_pi_id is required for the Current PI filter")
		}
		if !slices.Contains(scope, piID) {
			return nil, types.Forbidden("PI %d is outside your inventory", piID)
		}
		return roomIDsOf(db, []uint{piID})

	default:
		if len(scope) == 0 {
			return nil, nil
		}
		return roomIDsOf(db, scope)
	}
}

func roomIDsOf(db *gorm.DB, piIDs []uint) ([]uint, error) {
	var ids []uint
	if err := db.Model(&models.Room{}).Where("pi_id IN ?", piIDs).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, types.Internal(err)
	}
	return ids, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
