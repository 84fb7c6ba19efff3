package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uscann/chemtrack/internal/services"
	"github.com/uscann/chemtrack/internal/testutil"
)

func TestBuildingRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/buildings", map[string]string{"name": "Geology"})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	resp = env.do(t, http.MethodGet, "/buildings-fetch", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var buildings []services.BuildingView
	testutil.ParseJSON(t, resp, &buildings)
	require.Len(t, buildings, 3)
	assert.Equal(t, "Geology", buildings[1].Name)
}

func TestRoomRoutes(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture

	resp := env.do(t, http.MethodPost, "/rooms", map[string]interface{}{
		"building_id": f.Physics.ID, "room_number": "205", "pi_id": fmt.Sprint(f.Fermi.ID),
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var room services.RoomView
	testutil.ParseJSON(t, resp, &room)
	assert.Equal(t, "Physics", room.BuildingName)

	resp = env.do(t, http.MethodPost, "/add_room", map[string]interface{}{
		"pi_id": f.Fermi.ID, "room_number": "B1", "building_name": "Annex",
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var added services.AddRoomResult
	testutil.ParseJSON(t, resp, &added)
	assert.True(t, added.Success)
	require.Len(t, added.Rooms, 3)
	assert.Equal(t, "Annex", added.Rooms[2].BuildingName)

	resp = env.do(t, http.MethodPost, "/rooms/update_field", map[string]interface{}{
		"room_id": added.RoomID, "contact_name": "Laura",
	})
	testutil.AssertStatus(t, resp, http.StatusOK)
	testutil.ParseJSON(t, resp, &room)
	assert.Equal(t, "Laura", room.ContactName)
	assert.Equal(t, "B1", room.RoomNumber)

	resp = env.do(t, http.MethodPost, "/rooms/update_field", map[string]interface{}{"room_id": added.RoomID})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodPost, "/rooms/details", map[string]interface{}{"room_id": fmt.Sprint(f.Room101.ID)})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var details services.RoomDetails
	testutil.ParseJSON(t, resp, &details)
	assert.Equal(t, "Chemistry", details.BuildingName)
	require.Len(t, details.Spaces, 1)

	resp = env.do(t, http.MethodPost, "/rooms/details", map[string]interface{}{})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/rooms/%d", f.Room101.ID), nil)
	testutil.AssertStatus(t, resp, http.StatusConflict)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/rooms/%d", added.RoomID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
}

func TestSpaceRoutes(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture

	resp := env.do(t, http.MethodPost, "/spaces", map[string]interface{}{"room_id": f.Room102.ID, "description": "Cabinet 1"})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var single SpacesCreated
	testutil.ParseJSON(t, resp, &single)
	assert.Equal(t, "Cabinet 1", single.Description)
	require.Len(t, single.Spaces, 1)
	assert.Equal(t, single.ID, single.Spaces[0].ID)

	resp = env.do(t, http.MethodPost, "/spaces", []map[string]interface{}{
		{"room_id": f.Room102.ID, "description": "Cabinet 2"},
		{"room_id": f.Room102.ID, "description": "Fridge", "space_type": "fridge"},
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var batch SpacesCreated
	testutil.ParseJSON(t, resp, &batch)
	assert.Len(t, batch.Spaces, 2)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/rooms/%d/spaces", f.Room102.ID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var spaces []services.SpaceView
	testutil.ParseJSON(t, resp, &spaces)
	assert.Len(t, spaces, 3)

	resp = env.do(t, http.MethodPost, "/manage_space", map[string]interface{}{"room_id": f.Room102.ID, "space_id": "F-9"})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	resp = env.do(t, http.MethodPost, "/manage_space", map[string]interface{}{"id": single.ID, "description": "Cabinet 1 (locked)"})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var updated services.SpaceView
	testutil.ParseJSON(t, resp, &updated)
	assert.Equal(t, "Cabinet 1 (locked)", updated.Description)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/spaces/%d", f.ShelfA.ID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/spaces/%d", f.ShelfA.ID), nil)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
}
