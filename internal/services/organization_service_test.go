package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uscann/chemtrack/internal/models"
	"github.com/uscann/chemtrack/internal/testutil"
	"github.com/uscann/chemtrack/internal/types"
)

func TestBuildings(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)
	ctx := context.Background()

	_, err := CreateBuilding(ctx, db, BuildingInput{Name: " "})
	assert.True(t, types.IsType(err, types.ErrTypeValidation))

	created, err := CreateBuilding(ctx, db, BuildingInput{Name: "Biology"})
	require.NoError(t, err)
	assert.Equal(t, "Biology", created.Name)

	list, err := ListBuildings(ctx, db)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Biology", list[0].Name)
	assert.Equal(t, "Physics", list[2].Name)
}

func TestCreateRoom(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	_, err := CreateRoom(ctx, db, RoomInput{RoomNumber: "301"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building_id, pi_id")

	_, err = CreateRoom(ctx, db, RoomInput{BuildingID: idPtr(9999), RoomNumber: "301", PIID: idPtr(f.Curie.ID)})
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))

	_, err = CreateRoom(ctx, db, RoomInput{BuildingID: idPtr(f.Physics.ID), RoomNumber: "301", PIID: idPtr(9999)})
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))

	room, err := CreateRoom(ctx, db, RoomInput{BuildingID: idPtr(f.Physics.ID), RoomNumber: "301", PIID: idPtr(f.Curie.ID), ContactName: "Irene"})
	require.NoError(t, err)
	assert.Equal(t, "Physics", room.BuildingName)
	assert.Equal(t, "Irene", room.ContactName)
}

func TestAddRoom(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	_, err := AddRoom(ctx, db, AddRoomInput{PIID: idPtr(f.Fermi.ID), RoomNumber: "202"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building_id or building_name")

	res, err := AddRoom(ctx, db, AddRoomInput{PIID: idPtr(f.Fermi.ID), RoomNumber: "202", BuildingName: "Physics"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Rooms, 2)
	assert.Equal(t, "202", res.Rooms[1].RoomNumber)
	assert.Equal(t, "Physics", res.Rooms[1].BuildingName)

	var buildings int64
	db.Model(&models.Building{}).Count(&buildings)
	assert.Equal(t, int64(2), buildings)

	res, err = AddRoom(ctx, db, AddRoomInput{PIID: idPtr(f.Fermi.ID), RoomNumber: "1", BuildingName: "Annex"})
	require.NoError(t, err)
	require.Len(t, res.Rooms, 3)
	assert.Equal(t, "Annex", res.Rooms[2].BuildingName)

	res, err = AddRoom(ctx, db, AddRoomInput{PIID: idPtr(f.Fermi.ID), RoomNumber: "2", BuildingID: idPtr(f.Chemistry.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", res.Rooms[3].BuildingName)
}

func TestUpdateRoomFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	_, err := UpdateRoomFields(ctx, db, RoomFieldUpdate{RoomID: idPtr(f.Room101.ID)})
	assert.True(t, types.IsType(err, types.ErrTypeValidation))

	view, err := UpdateRoomFields(ctx, db, RoomFieldUpdate{RoomID: idPtr(f.Room101.ID), ContactPhone: strPtr("555-9999")})
	require.NoError(t, err)
	assert.Equal(t, "555-9999", view.ContactPhone)
	assert.Equal(t, "Pierre", view.ContactName)
	assert.Equal(t, "101", view.RoomNumber)

	view, err = UpdateRoomFields(ctx, db, RoomFieldUpdate{RoomID: idPtr(f.Room101.ID), RoomNumber: strPtr("101A"), BuildingID: idPtr(f.Physics.ID)})
	require.NoError(t, err)
	assert.Equal(t, "101A", view.RoomNumber)
	assert.Equal(t, "Physics", view.BuildingName)
	assert.Equal(t, "555-9999", view.ContactPhone)

	_, err = UpdateRoomFields(ctx, db, RoomFieldUpdate{RoomID: idPtr(f.Room101.ID), PIID: idPtr(9999)})
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))

	_, err = UpdateRoomFields(ctx, db, RoomFieldUpdate{RoomID: idPtr(9999), ContactName: strPtr("x")})
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))
}

func TestRoomDetailsAndSpaces(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	details, err := GetRoomDetails(ctx, db, f.Room101.ID)
	require.NoError(t, err)
	assert.Equal(t, "101", details.RoomNumber)
	assert.Equal(t, "Chemistry", details.BuildingName)
	assert.Equal(t, "Pierre", details.ContactName)
	require.Len(t, details.Spaces, 1)
	assert.Equal(t, SpaceView{ID: f.ShelfA.ID, RoomID: f.Room101.ID, Description: "Shelf A", SpaceType: "shelf", SpaceID: "S-A"}, details.Spaces[0])

	spaces, err := ListRoomSpaces(ctx, db, f.Room102.ID)
	require.NoError(t, err)
	assert.NotNil(t, spaces)
	assert.Empty(t, spaces)

	_, err = ListRoomSpaces(ctx, db, 9999)
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))
}

func TestDeleteRoom(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	err := DeleteRoom(ctx, db, f.Room101.ID)
	require.Error(t, err)
	assert.True(t, types.IsType(err, types.ErrTypeConflict))

	require.NoError(t, DeleteChemical(ctx, db, f.Acetone.ID))
	require.NoError(t, DeleteRoom(ctx, db, f.Room101.ID))

	var spaces int64
	db.Model(&models.Space{}).Where("room_id = ?", f.Room101.ID).Count(&spaces)
	assert.Zero(t, spaces)

	err = DeleteRoom(ctx, db, f.Room101.ID)
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))
}

func TestCreateSpaces(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	_, err := CreateSpaces(ctx, db, []SpaceInput{{RoomID: idPtr(f.Room102.ID)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")

	views, err := CreateSpaces(ctx, db, []SpaceInput{
		{RoomID: idPtr(f.Room102.ID), Description: strPtr("Fume hood"), SpaceType: strPtr("hood")},
		{RoomID: idPtr(f.Room102.ID), Description: strPtr("Cabinet 2"), SpaceID: strPtr("C-2")},
	})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "C-2", views[1].SpaceID)

	// One bad entry rolls the whole batch back.
	_, err = CreateSpaces(ctx, db, []SpaceInput{
		{RoomID: idPtr(f.Room102.ID), Description: strPtr("Cabinet 3")},
		{RoomID: idPtr(9999), Description: strPtr("Nowhere")},
	})
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))

	var count int64
	db.Model(&models.Space{}).Where("room_id = ?", f.Room102.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestManageSpace(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	_, _, err := ManageSpace(ctx, db, SpaceInput{RoomID: idPtr(f.Room102.ID), Description: strPtr(" ")})
	assert.True(t, types.IsType(err, types.ErrTypeValidation))

	created, isNew, err := ManageSpace(ctx, db, SpaceInput{RoomID: idPtr(f.Room102.ID), SpaceType: strPtr("freezer")})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "freezer", created.SpaceType)

	updated, isNew, err := ManageSpace(ctx, db, SpaceInput{ID: idPtr(f.ShelfA.ID), RoomID: idPtr(f.Room101.ID), Description: strPtr("Shelf A (top)")})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "Shelf A (top)", updated.Description)
	assert.Equal(t, "shelf", updated.SpaceType)
	assert.Equal(t, "S-A", updated.SpaceID)

	relabeled, _, err := ManageSpace(ctx, db, SpaceInput{ID: idPtr(f.ShelfA.ID), SpaceID: strPtr("S-A2")})
	require.NoError(t, err)
	assert.Equal(t, "S-A2", relabeled.SpaceID)

	_, _, err = ManageSpace(ctx, db, SpaceInput{ID: idPtr(f.ShelfA.ID), RoomID: idPtr(f.Room102.ID), Description: strPtr("moved")})
	assert.True(t, types.IsType(err, types.ErrTypeValidation))

	_, _, err = ManageSpace(ctx, db, SpaceInput{ID: idPtr(f.ShelfA.ID)})
	assert.True(t, types.IsType(err, types.ErrTypeValidation))

	_, _, err = ManageSpace(ctx, db, SpaceInput{ID: idPtr(9999), Description: strPtr("x")})
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))
}

func TestDeleteSpace(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	require.NoError(t, DeleteSpace(ctx, db, f.ShelfA.ID))

	var chem models.Chemical
	require.NoError(t, db.First(&chem, f.Acetone.ID).Error)
	assert.Nil(t, chem.SpaceID)
	assert.Equal(t, f.Room101.ID, chem.RoomID)

	err := DeleteSpace(ctx, db, f.ShelfA.ID)
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))
}
