package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/uscann/chemtrack/internal/testutil"
	"github.com/uscann/chemtrack/internal/types"
)

func readInventory(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{InventorySheet}, f.GetSheetList())
	rows, err := f.GetRows(InventorySheet)
	require.NoError(t, err)
	return rows
}

func TestExportInventory(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)

	data, err := ExportInventory(context.Background(), db, 0)
	require.NoError(t, err)

	rows := readInventory(t, data)
	require.Len(t, rows, 4)
	assert.Equal(t, InventoryHeader, rows[0])

	first := rows[1]
	assert.Equal(t, "CHEM-001", first[0])
	assert.Equal(t, "Acetone", first[1])
	assert.Equal(t, "kg", first[4])
	assert.Equal(t, "Chemistry", first[6])
	assert.Equal(t, "101", first[7])
	assert.Equal(t, "Shelf A", first[8])
	assert.Equal(t, "2027-06-30", first[9])

	assert.Equal(t, "CHEM-002", rows[2][0])
	assert.Equal(t, "N/A", rows[2][9])
	assert.Equal(t, "CHEM-003", rows[3][0])
}

func TestExportInventoryByRoom(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	data, err := ExportInventory(ctx, db, f.Room201.ID)
	require.NoError(t, err)
	rows := readInventory(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "CHEM-003", rows[1][0])
	assert.Equal(t, "Physics", rows[1][6])

	data, err = ExportInventory(ctx, db, 9999)
	assert.Nil(t, data)
	assert.True(t, types.IsType(err, types.ErrTypeNotFound))
}
