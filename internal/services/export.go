package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/models"
	"github.com/uscann/chemtrack/internal/types"
)

// InventorySheet is the worksheet name of the export workbook.
const InventorySheet = "Inventory"

// InventoryHeader is the first row of the export.
var InventoryHeader = []string{
	"Barcode",
	"Name",
	"CAS Number",
	"Amount",
	"Unit",
	"Total Weight (lbs)",
	"Building",
	"Room",
	"Space",
	"Expiration Date",
	"Date Added",
}

var inventoryColumnWidths = []float64{16, 32, 14, 10, 8, 18, 20, 10, 20, 16, 20}

// ExportInventory renders the inventory, or a single room of it when roomID
// is non-zero, as an XLSX workbook.
func ExportInventory(ctx context.Context, db *gorm.DB, roomID uint) ([]byte, error) {
	query := withLocation(db.WithContext(ctx)).Order("chemicals.room_id, chemicals.name, chemicals.id")
	if roomID != 0 {
		if _, err := findRoom(db.WithContext(ctx), roomID); err != nil {
			return nil, err
		}
		query = query.Where("chemicals.room_id = ?", roomID)
	}

	var chems []models.Chemical
	if err := query.Find(&chems).Error; err != nil {
		return nil, types.Internal(err)
	}

	data, err := renderInventory(chems)
	if err != nil {
		return nil, types.Internal(err)
	}
	return data, nil
}

func renderInventory(chems []models.Chemical) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(InventorySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(InventoryHeader))
	for i, h := range InventoryHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(InventorySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(InventoryHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(InventorySheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range inventoryColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(InventorySheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, c := range chems {
		v := toView(c)
		row := []interface{}{
			v.Barcode,
			v.Name,
			v.CASNumber,
			v.Amount,
			v.Unit,
			v.TotalWeightLbs,
			v.BuildingName,
			v.Room,
			v.Space,
			v.ExpirationDate,
			v.DateAdded,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(InventorySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(InventorySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
