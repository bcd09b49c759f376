package utils

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"pcs/src/models"
)

// BookingsToExcel renders bookings into a single-sheet workbook and returns
// the file bytes for the download response.
func BookingsToExcel(bookings []models.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bookings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Customer", "Email", "Phone", "Service", "Property",
		"Scheduled", "Address", "Postcode", "Status", "Technician", "Price", "Rating", "Created",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headerStyle)

	for i, b := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.CustomerName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.CustomerEmail)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), b.CustomerPhone)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), string(b.ServiceType))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), string(b.PropertySize))
		if b.ScheduledAt != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), b.ScheduledAt.Format("2006-01-02 15:04"))
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), b.Address)
		_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), b.Postcode)
		_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", row), string(b.Status))
		if b.TechnicianID != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("K%d", row), *b.TechnicianID)
		}
		if b.Price != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("L%d", row), *b.Price)
		}
		if b.Rating != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("M%d", row), *b.Rating)
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("N%d", row), b.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "C", 25)
	_ = f.SetColWidth(sheet, "D", "N", 18)
	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %v", err)
	}
	return buf.Bytes(), nil
}
