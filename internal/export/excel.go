package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"lendhub/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// Report renders booking report spreadsheets.
type Report struct {
	exportPath string
}

func NewReport(exportPath string) *Report {
	return &Report{exportPath: exportPath}
}

// WriteBookings writes a report file for the period and returns its path.
func (r *Report) WriteBookings(start, end time.Time, rows []models.BookingReportRow) (string, error) {
	if err := os.MkdirAll(r.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f, err := buildWorkbook(start, end, rows)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	fullPath := filepath.Join(r.exportPath, fileName)

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("error saving export file: %w", err)
	}
	return fullPath, nil
}

// StreamBookings writes the workbook to w, for direct HTTP downloads.
func (r *Report) StreamBookings(w io.Writer, start, end time.Time, rows []models.BookingReportRow) error {
	f, err := buildWorkbook(start, end, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error streaming export: %w", err)
	}
	return nil
}

func buildWorkbook(start, end time.Time, rows []models.BookingReportRow) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings %s - %s",
		start.Format("02.01.2006"), end.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "G1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status", "Created"}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, row := range rows {
		values := []interface{}{
			row.BookingID,
			row.ItemName,
			row.BookerName,
			row.Start.Format(time.RFC3339),
			row.End.Format(time.RFC3339),
			row.Status,
			row.CreatedAt.Format(time.RFC3339),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 22)
	_ = f.DeleteSheet("Sheet1")

	return f, nil
}
