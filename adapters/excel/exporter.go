package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"solarweb/domain/table"
)

// DefaultSheetName is the sheet exported tables are written to
const DefaultSheetName = "Results"

// Exporter writes rendered tables as XLSX workbooks
type Exporter struct {
	SheetName string
}

// NewExporter creates an exporter using the default sheet name
func NewExporter() *Exporter {
	return &Exporter{SheetName: DefaultSheetName}
}

// Write renders the display table of r into a workbook. The label column and
// header are written as text; value cells that parse as numbers are written
// as numbers so spreadsheets can compute with them.
func (e *Exporter) Write(w io.Writer, r *table.Renderer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := e.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := r.Header()
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range r.Rows() {
		values := make([]interface{}, len(row))
		for j, cell := range row {
			values[j] = cell
			if j == 0 {
				continue
			}
			if v, ok := table.ParseNumber(cell); ok {
				values[j] = v
			}
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return fmt.Errorf("failed to size label column: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
