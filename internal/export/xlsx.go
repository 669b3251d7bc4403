// Package export writes the history list as a spreadsheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"dompet/internal/core"
	"dompet/internal/history"
)

const SheetName = "Riwayat"

var header = []string{"No", "Date", "Type", "Category", "Amount"}

// WriteXLSX writes one header row followed by one row per entry. The amount
// column holds the formatted amount so it matches what the history view shows.
func WriteXLSX(w io.Writer, entries []history.Entry, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, e := range entries {
		row := i + 2
		tx := e.Transaction
		values := []any{
			i + 1,
			tx.Date,
			tx.Type.String(),
			tx.Category,
			core.FormatAmount(currency, tx.Amount),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
