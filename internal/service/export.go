package service

import (
	"fmt"
	"io"

	"github.com/vervelak/lastwar-alliance-manager/internal/view"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Awards"

var exportHeader = []interface{}{"Week", "Award", "Rank", "Member"}

// WriteHistoryXLSX writes grouped history rows, in display order, as a spreadsheet.
func WriteHistoryXLSX(w io.Writer, weeks []view.HistoryWeek) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, wk := range weeks {
		for _, aw := range wk.Awards {
			for _, it := range aw.Items {
				axis, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return err
				}
				cells := []interface{}{wk.WeekDate, string(aw.Award), it.Rank, it.MemberName}
				if err := f.SetSheetRow(exportSheet, axis, &cells); err != nil {
					return fmt.Errorf("write row %d: %w", row, err)
				}
				row++
			}
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "D", 22); err != nil {
		return fmt.Errorf("set widths: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
