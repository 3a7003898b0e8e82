package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportLeadsXLSX builds a spreadsheet of the filtered lead set, one row
// per non-deleted lead in the same order the list view uses
func ExportLeadsXLSX(db *gorm.DB, filters LeadFilters) (*excelize.File, error) {
	leads, err := AllLeads(db, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Leads"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Email", "Phone", "Status", "Created At", "Latest Comment"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, lead := range leads {
		row := i + 2
		latestComment := ""
		if lead.LatestComment != nil {
			latestComment = *lead.LatestComment
		}
		values := []interface{}{
			lead.ID,
			lead.Name,
			lead.Email,
			lead.Phone,
			lead.Status,
			lead.CreatedAt.Format("2006-01-02 15:04"),
			latestComment,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	return f, nil
}
