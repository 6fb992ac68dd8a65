package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// SheetName is the worksheet written by WriteXLSX
const SheetName = "Incidents"

// ContentType returns the MIME type of an export format
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write serialises t in the given format
func Write(w io.Writer, t *models.Table, format string) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	}
	return fmt.Errorf("%w: unknown export format %q", models.ErrInvalidInput, format)
}

// WriteCSV writes t with the source header and column order
func WriteCSV(w io.Writer, t *models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.SourceHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var werr error
	t.Each(func(row models.Incident) {
		if werr == nil {
			werr = cw.Write(row.Record())
		}
	})
	if werr != nil {
		return fmt.Errorf("failed to write row: %w", werr)
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes t to a single worksheet with the source header.
// Year and case count cells are numeric.
func WriteXLSX(w io.Writer, t *models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(models.SourceHeader))
	for i, h := range models.SourceHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	rowNum := 2
	var werr error
	t.Each(func(row models.Incident) {
		if werr != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			werr = err
			return
		}
		values := []interface{}{row.Year, row.Province, row.CrimeDetail, row.CaseCount}
		werr = f.SetSheetRow(SheetName, cell, &values)
		rowNum++
	})
	if werr != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, werr)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
