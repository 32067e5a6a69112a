package record

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXWorkbook writes one sheet per table into a single workbook, with run
// metadata on a leading "run" sheet. The workbook is saved on Close.
type XLSXWorkbook struct {
	path    string
	file    *excelize.File
	nextRow map[string]int
}

// NewXLSXWorkbook prepares a workbook to be written at path.
func NewXLSXWorkbook(path string) *XLSXWorkbook {
	return &XLSXWorkbook{
		path:    path,
		file:    excelize.NewFile(),
		nextRow: make(map[string]int),
	}
}

// Begin writes the run metadata as key/value rows on the "run" sheet.
func (x *XLSXWorkbook) Begin(meta RunMeta) error {
	const sheet = "run"
	x.file.SetSheetName("Sheet1", sheet)
	rows := [][]interface{}{
		{"run_id", meta.RunID},
		{"created_at", meta.CreatedAt},
		{"tool_version", meta.ToolVersion},
		{"schema_version", meta.SchemaVersion},
		{"name", meta.Name},
		{"seed", meta.Seed},
		{"model", meta.Model},
		{"regime", meta.Regime},
		{"steps", meta.Steps},
		{"replicates", meta.Replicates},
	}
	for k, v := range meta.Params {
		rows = append(rows, []interface{}{"param:" + k, v})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing run sheet: %w", err)
		}
		if err := x.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing run sheet: %w", err)
		}
	}
	return nil
}

// Write appends a row to the table's sheet, creating the sheet with a
// header row on first use.
func (x *XLSXWorkbook) Write(table Table, row Row) error {
	next, ok := x.nextRow[table.Name]
	if !ok {
		if _, err := x.file.NewSheet(table.Name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", table.Name, err)
		}
		header := make([]interface{}, len(table.Columns))
		for i, c := range table.Columns {
			header[i] = c
		}
		if err := x.file.SetSheetRow(table.Name, "A1", &header); err != nil {
			return fmt.Errorf("writing %s header: %w", table.Name, err)
		}
		next = 2
	}
	if len(row) != len(table.Columns) {
		return fmt.Errorf("table %s: row has %d values, want %d", table.Name, len(row), len(table.Columns))
	}
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return fmt.Errorf("addressing sheet %s: %w", table.Name, err)
	}
	if err := x.file.SetSheetRow(table.Name, cell, &vals); err != nil {
		return fmt.Errorf("writing %s row: %w", table.Name, err)
	}
	x.nextRow[table.Name] = next + 1
	return nil
}

// Close saves the workbook.
func (x *XLSXWorkbook) Close() error {
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return x.file.Close()
}
