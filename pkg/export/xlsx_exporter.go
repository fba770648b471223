package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Routine"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes the title on the first row, headers below it and one row per record.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("xlsx"); err != nil {
		return nil, err
	}
	file := excelize.NewFile()
	defer file.Close() //nolint:errcheck

	if err := file.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	if data.Title != "" {
		if err := file.SetCellValue(xlsxSheet, "A1", data.Title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		row = 2
	}

	wrap, err := file.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := writeXLSXRow(file, row, data.Headers); err != nil {
		return nil, err
	}
	for _, values := range data.Rows {
		row++
		if err := writeXLSXRow(file, row, data.record(values)); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, fmt.Errorf("resolve column: %w", err)
	}
	if err := file.SetColWidth(xlsxSheet, "A", lastCol, 24); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := file.SetCellStyle(xlsxSheet, "A1", fmt.Sprintf("%s%d", lastCol, row), wrap); err != nil {
		return nil, fmt.Errorf("apply style: %w", err)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeXLSXRow(file *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolve cell: %w", err)
	}
	items := make([]interface{}, len(values))
	for i, v := range values {
		items[i] = v
	}
	if err := file.SetSheetRow(xlsxSheet, cell, &items); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
