package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

// ReadExcel reads the first sheet of an .xlsx/.xls workbook. The first row
// is the header; remaining rows become shipment records in file order.
func ReadExcel(path string) ([]models.ShipmentRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Missing: requiredColumns}
	}

	return parseTable(rows[0], rows[1:])
}
