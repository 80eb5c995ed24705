package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

// ReadCSV reads a comma-separated upload. Same header contract as the
// Excel path: first row is the header, record order follows the file.
func ReadCSV(path string) ([]models.ShipmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) ([]models.ShipmentRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled by the parser
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Missing: requiredColumns}
	}

	return parseTable(rows[0], rows[1:])
}
