package ingest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

const (
	colShipmentCode = "shipment_code"
	colDeliveryLat  = "delivery_latitude"
	colDeliveryLon  = "delivery_longitude"
	colDropoffLat   = "dropoff_latitude"
	colDropoffLon   = "dropoff_longitude"
)

var requiredColumns = []string{
	colShipmentCode,
	colDeliveryLat,
	colDeliveryLon,
	colDropoffLat,
	colDropoffLon,
}

// Header spellings seen in the field, mapped onto the canonical names.
var columnAliases = map[string]string{
	"shipment_code": colShipmentCode,
	"shipment":      colShipmentCode,

	"delivery_lat":          colDeliveryLat,
	"delivery_latitude":     colDeliveryLat,
	"delivery_latitude_deg": colDeliveryLat,

	"delivery_lng":       colDeliveryLon,
	"delivery_long":      colDeliveryLon,
	"delivery_longitude": colDeliveryLon,

	"actual_lat":         colDropoffLat,
	"actual_latitude":    colDropoffLat,
	"actual_dropoff_lat": colDropoffLat,
	"dropoff_lat":        colDropoffLat,
	"dropoff_latitude":   colDropoffLat,

	"actual_lng":          colDropoffLon,
	"actual_longitude":    colDropoffLon,
	"actual_dropoff_long": colDropoffLon,
	"dropoff_lng":         colDropoffLon,
	"dropoff_long":        colDropoffLon,
	"dropoff_longitude":   colDropoffLon,
}

// ReadFile reads an uploaded spreadsheet into shipment records, dispatching
// on the file extension. Supported: .xlsx, .xls, .csv.
func ReadFile(path string) ([]models.ShipmentRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ReadExcel(path)
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .xlsx, .xls or .csv)", filepath.Ext(path))
	}
}

// parseCoord parses a coordinate cell, accepting comma decimal separators.
func parseCoord(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseFloat(val, 64)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowIsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseTable turns a raw header + data rows into validated shipment records.
// Rows with a blank shipment code or blank coordinate cell are skipped, the
// way an analyst would drop incomplete rows. Everything else that fails
// validation rejects the whole upload.
func parseTable(header []string, rows [][]string) ([]models.ShipmentRecord, error) {
	colIdx := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := columnAliases[name]; ok {
			if _, seen := colIdx[canonical]; !seen {
				colIdx[canonical] = i
			}
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := colIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	coordColumns := []struct {
		name  string
		isLat bool
	}{
		{colDeliveryLat, true},
		{colDeliveryLon, false},
		{colDropoffLat, true},
		{colDropoffLon, false},
	}

	records := make([]models.ShipmentRecord, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header row
		if rowIsBlank(row) {
			continue
		}

		code := cell(row, colIdx[colShipmentCode])
		if code == "" {
			continue
		}
		if seen[code] {
			return nil, &SchemaError{Duplicate: code, Row: rowNum}
		}

		coords := make([]float64, 0, 4)
		skip := false
		for _, cc := range coordColumns {
			raw := cell(row, colIdx[cc.name])
			if raw == "" {
				skip = true
				break
			}
			v, err := parseCoord(raw)
			if err != nil {
				return nil, &TypeError{Row: rowNum, Column: cc.name, Value: raw}
			}
			bound := 180.0
			if cc.isLat {
				bound = 90.0
			}
			if v < -bound || v > bound {
				return nil, &RangeError{Row: rowNum, Column: cc.name, Value: v}
			}
			coords = append(coords, v)
		}
		if skip {
			continue
		}

		seen[code] = true
		records = append(records, models.ShipmentRecord{
			ShipmentCode: code,
			Delivery:     models.Coordinate{Lat: coords[0], Lon: coords[1]},
			Dropoff:      models.Coordinate{Lat: coords[2], Lon: coords[3]},
		})
	}

	return records, nil
}
