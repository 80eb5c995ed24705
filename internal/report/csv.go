package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

var csvHeader = []string{
	"shipment_code",
	"delivery_latitude",
	"delivery_longitude",
	"dropoff_latitude",
	"dropoff_longitude",
	"distance_meters",
}

// WriteCSV writes the records as CSV with the canonical columns plus
// distance_meters. Coordinates keep full float precision.
func WriteCSV(w io.Writer, records []models.EvaluatedRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ShipmentCode,
			formatFloat(r.Delivery.Lat),
			formatFloat(r.Delivery.Lon),
			formatFloat(r.Dropoff.Lat),
			formatFloat(r.Dropoff.Lon),
			formatFloat(r.DistanceMeters),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", r.ShipmentCode, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the CSV export to a file.
func SaveCSV(path string, records []models.EvaluatedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
