package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

const resultSheet = "Results"

// SaveExcel writes the records to an .xlsx workbook using the stream writer,
// which keeps memory flat on large uploads.
func SaveExcel(path string, records []models.EvaluatedRecord) error {
	f := excelize.NewFile()
	index, err := f.NewSheet(resultSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(resultSheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	headers := []interface{}{
		"shipment_code",
		"delivery_latitude", "delivery_longitude",
		"dropoff_latitude", "dropoff_longitude",
		"distance_meters",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.ShipmentCode,
			r.Delivery.Lat, r.Delivery.Lon,
			r.Dropoff.Lat, r.Dropoff.Lon,
			r.DistanceMeters,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush stream writer: %w", err)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(path)
}
