package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

func sampleRecords() []models.EvaluatedRecord {
	return []models.EvaluatedRecord{
		{
			ShipmentRecord: models.ShipmentRecord{
				ShipmentCode: "SHP-1",
				Delivery:     models.Coordinate{Lat: -6.2, Lon: 106.816666},
				Dropoff:      models.Coordinate{Lat: -6.21, Lon: 106.816666},
			},
			DistanceMeters: 1111.9492664455873,
		},
		{
			ShipmentRecord: models.ShipmentRecord{
				ShipmentCode: "SHP-2",
				Delivery:     models.Coordinate{Lat: 52.52, Lon: 13.405},
				Dropoff:      models.Coordinate{Lat: 52.53, Lon: 13.41},
			},
			DistanceMeters: 1160.5,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 data rows", len(rows))
	}

	wantHeader := []string{
		"shipment_code",
		"delivery_latitude", "delivery_longitude",
		"dropoff_latitude", "dropoff_longitude",
		"distance_meters",
	}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}

	if rows[1][0] != "SHP-1" {
		t.Errorf("row 1 shipment = %q", rows[1][0])
	}
	if rows[1][1] != "-6.2" || rows[1][2] != "106.816666" {
		t.Errorf("row 1 delivery = %q,%q", rows[1][1], rows[1][2])
	}
	if rows[1][5] != "1111.9492664455873" {
		t.Errorf("row 1 distance = %q, precision lost", rows[1][5])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("empty input should still produce the header row, got %d rows", len(rows))
	}
}

func TestBuildPDF(t *testing.T) {
	sum := Summary{
		SourceFile:      "shipments.xlsx",
		ThresholdMeters: 1000,
		TotalEvaluated:  2,
		TotalExceeding:  2,
		GeneratedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	data, err := BuildPDF(sum, sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF (starts with %q)", data[:8])
	}
}

func TestBuildPDFManyRows(t *testing.T) {
	records := make([]models.EvaluatedRecord, 100)
	for i := range records {
		records[i] = models.EvaluatedRecord{
			ShipmentRecord: models.ShipmentRecord{ShipmentCode: "SHP"},
			DistanceMeters: float64(10000 - i),
		}
	}

	data, err := BuildPDF(Summary{GeneratedAt: time.Now()}, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty pdf output")
	}
}
