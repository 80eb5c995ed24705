package filter

import (
	"testing"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

func evaluated(code string, meters float64) models.EvaluatedRecord {
	return models.EvaluatedRecord{
		ShipmentRecord: models.ShipmentRecord{ShipmentCode: code},
		DistanceMeters: meters,
	}
}

func codes(records []models.EvaluatedRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ShipmentCode
	}
	return out
}

func TestExceedingThreshold(t *testing.T) {
	records := []models.EvaluatedRecord{
		evaluated("A", 500),
		evaluated("B", 1500),
		evaluated("C", 1000), // exactly at threshold: excluded
		evaluated("D", 1000.1),
		evaluated("E", 0),
	}

	got := ExceedingThreshold(records, 1000)
	want := []string{"B", "D"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", codes(got), want)
	}
	for i, c := range want {
		if got[i].ShipmentCode != c {
			t.Fatalf("got %v, want %v", codes(got), want)
		}
	}
}

func TestExceedingThresholdExcludesZeroDistance(t *testing.T) {
	records := []models.EvaluatedRecord{evaluated("A", 0)}
	for _, threshold := range []float64{0.001, 1, 1000, 100000} {
		if got := ExceedingThreshold(records, threshold); len(got) != 0 {
			t.Fatalf("threshold %v: zero-distance record not excluded", threshold)
		}
	}
}

func TestExceedingThresholdMonotonic(t *testing.T) {
	records := []models.EvaluatedRecord{
		evaluated("A", 100),
		evaluated("B", 900),
		evaluated("C", 1100),
		evaluated("D", 2500),
		evaluated("E", 10000),
	}

	prev := len(records) + 1
	for _, threshold := range []float64{0, 100, 500, 1000, 2000, 5000, 20000} {
		n := len(ExceedingThreshold(records, threshold))
		if n > prev {
			t.Fatalf("threshold %v produced %d rows, more than %d at a lower threshold", threshold, n, prev)
		}
		prev = n
	}
}

func TestExceedingThresholdPure(t *testing.T) {
	records := []models.EvaluatedRecord{
		evaluated("A", 2000),
		evaluated("B", 500),
	}

	_ = ExceedingThreshold(records, 1000)

	if records[0].ShipmentCode != "A" || records[1].ShipmentCode != "B" {
		t.Fatalf("input slice modified: %v", codes(records))
	}
}

func TestSortByDistanceDesc(t *testing.T) {
	records := []models.EvaluatedRecord{
		evaluated("A", 1100),
		evaluated("B", 9000),
		evaluated("C", 1500),
	}

	got := SortByDistanceDesc(records)

	want := []string{"B", "C", "A"}
	for i, c := range want {
		if got[i].ShipmentCode != c {
			t.Fatalf("got %v, want %v", codes(got), want)
		}
	}

	// input untouched
	if records[0].ShipmentCode != "A" {
		t.Fatalf("input slice modified: %v", codes(records))
	}
}

func TestSortByDistanceDescStable(t *testing.T) {
	records := []models.EvaluatedRecord{
		evaluated("A", 1100),
		evaluated("B", 1100),
		evaluated("C", 1100),
	}

	got := SortByDistanceDesc(records)
	want := []string{"A", "B", "C"}
	for i, c := range want {
		if got[i].ShipmentCode != c {
			t.Fatalf("equal distances reordered: got %v, want %v", codes(got), want)
		}
	}
}
