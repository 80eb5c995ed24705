package filter

import (
	"sort"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

// DefaultThresholdMeters is the discrepancy above which a shipment is
// considered misdelivered.
const DefaultThresholdMeters = 1000.0

// ExceedingThreshold returns the records whose distance is strictly greater
// than thresholdMeters, preserving input order. Pure: the input slice is
// never modified.
func ExceedingThreshold(records []models.EvaluatedRecord, thresholdMeters float64) []models.EvaluatedRecord {
	var out []models.EvaluatedRecord
	for _, r := range records {
		if r.DistanceMeters > thresholdMeters {
			out = append(out, r)
		}
	}
	return out
}

// SortByDistanceDesc returns a copy sorted with the largest discrepancy
// first, which is how the result view presents offenders.
func SortByDistanceDesc(records []models.EvaluatedRecord) []models.EvaluatedRecord {
	out := make([]models.EvaluatedRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMeters > out[j].DistanceMeters
	})
	return out
}
