package distance

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

type ProgressCallback func(current, total int, msg string)
type LoggerCallback func(msg string)

// Evaluate computes the delivery-vs-dropoff distance for a single record.
func Evaluate(rec models.ShipmentRecord) models.EvaluatedRecord {
	return models.EvaluatedRecord{
		ShipmentRecord: rec,
		DistanceMeters: Haversine(rec.Delivery, rec.Dropoff),
	}
}

// EvaluateAll evaluates every record, fanning the work out across the
// available CPUs. The result slice keeps the input order: results[i] always
// corresponds to records[i]. Both callbacks may be nil.
func EvaluateAll(records []models.ShipmentRecord, onProgress ProgressCallback, logger LoggerCallback) []models.EvaluatedRecord {
	total := len(records)
	if total == 0 {
		return nil
	}

	results := make([]models.EvaluatedRecord, total)

	numCPU := runtime.NumCPU()
	if numCPU < 1 {
		numCPU = 1
	}
	chunkSize := (total + numCPU - 1) / numCPU

	var wg sync.WaitGroup
	var processedCount int64

	if logger != nil {
		logger(fmt.Sprintf("Evaluating %d shipments on %d CPUs", total, numCPU))
	}

	for i := 0; i < numCPU; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if start >= total {
			break
		}
		if end > total {
			end = total
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()

			for idx := s; idx < e; idx++ {
				results[idx] = Evaluate(records[idx])

				count := atomic.AddInt64(&processedCount, 1)
				if count%500 == 0 && onProgress != nil {
					onProgress(int(count), total, "")
				}
			}
		}(start, end)
	}

	wg.Wait()

	if onProgress != nil {
		onProgress(total, total, "")
	}

	return results
}
