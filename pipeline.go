package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/snkhalik/delivery-distance-checker/internal/distance"
	"github.com/snkhalik/delivery-distance-checker/internal/filter"
	"github.com/snkhalik/delivery-distance-checker/internal/ingest"
	"github.com/snkhalik/delivery-distance-checker/internal/report"
	"github.com/snkhalik/delivery-distance-checker/internal/store"
)

// processJob runs the whole upload-evaluate-filter-export pipeline in the
// background. Everything it produces is keyed by the job id; the janitor
// cleans it up after the retention window.
func processJob(job *Job, st *store.ResultStore, inputPath, sourceName, outputDir string, thresholdMeters float64) {
	defer func() {
		if r := recover(); r != nil {
			failJob(job, fmt.Sprintf("panic: %v", r))
		}
	}()
	// The upload is consumed in this one pass.
	defer os.Remove(inputPath)

	job.Log(fmt.Sprintf("Reading %s...", sourceName))

	records, err := ingest.ReadFile(inputPath)
	if err != nil {
		failJob(job, ingestErrorMessage(err))
		return
	}
	job.Log(fmt.Sprintf("%d shipments read.", len(records)))

	job.Log("Computing delivery vs dropoff distances...")
	start := time.Now()

	evaluated := distance.EvaluateAll(records,
		func(current, total int, msg string) { job.SetProgress(current, total, msg) },
		func(msg string) { job.Log(msg) },
	)

	flagged := filter.ExceedingThreshold(evaluated, thresholdMeters)
	sorted := filter.SortByDistanceDesc(flagged)
	job.Log(fmt.Sprintf("Done in %s: %d of %d shipments exceed %.0f m.",
		time.Since(start).Round(time.Millisecond), len(sorted), len(evaluated), thresholdMeters))

	if err := st.InsertResults(job.ID, sorted); err != nil {
		failJob(job, fmt.Sprintf("store results: %v", err))
		return
	}

	job.Log("Writing export files...")

	csvFile := job.ID + ".csv"
	excelFile := job.ID + ".xlsx"
	pdfFile := job.ID + ".pdf"

	if err := report.SaveCSV(filepath.Join(outputDir, csvFile), sorted); err != nil {
		failJob(job, fmt.Sprintf("write csv: %v", err))
		return
	}
	if err := report.SaveExcel(filepath.Join(outputDir, excelFile), sorted); err != nil {
		failJob(job, fmt.Sprintf("write xlsx: %v", err))
		return
	}

	sum := report.Summary{
		SourceFile:      sourceName,
		ThresholdMeters: thresholdMeters,
		TotalEvaluated:  len(evaluated),
		TotalExceeding:  len(sorted),
		GeneratedAt:     time.Now(),
	}
	if err := report.SavePDF(filepath.Join(outputDir, pdfFile), sum, sorted); err != nil {
		failJob(job, fmt.Sprintf("write pdf: %v", err))
		return
	}

	job.Mutex.Lock()
	job.Status = StatusDone
	job.Progress = 100
	job.Result = &JobResult{
		SourceFile:      sourceName,
		ThresholdMeters: thresholdMeters,
		TotalEvaluated:  len(evaluated),
		TotalExceeding:  len(sorted),
		CSVFile:         csvFile,
		ExcelFile:       excelFile,
		PDFFile:         pdfFile,
	}
	ts := time.Now().Format("15:04:05")
	job.Logs = append(job.Logs, fmt.Sprintf("[%s] Validation finished.", ts))
	job.Mutex.Unlock()
}

// ingestErrorMessage keeps the validation error types user-readable without
// leaking file paths.
func ingestErrorMessage(err error) string {
	var schemaErr *ingest.SchemaError
	var typeErr *ingest.TypeError
	var rangeErr *ingest.RangeError

	switch {
	case errors.As(err, &schemaErr):
		return "Schema error: " + schemaErr.Error()
	case errors.As(err, &typeErr):
		return "Type error: " + typeErr.Error()
	case errors.As(err, &rangeErr):
		return "Range error: " + rangeErr.Error()
	default:
		return "Read error: " + err.Error()
	}
}
