package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusError   JobStatus = "error"
)

type JobResult struct {
	SourceFile      string  `json:"source_file"`
	ThresholdMeters float64 `json:"threshold_meters"`
	TotalEvaluated  int     `json:"total_evaluated"`
	TotalExceeding  int     `json:"total_exceeding"`
	CSVFile         string  `json:"csv_file"`
	ExcelFile       string  `json:"excel_file"`
	PDFFile         string  `json:"pdf_file"`
}

type Job struct {
	ID        string
	Status    JobStatus
	Logs      []string
	Progress  int // 0-100
	Result    *JobResult
	Error     string
	Mutex     sync.RWMutex
	CreatedAt time.Time
}

var (
	jobStore = make(map[string]*Job)
	jobLock  sync.RWMutex
)

func NewJob() *Job {
	job := &Job{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		Logs:      []string{},
		CreatedAt: time.Now(),
	}
	jobLock.Lock()
	jobStore[job.ID] = job
	jobLock.Unlock()
	return job
}

func (j *Job) Log(msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	ts := time.Now().Format("15:04:05")
	j.Logs = append(j.Logs, fmt.Sprintf("[%s] %s", ts, msg))
}

func (j *Job) SetProgress(current, total int, msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	if total > 0 {
		j.Progress = int(float64(current) / float64(total) * 100)
	}
	if msg != "" {
		ts := time.Now().Format("15:04:05")
		j.Logs = append(j.Logs, fmt.Sprintf("[%s] %s", ts, msg))
	}
}

func GetJob(id string) *Job {
	jobLock.RLock()
	defer jobLock.RUnlock()
	return jobStore[id]
}

func DeleteJob(id string) {
	jobLock.Lock()
	delete(jobStore, id)
	jobLock.Unlock()
}

// ExpiredJobs returns the ids of jobs created before the cutoff.
func ExpiredJobs(cutoff time.Time) []string {
	jobLock.RLock()
	defer jobLock.RUnlock()

	var ids []string
	for id, job := range jobStore {
		if job.CreatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

func failJob(job *Job, msg string) {
	job.Mutex.Lock()
	job.Status = StatusError
	job.Error = msg
	job.Logs = append(job.Logs, "[ERROR] "+msg)
	job.Mutex.Unlock()
}
