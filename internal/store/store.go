package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

// ResultStore holds evaluated rows for the lifetime of a job. It is a
// scratch table, not a system of record: rows are deleted when the job is
// deleted or expires.
type ResultStore struct {
	DB *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// The store is accessed from request handlers and the job goroutine;
	// a single connection sidesteps SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &ResultStore{DB: db}, nil
}

func (s *ResultStore) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createResultsQuery := `
	CREATE TABLE IF NOT EXISTS results (
		job_id          TEXT NOT NULL,
		seq             INTEGER NOT NULL,
		shipment_code   TEXT NOT NULL,
		delivery_lat    REAL NOT NULL,
		delivery_lon    REAL NOT NULL,
		dropoff_lat     REAL NOT NULL,
		dropoff_lon     REAL NOT NULL,
		distance_meters REAL NOT NULL,
		created_at      INTEGER NOT NULL,
		PRIMARY KEY (job_id, seq)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_results_created_at
	ON results(created_at);
	`

	statements := []string{createResultsQuery, createIndexQuery}
	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

// InsertResults stores the evaluated rows for a job, keeping their order in
// the seq column.
func (s *ResultStore) InsertResults(jobID string, records []models.EvaluatedRecord) error {
	if s.DB == nil {
		return errors.New("result store: DB is nil")
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("insert results: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO results (
		job_id, seq, shipment_code,
		delivery_lat, delivery_lon,
		dropoff_lat, dropoff_lon,
		distance_meters, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("insert results: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for i, r := range records {
		_, err := stmt.Exec(
			jobID, i, r.ShipmentCode,
			r.Delivery.Lat, r.Delivery.Lon,
			r.Dropoff.Lat, r.Dropoff.Lon,
			r.DistanceMeters, now,
		)
		if err != nil {
			return fmt.Errorf("insert results: row %d (%s): %w", i, r.ShipmentCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert results: commit tx: %w", err)
	}
	return nil
}

// ListResults returns a page of a job's rows in stored order.
func (s *ResultStore) ListResults(jobID string, limit, offset int) ([]models.EvaluatedRecord, error) {
	if s.DB == nil {
		return nil, errors.New("result store: DB is nil")
	}

	query := `
	SELECT
		shipment_code,
		delivery_lat, delivery_lon,
		dropoff_lat, dropoff_lon,
		distance_meters
	FROM results
	WHERE job_id = ?
	ORDER BY seq
	LIMIT ? OFFSET ?;
	`
	rows, err := s.DB.Query(query, jobID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list results: query: %w", err)
	}
	defer rows.Close()

	records := make([]models.EvaluatedRecord, 0, limit)
	for rows.Next() {
		var r models.EvaluatedRecord
		err := rows.Scan(
			&r.ShipmentCode,
			&r.Delivery.Lat, &r.Delivery.Lon,
			&r.Dropoff.Lat, &r.Dropoff.Lon,
			&r.DistanceMeters,
		)
		if err != nil {
			return nil, fmt.Errorf("list results: scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: row iteration: %w", err)
	}
	return records, nil
}

// CountResults returns the number of rows stored for a job.
func (s *ResultStore) CountResults(jobID string) (int, error) {
	if s.DB == nil {
		return 0, errors.New("result store: DB is nil")
	}

	var n int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM results WHERE job_id = ?;`, jobID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// DeleteJob removes all rows for a job.
func (s *ResultStore) DeleteJob(jobID string) error {
	if s.DB == nil {
		return errors.New("result store: DB is nil")
	}

	if _, err := s.DB.Exec(`DELETE FROM results WHERE job_id = ?;`, jobID); err != nil {
		return fmt.Errorf("delete job %s: %w", jobID, err)
	}
	return nil
}

// PurgeBefore removes rows created before the cutoff and reports how many
// went away. The janitor calls this on the job retention schedule.
func (s *ResultStore) PurgeBefore(cutoff time.Time) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("result store: DB is nil")
	}

	res, err := s.DB.Exec(`DELETE FROM results WHERE created_at < ?;`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge results: rows affected: %w", err)
	}
	return n, nil
}
