package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/energyplot/energyplot/internal/histogram"
	"github.com/energyplot/energyplot/pkg/models"
)

// Archive wraps the SQLite file holding every pipeline run: one row per run,
// one per histogram, one per bucket.
type Archive struct {
	conn *sql.DB
}

// Run describes one archived pipeline run.
type Run struct {
	ID          string
	CreatedAt   time.Time
	SourceFile  string
	Granularity string
	StartYear   int
	SeriesCount int
	BinCount    int
}

// SeriesInfo describes one archived histogram.
type SeriesInfo struct {
	Name     string
	Title    string
	Total    float64
	Stacked  bool
	Position int
}

// Open creates a new archive connection and initializes the schema
func Open(path string) (*Archive, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	a := &Archive{conn: conn}
	if err := a.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return a, nil
}

// Close closes the archive connection
func (a *Archive) Close() error {
	return a.conn.Close()
}

// initSchema creates the necessary tables
func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		source_file TEXT NOT NULL,
		granularity TEXT NOT NULL,
		start_year INTEGER NOT NULL,
		series_count INTEGER NOT NULL,
		bin_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS histograms (
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		title TEXT NOT NULL,
		total REAL NOT NULL,
		stacked INTEGER NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (run_id, name)
	);
	CREATE TABLE IF NOT EXISTS bins (
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		bin_index INTEGER NOT NULL,
		t_start REAL NOT NULL,
		t_end REAL NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (run_id, name, bin_index)
	);
	CREATE INDEX IF NOT EXISTS idx_histograms_run ON histograms(run_id);
	CREATE INDEX IF NOT EXISTS idx_bins_run_name ON bins(run_id, name);
	`

	_, err := a.conn.Exec(schema)
	return err
}

// SaveRun persists a full pipeline run in one transaction and returns the new
// run ID. Stack layers are stored in stacking order; the overlay follows them
// with stacked=0.
func (a *Archive) SaveRun(sourceFile, granularity string, startYear int, s *histogram.Stack) (string, error) {
	id := uuid.NewString()

	tx, err := a.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	binCount := 0
	if len(s.Layers) > 0 {
		binCount = s.Layers[0].NBins()
	}
	seriesCount := len(s.Layers)
	if s.Overlay != nil {
		seriesCount++
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
	INSERT INTO runs (id, created_at, source_file, granularity, start_year, series_count, bin_count)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, createdAt, sourceFile, granularity, startYear, seriesCount, binCount)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	hists := make([]*histogram.Histogram, 0, seriesCount)
	hists = append(hists, s.Layers...)
	if s.Overlay != nil {
		hists = append(hists, s.Overlay)
	}

	for pos, h := range hists {
		stacked := 1
		if h == s.Overlay {
			stacked = 0
		}
		_, err = tx.Exec(`
		INSERT INTO histograms (run_id, name, title, total, stacked, position)
		VALUES (?, ?, ?, ?, ?, ?)
		`, id, h.Name, h.Title, h.Integral(), stacked, pos)
		if err != nil {
			return "", fmt.Errorf("inserting histogram %s: %w", h.Name, err)
		}

		for i, v := range h.Bins {
			_, err = tx.Exec(`
			INSERT INTO bins (run_id, name, bin_index, t_start, t_end, value)
			VALUES (?, ?, ?, ?, ?, ?)
			`, id, h.Name, i, h.Edges[i], h.Edges[i+1], v)
			if err != nil {
				return "", fmt.Errorf("inserting bins for %s: %w", h.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}

	return id, nil
}

// ListRuns retrieves all archived runs, newest first
func (a *Archive) ListRuns() ([]Run, error) {
	rows, err := a.conn.Query(`
	SELECT id, created_at, source_file, granularity, start_year, series_count, bin_count
	FROM runs
	ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var results []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, *run)
	}

	return results, rows.Err()
}

// LatestRun retrieves the most recent archived run, or nil when the archive
// is empty
func (a *Archive) LatestRun() (*Run, error) {
	row := a.conn.QueryRow(`
	SELECT id, created_at, source_file, granularity, start_year, series_count, bin_count
	FROM runs
	ORDER BY created_at DESC
	LIMIT 1
	`)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func scanRun(scan func(...any) error) (*Run, error) {
	var run Run
	var createdAt string

	if err := scan(&run.ID, &createdAt, &run.SourceFile, &run.Granularity,
		&run.StartYear, &run.SeriesCount, &run.BinCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	run.CreatedAt = t

	return &run, nil
}

// ListHistograms retrieves the histograms of a run in stacking order
func (a *Archive) ListHistograms(runID string) ([]SeriesInfo, error) {
	rows, err := a.conn.Query(`
	SELECT name, title, total, stacked, position
	FROM histograms
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying histograms: %w", err)
	}
	defer rows.Close()

	var results []SeriesInfo
	for rows.Next() {
		var info SeriesInfo
		var stacked int
		if err := rows.Scan(&info.Name, &info.Title, &info.Total, &stacked, &info.Position); err != nil {
			return nil, fmt.Errorf("scanning histogram: %w", err)
		}
		info.Stacked = stacked != 0
		results = append(results, info)
	}

	return results, rows.Err()
}

// LoadSeries retrieves the buckets of one series of a run, in time order
func (a *Archive) LoadSeries(runID, name string) ([]models.Bin, error) {
	rows, err := a.conn.Query(`
	SELECT bin_index, t_start, t_end, value
	FROM bins
	WHERE run_id = ? AND name = ?
	ORDER BY bin_index
	`, runID, name)
	if err != nil {
		return nil, fmt.Errorf("querying bins: %w", err)
	}
	defer rows.Close()

	var results []models.Bin
	for rows.Next() {
		var b models.Bin
		if err := rows.Scan(&b.Index, &b.Start, &b.End, &b.Value); err != nil {
			return nil, fmt.Errorf("scanning bin: %w", err)
		}
		results = append(results, b)
	}

	return results, rows.Err()
}
