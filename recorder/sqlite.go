package recorder

import (
	"database/sql"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// SQLiteRecorder persists runs and their sample predictions to SQLite.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger log.Logger
}

// NewSQLiteRecorder opens (or creates) the database at dbPath and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", dbPath)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}

	r := &SQLiteRecorder{
		db:     db,
		logger: log.GetLogger().With(log.ComponentKey, "recorder"),
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	r.logger.Info("SQLite recorder opened", log.PathKey, dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			data_path   TEXT,
			seed        INTEGER,
			trainer     TEXT,
			total_rows  INTEGER,
			train_rows  INTEGER,
			test_rows   INTEGER,
			mae         REAL,
			mse         REAL,
			rmse        REAL,
			r2          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			sample_index    INTEGER NOT NULL,
			open            REAL,
			high            REAL,
			low             REAL,
			volume          REAL,
			predicted_close REAL,
			actual_close    REAL,
			difference      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_run ON predictions(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return errors.Wrapf(err, "exec %q", stmtLabel(s))
		}
	}
	return nil
}

// stmtLabel shortens a migration statement for an error message.
func stmtLabel(stmt string) string {
	return stmt[:min(40, len(stmt))]
}

// RecordRun inserts the run and its predictions in one transaction. A
// missing ID is filled with a random UUID; a missing StartedAt with now.
func (r *SQLiteRecorder) RecordRun(run *Run) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	m := run.Metrics
	_, err = tx.Exec(`INSERT INTO runs
		(id, started_at, data_path, seed, trainer, total_rows, train_rows, test_rows, mae, mse, rmse, r2)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.DataPath, run.Seed, run.Trainer,
		run.TotalRows, run.TrainRows, run.TestRows,
		m.MAE, m.MSE, m.RMSE, nullable(m.R2),
	)
	if err != nil {
		return "", errors.Wrap(err, "insert run")
	}

	for i, p := range run.Predictions {
		_, err = tx.Exec(`INSERT INTO predictions
			(run_id, sample_index, open, high, low, volume, predicted_close, actual_close, difference)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			run.ID, i,
			nullable(p.Sample.Open), nullable(p.Sample.High), nullable(p.Sample.Low), nullable(p.Sample.Volume),
			p.PredictedClose, actualOrNull(p.HasActual, p.Actual), actualOrNull(p.HasActual, p.Difference),
		)
		if err != nil {
			return "", errors.Wrapf(err, "insert prediction %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "commit")
	}

	r.logger.Info("Run recorded",
		log.RunIDKey, run.ID,
		log.SamplesKey, len(run.Predictions),
	)
	return run.ID, nil
}

// RunSummary is a stored run as read back by Runs.
type RunSummary struct {
	ID          string
	StartedAt   time.Time
	Trainer     string
	Seed        int64
	MAE         float64
	RMSE        float64
	R2          float64
	Predictions int
}

// Runs returns stored runs, most recent first.
func (r *SQLiteRecorder) Runs() ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT r.id, r.started_at, r.trainer, r.seed, r.mae, r.rmse, r.r2,
			(SELECT COUNT(*) FROM predictions p WHERE p.run_id = r.id)
		FROM runs r ORDER BY r.started_at DESC, r.rowid DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var started int64
		var r2 sql.NullFloat64
		if err := rows.Scan(&s.ID, &started, &s.Trainer, &s.Seed, &s.MAE, &s.RMSE, &r2, &s.Predictions); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		s.StartedAt = time.Unix(started, 0)
		s.R2 = math.NaN()
		if r2.Valid {
			s.R2 = r2.Float64
		}
		out = append(out, s)
	}
	return out, errors.Wrap(rows.Err(), "iterate runs")
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("Closing SQLite recorder")
	return r.db.Close()
}

func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

func actualOrNull(ok bool, v float64) sql.NullFloat64 {
	if !ok {
		return sql.NullFloat64{}
	}
	return nullable(v)
}
