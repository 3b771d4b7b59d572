package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MimeLyc/subtitle-burner/internal/merge"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore keeps the history of batch runs and their per-video
// results.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	// Bootstrap schema_migrations table so we can track applied versions.
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		content, err := migrationFiles.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

// SaveReport records a completed batch run with its per-video results
// in one transaction and returns the run id.
func (s *SQLiteStore) SaveReport(ctx context.Context, run BatchRun, results []merge.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO batch_runs (
			root_dir, lang_tag, quality_tier, dry_run, success_count, total_count, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RootDir,
		run.LangTag,
		run.QualityTier,
		boolToInt(run.DryRun),
		run.SuccessCount,
		run.TotalCount,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	for _, result := range results {
		errMsg := ""
		if result.Err != nil {
			errMsg = result.Err.Error()
		}
		if _, err = tx.ExecContext(
			ctx,
			`INSERT INTO merge_results (
				batch_id, video_name, subtitle_lang, success, output_path, file_size, error, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			batchID,
			result.VideoName,
			result.SubtitleLang,
			boolToInt(result.Success),
			result.OutputPath,
			result.FileSizeBytes,
			errMsg,
			now,
		); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return batchID, nil
}

// LoadRuns returns the most recent batch runs, newest first.
func (s *SQLiteStore) LoadRuns(ctx context.Context, limit int) ([]BatchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, root_dir, lang_tag, quality_tier, dry_run, success_count, total_count, started_at, finished_at
		 FROM batch_runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]BatchRun, 0)
	for rows.Next() {
		var run BatchRun
		var dryRun int
		if err := rows.Scan(
			&run.ID,
			&run.RootDir,
			&run.LangTag,
			&run.QualityTier,
			&dryRun,
			&run.SuccessCount,
			&run.TotalCount,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, err
		}
		run.DryRun = dryRun == 1
		ret = append(ret, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// LoadResults returns the ordered per-video records of one batch run.
func (s *SQLiteStore) LoadResults(ctx context.Context, batchID int64) ([]MergeRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, batch_id, video_name, subtitle_lang, success, output_path, file_size, error, created_at
		 FROM merge_results
		 WHERE batch_id = ?
		 ORDER BY id ASC`,
		batchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]MergeRecord, 0)
	for rows.Next() {
		var record MergeRecord
		var success int
		if err := rows.Scan(
			&record.ID,
			&record.BatchID,
			&record.VideoName,
			&record.SubtitleLang,
			&success,
			&record.OutputPath,
			&record.FileSizeBytes,
			&record.Error,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		record.Success = success == 1
		ret = append(ret, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
