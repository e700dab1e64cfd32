package state

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/retry"
)

// SQLiteStore persists documents and runs in SQLite.
type SQLiteStore struct {
	db    *sql.DB
	mu    sync.RWMutex
	now   func() time.Time
	retry retry.Policy
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithRetryPolicy sets the backoff used when the database is locked by
// another process.
func WithRetryPolicy(p retry.Policy) Option {
	return func(s *SQLiteStore) { s.retry = p }
}

// Open opens (creating if needed) a store at dbPath.
// Use ":memory:" for an in-memory database.
func Open(dbPath string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeErr(err, "open sqlite database")
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now, retry: retry.DefaultPolicy()}
	for _, o := range opts {
		o(store)
	}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, storeErr(err, "initialize schema")
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		source_fingerprint TEXT NOT NULL,
		output_fingerprint TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		package TEXT NOT NULL DEFAULT '',
		scope TEXT NOT NULL DEFAULT '',
		complexity TEXT NOT NULL DEFAULT '',
		tokens INTEGER NOT NULL DEFAULT 0,
		frontmatter_status TEXT NOT NULL DEFAULT '',
		run_id TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		triggered_by TEXT NOT NULL DEFAULT '',
		revision TEXT NOT NULL DEFAULT '',
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL DEFAULT 0,
		documents INTEGER NOT NULL DEFAULT 0,
		optimized INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		tokens INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_start ON runs(start_time);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.migrate()
}

// migrate adds columns introduced after a database was created.
func (s *SQLiteStore) migrate() error {
	columns, err := s.columns("runs")
	if err != nil {
		return err
	}
	if !columns["revision"] {
		if _, err := s.db.Exec("ALTER TABLE runs ADD COLUMN revision TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
	}
	return nil
}

// columns returns the column names of table. The rows are closed before
// returning so the single connection is free for schema changes.
func (s *SQLiteStore) columns(table string) (map[string]bool, error) {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns := map[string]bool{}
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

const documentColumns = "path, source_fingerprint, output_fingerprint, title, package, scope, complexity, tokens, frontmatter_status, run_id, updated_at"

// Get returns the stored document for path. The boolean is false when none is stored.
func (s *SQLiteStore) Get(ctx context.Context, path string) (Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE path = ?", path)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, storeErr(err, "get document")
	}
	return doc, true, nil
}

// Upsert inserts or replaces a document. A zero UpdatedAt is set to now.
func (s *SQLiteStore) Upsert(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = s.now()
	}
	_, err := s.exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			source_fingerprint = excluded.source_fingerprint,
			output_fingerprint = excluded.output_fingerprint,
			title = excluded.title,
			package = excluded.package,
			scope = excluded.scope,
			complexity = excluded.complexity,
			tokens = excluded.tokens,
			frontmatter_status = excluded.frontmatter_status,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at`,
		doc.Path, doc.SourceFingerprint, doc.OutputFingerprint, doc.Title,
		doc.Package, doc.Scope, doc.Complexity, doc.Tokens, doc.FrontmatterStatus,
		doc.RunID, doc.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return storeErr(err, "upsert document")
	}
	return nil
}

// List returns all stored documents ordered by path.
func (s *SQLiteStore) List(ctx context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+documentColumns+" FROM documents ORDER BY path")
	if err != nil {
		return nil, storeErr(err, "query documents")
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, storeErr(err, "scan document")
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "iterate documents")
	}
	return docs, nil
}

// Delete removes the document for path. Deleting a missing path is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.exec(ctx, "DELETE FROM documents WHERE path = ?", path); err != nil {
		return storeErr(err, "delete document")
	}
	return nil
}

// Totals aggregates token and frontmatter counts over all documents.
func (s *SQLiteStore) Totals(ctx context.Context) (Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		t       Totals
		updated int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(tokens), 0),
			COALESCE(SUM(CASE WHEN frontmatter_status = 'malformed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN frontmatter_status = 'absent' THEN 1 ELSE 0 END), 0),
			COALESCE(MAX(updated_at), 0)
		FROM documents`).Scan(&t.Documents, &t.Tokens, &t.Malformed, &t.Absent, &updated)
	if err != nil {
		return Totals{}, storeErr(err, "aggregate documents")
	}
	if updated > 0 {
		t.LastUpdated = time.Unix(0, updated)
	}
	return t, nil
}

// BeginRun records a run as running.
func (s *SQLiteStore) BeginRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.Status == "" {
		run.Status = RunStatusRunning
	}
	if run.StartTime.IsZero() {
		run.StartTime = s.now()
	}
	_, err := s.exec(ctx,
		"INSERT INTO runs (id, status, triggered_by, revision, start_time) VALUES (?, ?, ?, ?, ?)",
		run.ID, string(run.Status), run.TriggeredBy, run.Revision, run.StartTime.UnixNano(),
	)
	if err != nil {
		return storeErr(err, "insert run")
	}
	return nil
}

// FinishRun stores the final counters and status of a run.
func (s *SQLiteStore) FinishRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.EndTime.IsZero() {
		run.EndTime = s.now()
	}
	res, err := s.exec(ctx, `
		UPDATE runs SET status = ?, end_time = ?, documents = ?, optimized = ?, skipped = ?, failed = ?, tokens = ?
		WHERE id = ?`,
		string(run.Status), run.EndTime.UnixNano(), run.Documents, run.Optimized, run.Skipped, run.Failed, run.Tokens, run.ID,
	)
	if err != nil {
		return storeErr(err, "update run")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return derrors.NotFoundError("run not found").WithContext("run_id", run.ID).Build()
	}
	return nil
}

// LastRun returns the most recently started run. The boolean is false when no run exists.
func (s *SQLiteStore) LastRun(ctx context.Context) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r          Run
		status     string
		start, end int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, status, triggered_by, revision, start_time, end_time, documents, optimized, skipped, failed, tokens
		FROM runs ORDER BY start_time DESC LIMIT 1`).
		Scan(&r.ID, &status, &r.TriggeredBy, &r.Revision, &start, &end, &r.Documents, &r.Optimized, &r.Skipped, &r.Failed, &r.Tokens)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, storeErr(err, "query last run")
	}
	r.Status = RunStatus(status)
	r.StartTime = time.Unix(0, start)
	if end > 0 {
		r.EndTime = time.Unix(0, end)
	}
	return r, true, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		d       Document
		updated int64
	)
	err := row.Scan(&d.Path, &d.SourceFingerprint, &d.OutputFingerprint, &d.Title,
		&d.Package, &d.Scope, &d.Complexity, &d.Tokens, &d.FrontmatterStatus, &d.RunID, &updated)
	if err != nil {
		return Document{}, err
	}
	d.UpdatedAt = time.Unix(0, updated)
	return d, nil
}

// exec runs a write statement, retrying while the database is busy.
func (s *SQLiteStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := s.retry.Do(ctx, isBusy, func() error {
		var err error
		res, err = s.db.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED.
func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

func storeErr(err error, message string) error {
	return derrors.WrapError(err, derrors.CategoryStore, message).Build()
}
