package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/gobangs/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// Compile-time check that SQLiteStorage implements Storage.
var _ Storage = (*SQLiteStorage)(nil)

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode so the watcher can read while a fetch writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage opens (creating if needed) the store at dbPath and brings
// its schema up to date
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// ImportSource stores source and replaces its bangs in one transaction.
// On return source carries its ID and the number of stored bangs.
func (s *SQLiteStorage) ImportSource(ctx context.Context, source *Source, bangs []types.Bang) (err error) {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.UpsertSource(ctx, source); err != nil {
		return err
	}

	count, err := tx.ReplaceBangs(ctx, source.ID, bangs)
	if err != nil {
		return err
	}
	source.RecordCount = count

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Source operations

func upsertSource(ctx context.Context, q querier, source *Source) error {
	query := `
		INSERT INTO sources (name, url, content_hash, record_count, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			url = excluded.url,
			content_hash = excluded.content_hash,
			record_count = excluded.record_count,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	var fetchedAt sql.NullTime
	if !source.FetchedAt.IsZero() {
		fetchedAt = sql.NullTime{Time: source.FetchedAt, Valid: true}
	}

	err := q.QueryRowContext(ctx, query,
		source.Name, source.URL, source.ContentHash[:], source.RecordCount,
		fetchedAt, now, now).Scan(&source.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	source.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertSource(ctx context.Context, source *Source) error {
	return upsertSource(ctx, s.querier(), source)
}

const sourceColumns = `id, name, url, content_hash, record_count, fetched_at, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSource(row rowScanner) (*Source, error) {
	var source Source
	var url sql.NullString
	var hash []byte
	var fetchedAt sql.NullTime

	err := row.Scan(&source.ID, &source.Name, &url, &hash, &source.RecordCount,
		&fetchedAt, &source.CreatedAt, &source.UpdatedAt)
	if err != nil {
		return nil, err
	}

	source.URL = url.String
	copy(source.ContentHash[:], hash)
	if fetchedAt.Valid {
		source.FetchedAt = fetchedAt.Time
	}
	return &source, nil
}

func getSource(ctx context.Context, q querier, name string) (*Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE name = ?`
	source, err := scanSource(q.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source %s: %w", name, err)
	}
	return source, nil
}

func (s *SQLiteStorage) GetSource(ctx context.Context, name string) (*Source, error) {
	return getSource(ctx, s.querier(), name)
}

func listSources(ctx context.Context, q querier) ([]*Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources ORDER BY name`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (s *SQLiteStorage) ListSources(ctx context.Context) ([]*Source, error) {
	return listSources(ctx, s.querier())
}

func deleteSource(ctx context.Context, q querier, name string) error {
	result, err := q.ExecContext(ctx, "DELETE FROM sources WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteSource(ctx context.Context, name string) error {
	return deleteSource(ctx, s.querier(), name)
}

// Bang operations

// replaceBangs drops every bang of the source and inserts bangs in order.
// A repeated trigger overwrites the earlier record but keeps its position.
func replaceBangs(ctx context.Context, q querier, sourceID int64, bangs []types.Bang) (int, error) {
	if _, err := q.ExecContext(ctx, "DELETE FROM bangs WHERE source_id = ?", sourceID); err != nil {
		return 0, fmt.Errorf("failed to clear bangs: %w", err)
	}

	query := `
		INSERT INTO bangs (source_id, ordinal, shortcut, url, name, domain, category, subcategory, relevance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, shortcut) DO UPDATE SET
			url = excluded.url,
			name = excluded.name,
			domain = excluded.domain,
			category = excluded.category,
			subcategory = excluded.subcategory,
			relevance = excluded.relevance
	`
	for i := range bangs {
		b := &bangs[i]
		_, err := q.ExecContext(ctx, query,
			sourceID, i, b.Trigger, b.URL, b.Name, b.Domain,
			b.Category, b.Subcategory, b.Relevance)
		if err != nil {
			return 0, fmt.Errorf("failed to insert bang %q: %w", b.Trigger, err)
		}
	}

	count, err := countBangs(ctx, q, sourceID)
	if err != nil {
		return 0, err
	}

	_, err = q.ExecContext(ctx, "UPDATE sources SET record_count = ?, updated_at = ? WHERE id = ?",
		count, time.Now(), sourceID)
	if err != nil {
		return 0, fmt.Errorf("failed to update record count: %w", err)
	}

	return count, nil
}

func (s *SQLiteStorage) ReplaceBangs(ctx context.Context, sourceID int64, bangs []types.Bang) (int, error) {
	return replaceBangs(ctx, s.querier(), sourceID, bangs)
}

func listBangs(ctx context.Context, q querier, source string) ([]types.Bang, error) {
	if _, err := getSource(ctx, q, source); err != nil {
		return nil, err
	}

	query := `
		SELECT b.shortcut, b.url, b.name, b.domain, b.category, b.subcategory, b.relevance
		FROM bangs b
		JOIN sources s ON b.source_id = s.id
		WHERE s.name = ?
		ORDER BY b.ordinal
	`
	rows, err := q.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to list bangs: %w", err)
	}
	defer rows.Close()

	var bangs []types.Bang
	for rows.Next() {
		var b types.Bang
		var name, domain, category, subcategory sql.NullString
		if err := rows.Scan(&b.Trigger, &b.URL, &name, &domain, &category, &subcategory, &b.Relevance); err != nil {
			return nil, err
		}
		b.Name = name.String
		b.Domain = domain.String
		b.Category = category.String
		b.Subcategory = subcategory.String
		bangs = append(bangs, b)
	}
	return bangs, rows.Err()
}

func (s *SQLiteStorage) ListBangs(ctx context.Context, source string) ([]types.Bang, error) {
	return listBangs(ctx, s.querier(), source)
}

func countBangs(ctx context.Context, q querier, sourceID int64) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM bangs WHERE source_id = ?", sourceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bangs: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) CountBangs(ctx context.Context, sourceID int64) (int, error) {
	return countBangs(ctx, s.querier(), sourceID)
}

// Status operations

func getStatus(ctx context.Context, q querier) (*Status, error) {
	version, err := SchemaVersion(ctx, q)
	if err != nil {
		return nil, err
	}

	sources, err := listSources(ctx, q)
	if err != nil {
		return nil, err
	}

	status := &Status{
		SchemaVersion: version.String(),
		BuildMode:     BuildMode,
		Sources:       sources,
	}

	for _, src := range sources {
		if src.FetchedAt.After(status.LastFetchedAt) {
			status.LastFetchedAt = src.FetchedAt
		}
	}

	err = q.QueryRowContext(ctx, "SELECT COUNT(*) FROM bangs").Scan(&status.BangsCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count bangs: %w", err)
	}

	var pageCount, pageSize int
	if err := q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.SizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	return getStatus(ctx, s.querier())
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) UpsertSource(ctx context.Context, source *Source) error {
	return upsertSource(ctx, t.tx, source)
}

func (t *sqliteTx) GetSource(ctx context.Context, name string) (*Source, error) {
	return getSource(ctx, t.tx, name)
}

func (t *sqliteTx) ListSources(ctx context.Context) ([]*Source, error) {
	return listSources(ctx, t.tx)
}

func (t *sqliteTx) DeleteSource(ctx context.Context, name string) error {
	return deleteSource(ctx, t.tx, name)
}

func (t *sqliteTx) ReplaceBangs(ctx context.Context, sourceID int64, bangs []types.Bang) (int, error) {
	return replaceBangs(ctx, t.tx, sourceID, bangs)
}

func (t *sqliteTx) ListBangs(ctx context.Context, source string) ([]types.Bang, error) {
	return listBangs(ctx, t.tx, source)
}

func (t *sqliteTx) CountBangs(ctx context.Context, sourceID int64) (int, error) {
	return countBangs(ctx, t.tx, sourceID)
}

func (t *sqliteTx) GetStatus(ctx context.Context) (*Status, error) {
	return getStatus(ctx, t.tx)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
