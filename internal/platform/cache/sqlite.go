package cache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const DefaultSQLitePath = "cache_api_sports.db"

const (
	selectEntryQuery = `
		SELECT key, stored_at_ns, payload
		FROM cache_entries
		WHERE key = ?`

	upsertEntryQuery = `
		INSERT INTO cache_entries (key, stored_at_ns, payload)
		VALUES (:key, :stored_at_ns, :payload)
		ON CONFLICT (key) DO UPDATE SET
			stored_at_ns = excluded.stored_at_ns,
			payload = excluded.payload`
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

type entryRow struct {
	Key        string `db:"key"`
	StoredAtNS int64  `db:"stored_at_ns"`
	Payload    []byte `db:"payload"`
}

// SQLiteBackend keeps one row per key in a local SQLite file.
type SQLiteBackend struct {
	db *sqlx.DB
}

// OpenSQLiteBackend opens (or creates) the database at path and applies the
// embedded schema migrations.
func OpenSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultSQLitePath
	}

	db, err := otelsqlx.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL",
		otelsql.WithAttributes(attribute.String("db.system", "sqlite")),
		otelsql.WithDBName(path),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open sqlite cache")
	}
	// go-sqlite3 serializes writers anyway; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping sqlite cache")
	}
	if err := MigrateSQLite(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteBackend{db: db}, nil
}

// NewSQLiteMigrator returns a migrator bound to db and the embedded schema.
// Closing the migrator closes db.
func NewSQLiteMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, crerr.Wrap(err, "load cache migrations")
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return nil, crerr.Wrap(err, "create sqlite migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, crerr.Wrap(err, "create migrator")
	}
	return m, nil
}

func MigrateSQLite(db *sql.DB) error {
	m, err := NewSQLiteMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return crerr.Wrap(err, "apply cache migrations")
	}
	return nil
}

func (b *SQLiteBackend) Load(ctx context.Context, key string) (Entry, error) {
	var row entryRow
	if err := b.db.GetContext(ctx, &row, selectEntryQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, crerr.Wrap(err, "select cache entry")
	}

	return Entry{
		Key:      row.Key,
		StoredAt: time.Unix(0, row.StoredAtNS),
		Payload:  row.Payload,
	}, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, entry Entry) error {
	if err := checkPayload(entry.Payload); err != nil {
		return crerr.Wrapf(err, "save %q", entry.Key)
	}
	_, err := b.db.NamedExecContext(ctx, upsertEntryQuery, entryRow{
		Key:        entry.Key,
		StoredAtNS: entry.StoredAt.UnixNano(),
		Payload:    entry.Payload,
	})
	if err != nil {
		return crerr.Wrap(err, "upsert cache entry")
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func formatQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
