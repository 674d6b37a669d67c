package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const usage = `usage: migration [-db path] <command> [arg]

commands:
  up             apply every pending migration
  down [n]       roll back n migrations (default 1)
  version        print the applied version and dirty flag
  force <v>      set the version without running migrations (-1 clears it)
  goto <v>       migrate up or down to version v

The database defaults to CACHE_SQLITE_PATH, then ` + cache.DefaultSQLitePath + `.
`

var errUsage = errors.New("invalid usage")

// Manages the SQLite cache schema. The API applies pending migrations on its
// own at startup; this tool covers rollback, inspection and repair.
func main() {
	_ = godotenv.Load()

	logger := logging.New(logging.Options{Format: logging.FormatConsole, Level: logging.LevelInfo, Output: os.Stderr})
	defer func() { _ = logger.Sync() }()

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, logger *logging.Logger) error {
	fs := flag.NewFlagSet("migration", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("db", defaultDBPath(), "sqlite cache path")
	if err := fs.Parse(args); err != nil {
		return errors.Mark(err, errUsage)
	}
	if fs.NArg() == 0 {
		return errUsage
	}
	command := strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	rest := fs.Args()[1:]

	db, err := sql.Open("sqlite3", *path)
	if err != nil {
		return errors.Wrapf(err, "open sqlite cache %s", *path)
	}
	m, err := cache.NewSQLiteMigrator(db)
	if err != nil {
		_ = db.Close()
		return errors.Wrap(err, "create migrator")
	}
	defer closeMigrator(m, logger)

	log := logger.With("db", *path, "command", command)
	switch command {
	case "up":
		return report(log, m.Up(), "migrations applied")
	case "down":
		steps, err := parseSteps(rest)
		if err != nil {
			return err
		}
		return report(log.With("steps", steps), m.Steps(-steps), "migrations rolled back")
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			_, err = fmt.Fprintln(out, "version: none\ndirty: false")
			return err
		}
		if err != nil {
			return errors.Wrap(err, "read version")
		}
		_, err = fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
		return err
	case "force":
		if len(rest) == 0 {
			return errors.Mark(errors.New("force requires a version argument"), errUsage)
		}
		version, err := parseVersion(rest[0])
		if err != nil {
			return err
		}
		if err := m.Force(version); err != nil {
			return errors.Wrapf(err, "force version %d", version)
		}
		log.Info("version forced", "version", version)
		return nil
	case "goto", "migrate":
		if len(rest) == 0 {
			return errors.Mark(errors.New("goto requires a target version argument"), errUsage)
		}
		target, err := parseTarget(rest[0])
		if err != nil {
			return err
		}
		return report(log.With("target", target), m.Migrate(target), "migrated")
	default:
		return errors.Mark(errors.Newf("unknown command %q", command), errUsage)
	}
}

func defaultDBPath() string {
	if path := strings.TrimSpace(os.Getenv("CACHE_SQLITE_PATH")); path != "" {
		return path
	}
	return cache.DefaultSQLitePath
}

// report treats ErrNoChange as success.
func report(logger *logging.Logger, err error, done string) error {
	switch {
	case err == nil:
		logger.Info(done)
		return nil
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("no migration changes")
		return nil
	default:
		return err
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid down steps %q", args[0])
	}
	if steps <= 0 {
		return 0, errors.New("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid version %q", raw)
	}
	if value < -1 {
		return 0, errors.New("version must be >= -1")
	}
	return value, nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid target version %q", raw)
	}
	return uint(value), nil
}

func closeMigrator(m *migrate.Migrate, logger *logging.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db", "error", dbErr)
	}
}
