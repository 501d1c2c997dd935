package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db     *sql.DB
	logger logger.Logger
	cfg    Config
	mu     sync.Mutex
	closed bool
}

// Compile-time guard.
var _ Store = (*repository)(nil)

// Open opens (creating if necessary) the settings database described by cfg
func Open(cfg Config, log logger.Logger) (Store, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(filepath.Dir(cfg.DBPath), "backups")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	// Open database with specific pragmas for better performance and safety
	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	// Validate if schema is current, with backup if needed
	if err := ValidateAndUpdateSchema(db, cfg.BackupDir, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Debug().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Settings store opened")

	return &repository{
		db:     db,
		logger: log,
		cfg:    cfg,
	}, nil
}

func (r *repository) GetFields(ctx context.Context, names []string) ([]Field, error) {
	errFactory := errors.New()

	if len(names) == 0 {
		return []Field{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, len(names))
	for i, name := range names {
		args[i] = name
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT name, value FROM settings WHERE name IN ("+placeholders+")", args...)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	values := make(map[string]json.RawMessage, len(names))
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		values[name] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	fields := make([]Field, 0, len(values))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		value, ok := values[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, Field{Name: name, Value: value})
	}

	return fields, nil
}

func (r *repository) Set(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.New().Wrap(ErrInvalidValue, err)
	}

	return r.SetRaw(ctx, name, raw)
}

func (r *repository) SetRaw(ctx context.Context, name string, value json.RawMessage) error {
	errFactory := errors.New()

	if strings.TrimSpace(name) == "" {
		return errFactory.New(ErrInvalidName)
	}
	if !json.Valid(value) {
		return errFactory.WithData(ErrInvalidValue, name)
	}

	if _, err := r.db.ExecContext(ctx, upsertSettingSQL, name, string(value)); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	r.logger.Debug().Str("name", name).Msg("Setting stored")

	return nil
}

func (r *repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	// Checkpoint WAL and cleanup on close
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.logger.Debug().Err(err).Msg("Failed to checkpoint WAL")
	}

	if err := r.db.Close(); err != nil {
		return errors.New().WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	return nil
}
