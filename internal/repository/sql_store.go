package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"task-manager/internal/model"
)

// Driver names as registered with database/sql.
const (
	sqlDriverPostgres = "postgres"
	sqlDriverMySQL    = "mysql"
	sqlDriverSQLite   = "sqlite3"
)

var schemas = map[string][]string{
	sqlDriverPostgres: {
		`CREATE TABLE IF NOT EXISTS categories (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_category_id ON tasks(category_id)`,
	},
	sqlDriverMySQL: {
		`CREATE TABLE IF NOT EXISTS categories (
    id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
    name VARCHAR(255) NOT NULL,
    color VARCHAR(64) NOT NULL DEFAULT '',
    created_at DATETIME(6) NOT NULL,
    updated_at DATETIME(6) NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS tasks (
    id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    category_id BIGINT UNSIGNED NOT NULL,
    created_at DATETIME(6) NOT NULL,
    updated_at DATETIME(6) NOT NULL,
    INDEX idx_tasks_category_id (category_id),
    CONSTRAINT fk_tasks_category FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE RESTRICT
)`,
	},
	sqlDriverSQLite: {
		`CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_category_id ON tasks(category_id)`,
	},
}

// OpenSQL connects through database/sql with the given driver ("postgres" or
// "mysql"; "sqlite3" is accepted for local runs), creates the schema and seeds
// the default categories.
func OpenSQL(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if _, ok := schemas[driver]; !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	if driver == sqlDriverMySQL {
		// Timestamps are scanned into time.Time.
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSQL(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[info] connected to %s store", driver)
	return db, nil
}

func migrateSQL(ctx context.Context, db *sqlx.DB) error {
	for _, ddl := range schemas[db.DriverName()] {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("migrate db: %w", err)
		}
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM categories`); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	categories := NewSQLCategoryRepository(db)
	for _, def := range model.DefaultCategories {
		category := model.Category{Name: def.Name, Color: def.Color}
		if err := categories.Create(ctx, &category); err != nil {
			return fmt.Errorf("seed category %q: %w", def.Name, err)
		}
	}
	return nil
}

// insertID runs an INSERT and returns the generated id. lib/pq has no
// LastInsertId, so postgres uses RETURNING.
func insertID(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) (uint, error) {
	query = ext.Rebind(query)
	if ext.DriverName() == sqlDriverPostgres {
		var id uint
		if err := ext.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func sqlNotFound(entity string, id uint, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, model.ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", entity, err)
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
