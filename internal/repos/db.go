package repos

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

//go:embed migrations
var migrations embed.FS

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// OpenDB connects, enables SQLite foreign keys and applies the embedded
// migrations for the driver.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverSQLite && driver != DriverPgx {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// :memory: databases and the foreign_keys pragma live on one connection.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if driver == DriverSQLite {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateUp(db, driver, dsn); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrateUp(db *sqlx.DB, driver, dsn string) error {
	src, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return err
	}

	var (
		target   database.Driver
		ownsConn bool
	)
	switch driver {
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	case DriverPgx:
		// The pgx migrator pins a connection and closes its handle when done,
		// so it gets one of its own.
		own, oerr := sql.Open(driver, dsn)
		if oerr != nil {
			_ = src.Close()
			return oerr
		}
		target, err = migratepgx.WithInstance(own, &migratepgx.Config{})
		if err != nil {
			_ = own.Close()
		}
		ownsConn = true
	}
	if err != nil {
		_ = src.Close()
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		_ = src.Close()
		return err
	}
	if ownsConn {
		defer m.Close()
	} else {
		defer src.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
