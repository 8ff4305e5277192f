package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // driver: sqlite
)

//go:embed migrations/*.sql
var migrations embed.FS

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

func (d Driver) sqlName() (string, error) {
	switch d {
	case DriverSQLite:
		return "sqlite", nil // modernc driver
	case DriverPostgres:
		return "pgx", nil // pgx stdlib driver
	default:
		return "", errors.Errorf("unsupported driver: %s", d)
	}
}

// DefaultDSN is used when no DSN is configured.
func (d Driver) DefaultDSN() string {
	switch d {
	case DriverPostgres:
		return "postgres://localhost:5432/commscore?sslmode=disable"
	default:
		return "file:commscore.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}
}

// Open opens a DB and applies pending migrations.
func Open(ctx context.Context, driver Driver, dsn string) (*sqlx.DB, error) {
	name, err := driver.sqlName()
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		dsn = driver.DefaultDSN()
	}

	if err := Migrate(ctx, driver, dsn); err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, name, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "connect %s", driver)
	}
	return db, nil
}

// Migrate applies the embedded migrations on a dedicated connection, since
// closing a migrate instance closes the database it was given.
func Migrate(ctx context.Context, driver Driver, dsn string) error {
	name, err := driver.sqlName()
	if err != nil {
		return err
	}
	conn, err := sql.Open(name, dsn)
	if err != nil {
		return err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return errors.Wrapf(err, "ping %s", driver)
	}

	var target database.Driver
	switch driver {
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	case DriverPostgres:
		target, err = migratepgx.WithInstance(conn, &migratepgx.Config{})
	}
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "migrate driver")
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		target.Close()
		return errors.Wrap(err, "iofs")
	}
	m, err := migrate.NewWithInstance("iofs", src, string(driver), target)
	if err != nil {
		target.Close()
		return errors.Wrap(err, "migrate new")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate up")
	}
	return nil
}
