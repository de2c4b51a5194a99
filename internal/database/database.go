package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// sqliteDriverName is go-sqlite3 with a Unicode-aware LOWER, so case
// folding in queries agrees with PostgreSQL.
const sqliteDriverName = "sqlite3_apotek"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
	sqlx.BindDriver(sqliteDriverName, sqlx.QUESTION)
}

type DB struct {
	*sqlx.DB
}

// New opens the database for driver, verifies the connection and makes sure
// the schema exists.
func New(driver, dsn string) (*DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	driverName := driver
	if driver == DriverSQLite {
		driverName = sqliteDriverName
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	d := &DB{db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return d, nil
}

func (d *DB) migrate() error {
	migrations := sqliteSchema
	if d.DriverName() == DriverPostgres {
		migrations = postgresSchema
	}

	for _, m := range migrations {
		if _, err := d.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS obat (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nama TEXT NOT NULL,
		kategori TEXT NOT NULL,
		stok INTEGER NOT NULL DEFAULT 0 CHECK (stok >= 0),
		harga REAL NOT NULL DEFAULT 0 CHECK (harga >= 0),
		tanggal_kadaluarsa DATE
	)`,
	`CREATE TABLE IF NOT EXISTS riwayat (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		aksi TEXT NOT NULL,
		deskripsi TEXT NOT NULL DEFAULT '',
		waktu DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_obat_kategori ON obat(kategori)`,
	`CREATE INDEX IF NOT EXISTS idx_riwayat_waktu ON riwayat(waktu)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS obat (
		id SERIAL PRIMARY KEY,
		nama VARCHAR(255) NOT NULL,
		kategori VARCHAR(100) NOT NULL,
		stok INTEGER NOT NULL DEFAULT 0 CHECK (stok >= 0),
		harga NUMERIC(12, 2) NOT NULL DEFAULT 0 CHECK (harga >= 0),
		tanggal_kadaluarsa DATE
	)`,
	`CREATE TABLE IF NOT EXISTS riwayat (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		aksi VARCHAR(50) NOT NULL,
		deskripsi TEXT NOT NULL DEFAULT '',
		waktu TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_obat_kategori ON obat(kategori)`,
	`CREATE INDEX IF NOT EXISTS idx_riwayat_waktu ON riwayat(waktu)`,
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// either supported driver.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
