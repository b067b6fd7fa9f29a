package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DriverFor maps a DATABASE_URL onto a registered driver name and DSN.
// "sqlite:" prefixed values and bare paths use SQLite; postgres URLs use pgx.
func DriverFor(databaseURL string) (driver, dsn string) {
	u := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, u
	case strings.HasPrefix(u, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(u, "sqlite://")
	case strings.HasPrefix(u, "sqlite:"):
		return DriverSQLite, strings.TrimPrefix(u, "sqlite:")
	default:
		return DriverSQLite, u
	}
}

// Open connects to the database named by databaseURL and verifies the connection.
func Open(databaseURL string) (*sql.DB, string, error) {
	driver, dsn := DriverFor(databaseURL)
	if dsn == "" {
		return nil, "", fmt.Errorf("openDB: empty database url")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("openDB: open %s database: %w", driver, err)
	}

	if driver == DriverPostgres {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// SQLite serializes writers; one connection also keeps :memory: databases shared.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("openDB: verify %s connection: %w", driver, err)
	}

	return db, driver, nil
}

// Rebind rewrites ? placeholders to $n for postgres. Queries must not contain
// literal question marks.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
