package store

import (
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/Rajangupta9/taskmanager/errors"
)

// Dialect selects the SQL flavour of a SQLStore. Its value is also the
// database/sql driver name.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// Rebind rewrites ? placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}

// IsDuplicate reports whether err is a unique constraint violation.
func (d Dialect) IsDuplicate(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// Schema returns the statements that create the tables and indexes.
func (d Dialect) Schema() []string {
	if d == DialectMySQL {
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				username VARCHAR(255) NOT NULL UNIQUE,
				email VARCHAR(255) NOT NULL UNIQUE,
				password VARCHAR(255) NOT NULL,
				created_at DATETIME(3) NOT NULL,
				updated_at DATETIME(3) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				description VARCHAR(1000) NOT NULL DEFAULT '',
				due_date BIGINT NOT NULL,
				status VARCHAR(16) NOT NULL,
				user_id BIGINT NOT NULL,
				created_at DATETIME(3) NOT NULL,
				updated_at DATETIME(3) NOT NULL,
				INDEX tasks_user_due_idx (user_id, due_date),
				FOREIGN KEY (user_id) REFERENCES users(id)
			)`,
		}
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description VARCHAR(1000) NOT NULL DEFAULT '',
			due_date BIGINT NOT NULL,
			status VARCHAR(16) NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS tasks_user_due_idx ON tasks (user_id, due_date)`,
	}
}

// normalizeDSN applies the driver settings the store relies on.
func (d Dialect) normalizeDSN(dsn string) (string, error) {
	if d != DialectMySQL {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	// DATETIME columns scan into time.Time only with parseTime.
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
