// Package postgres holds the connection and error helpers shared by the
// Postgres repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNoRows       = errors.New("no rows in result set")
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
	ErrForeignKey   = errors.New("foreign key violation")
)

// Translate maps driver errors to the sentinels above, keeping the original
// error in the chain. Other errors are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNoRows, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w (%s): %w", ErrDuplicateKey, pgErr.ConstraintName, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w (%s): %w", ErrForeignKey, pgErr.ConstraintName, err)
		}
	}
	return err
}

// Open creates a pool and pings it within timeout.
func Open(ctx context.Context, dsn string, timeout time.Duration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", RedactDSN(dsn), err)
	}
	return pool, nil
}

// passwordParam matches a password in keyword/value DSNs and in URL query
// strings. Quoted values may contain escaped quotes.
var passwordParam = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|[^\s&]*)`)

// RedactDSN hides the password of a URL or keyword/value DSN.
func RedactDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		if u, err := url.Parse(dsn); err == nil {
			dsn = u.Redacted()
		}
	}
	return passwordParam.ReplaceAllString(dsn, "${1}xxxxx")
}
