package author

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paperpulse/internal/platform/postgres"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Author, error) {
	const query = `SELECT id, name, email, bio FROM authors ORDER BY id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, scanAuthor)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Author{}
	}
	return out, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int) (Author, error) {
	const query = `SELECT id, name, email, bio FROM authors WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (Author, error) {
	const query = `SELECT id, name, email, bio FROM authors WHERE lower(email) = lower($1) LIMIT 1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepo) Create(ctx context.Context, in Create) (Author, error) {
	const query = `
		INSERT INTO authors (name, email, bio)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, bio`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, in.Name, in.Email, in.Bio)
	if err == nil {
		var a Author
		if a, err = pgx.CollectExactlyOneRow(rows, scanAuthor); err == nil {
			return a, nil
		}
	}
	if err = postgres.Translate(err); errors.Is(err, postgres.ErrDuplicateKey) {
		return Author{}, ErrAlreadyExists
	}
	return Author{}, err
}

func (r *PostgresRepo) getOne(ctx context.Context, query string, arg any) (Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a Author
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(&a.ID, &a.Name, &a.Email, &a.Bio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, err
	}
	return a, nil
}

func scanAuthor(row pgx.CollectableRow) (Author, error) {
	var a Author
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Bio)
	return a, err
}
