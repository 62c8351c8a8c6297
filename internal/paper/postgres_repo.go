package paper

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

func (r *PostgresRepo) List(ctx context.Context) ([]Paper, error) {
	const query = `SELECT id, title, doi, author_id, abstract FROM papers ORDER BY id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Paper])
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Paper{}
	}
	return out, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int) (Paper, error) {
	const query = `SELECT id, title, doi, author_id, abstract FROM papers WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepo) GetByDOI(ctx context.Context, doi string) (Paper, error) {
	const query = `SELECT id, title, doi, author_id, abstract FROM papers WHERE doi = $1`
	return r.getOne(ctx, query, doi)
}

func (r *PostgresRepo) Create(ctx context.Context, in Create) (Paper, error) {
	const query = `
		INSERT INTO papers (title, doi, author_id, abstract)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, doi, author_id, abstract`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, in.Title, in.DOI, in.AuthorID, in.Abstract)
	if err == nil {
		var p Paper
		if p, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Paper]); err == nil {
			return p, nil
		}
	}
	err = postgres.Translate(err)
	switch {
	case errors.Is(err, postgres.ErrDuplicateKey):
		return Paper{}, ErrDuplicateDOI
	case errors.Is(err, postgres.ErrForeignKey):
		return Paper{}, ErrAuthorNotFound
	}
	return Paper{}, err
}

func (r *PostgresRepo) getOne(ctx context.Context, query string, arg any) (Paper, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var p Paper
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(&p.ID, &p.Title, &p.DOI, &p.AuthorID, &p.Abstract)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Paper{}, ErrNotFound
		}
		return Paper{}, err
	}
	return p, nil
}
