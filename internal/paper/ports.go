package paper

import (
	"context"

	"paperpulse/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=paper

// Repository defines the contract for paper storage.
type Repository interface {
	List(ctx context.Context) ([]Paper, error)
	GetByID(ctx context.Context, id int) (Paper, error)
	GetByDOI(ctx context.Context, doi string) (Paper, error)
	Create(ctx context.Context, in Create) (Paper, error)
}

// AuthorGetter resolves the author a paper points to.
type AuthorGetter interface {
	Get(ctx context.Context, id int) (entity.Author, error)
}
