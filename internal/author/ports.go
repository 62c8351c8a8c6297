package author

import "context"

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=author

// Repository defines the contract for author storage.
type Repository interface {
	List(ctx context.Context) ([]Author, error)
	GetByID(ctx context.Context, id int) (Author, error)
	GetByEmail(ctx context.Context, email string) (Author, error)
	Create(ctx context.Context, in Create) (Author, error)
}
