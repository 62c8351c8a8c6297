package author

import (
	"context"
	"errors"
	"strings"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every author ordered by id.
func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (Author, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers a new author. Emails are unique; a second author with
// the same address yields ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, in Create) (Author, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	_, err := s.repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return Author{}, ErrAlreadyExists
	case !errors.Is(err, ErrNotFound):
		return Author{}, err
	}
	return s.repo.Create(ctx, in)
}
