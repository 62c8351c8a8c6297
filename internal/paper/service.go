package paper

import (
	"context"
	"errors"
	"strings"

	"paperpulse/internal/author"
)

// Service provides paper-related business logic.
type Service struct {
	repo    Repository
	authors AuthorGetter
}

func NewService(repo Repository, authors AuthorGetter) *Service {
	return &Service{repo: repo, authors: authors}
}

// List returns every paper ordered by id.
func (s *Service) List(ctx context.Context) ([]Paper, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (Paper, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a paper. Creation is idempotent on DOI: when the DOI is
// already catalogued the existing paper is returned with created=false.
func (s *Service) Create(ctx context.Context, in Create) (p Paper, created bool, err error) {
	in.Title = strings.TrimSpace(in.Title)
	in.DOI = strings.TrimSpace(in.DOI)

	if _, err := s.authors.Get(ctx, in.AuthorID); err != nil {
		if errors.Is(err, author.ErrNotFound) {
			return Paper{}, false, ErrAuthorNotFound
		}
		return Paper{}, false, err
	}

	existing, err := s.repo.GetByDOI(ctx, in.DOI)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return Paper{}, false, err
	}

	p, err = s.repo.Create(ctx, in)
	if errors.Is(err, ErrDuplicateDOI) {
		// lost a race with a concurrent create of the same DOI
		existing, err := s.repo.GetByDOI(ctx, in.DOI)
		return existing, false, err
	}
	if err != nil {
		return Paper{}, false, err
	}
	return p, true, nil
}
