// Package paper serves the /api/papers resource.
package paper

import (
	"errors"

	"paperpulse/internal/entity"
)

var (
	// ErrNotFound is returned when no paper has the requested id.
	ErrNotFound = errors.New("paper not found")
	// ErrAuthorNotFound is returned when a paper references an unknown author.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrDuplicateDOI is returned by repositories when the DOI is taken.
	ErrDuplicateDOI = errors.New("paper with this doi already exists")
)

type (
	Paper  = entity.Paper
	Create = entity.PaperCreate
)
