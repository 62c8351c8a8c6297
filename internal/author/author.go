// Package author serves the /api/authors resource.
package author

import (
	"errors"

	"paperpulse/internal/entity"
)

var (
	// ErrNotFound is returned when no author has the requested id.
	ErrNotFound = errors.New("author not found")
	// ErrAlreadyExists is returned when the email is already registered.
	ErrAlreadyExists = errors.New("author with this email already exists")
)

type (
	Author = entity.Author
	Create = entity.AuthorCreate
)
