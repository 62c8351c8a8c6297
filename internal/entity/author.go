package entity

// Author is a researcher as returned by the catalog API.
type Author struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Bio   *string `json:"bio"`
}

// AuthorCreate is the subset of Author fields accepted on creation.
type AuthorCreate struct {
	Name  string  `json:"name" validate:"required,notblank,max=100"`
	Email string  `json:"email" validate:"required,email,max=120"`
	Bio   *string `json:"bio,omitempty"`
}

// Clone returns a copy that shares no memory with a.
func (a Author) Clone() Author {
	if a.Bio != nil {
		bio := *a.Bio
		a.Bio = &bio
	}
	return a
}
