package entity

// Paper is a publication as returned by the catalog API.
type Paper struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	DOI      string  `json:"doi"`
	AuthorID int     `json:"author_id"`
	Abstract *string `json:"abstract"`
}

// PaperCreate is the subset of Paper fields accepted on creation.
type PaperCreate struct {
	Title    string  `json:"title" validate:"required,notblank,max=255"`
	DOI      string  `json:"doi" validate:"required,notblank,max=100"`
	AuthorID int     `json:"author_id" validate:"required,gt=0"`
	Abstract *string `json:"abstract,omitempty"`
}

// Clone returns a copy that shares no memory with p.
func (p Paper) Clone() Paper {
	if p.Abstract != nil {
		abstract := *p.Abstract
		p.Abstract = &abstract
	}
	return p
}
