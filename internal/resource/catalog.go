package resource

import (
	"paperpulse/internal/entity"
	"paperpulse/internal/query"
	"paperpulse/internal/schema"
)

type (
	Authors = Resource[entity.Author, entity.AuthorCreate]
	Papers  = Resource[entity.Paper, entity.PaperCreate]
)

// NewAuthors serves /authors/ and /authors/{id}.
func NewAuthors(api API, cache *query.Cache) *Authors {
	return newResource[entity.Author, entity.AuthorCreate](schema.KindAuthors, schema.AuthorResponse(), entity.Author.Clone, api, cache)
}

// NewPapers serves /papers/ and /papers/{id}.
func NewPapers(api API, cache *query.Cache) *Papers {
	return newResource[entity.Paper, entity.PaperCreate](schema.KindPapers, schema.PaperResponse(), entity.Paper.Clone, api, cache)
}

// Catalog groups the accessors that share one cache.
type Catalog struct {
	Authors *Authors
	Papers  *Papers
	Cache   *query.Cache
}

func NewCatalog(api API, cache *query.Cache) *Catalog {
	return &Catalog{
		Authors: NewAuthors(api, cache),
		Papers:  NewPapers(api, cache),
		Cache:   cache,
	}
}
