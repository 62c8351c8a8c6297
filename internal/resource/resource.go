// Package resource exposes list, detail and create accessors per resource
// kind. Reads go through the shared query cache; successful creates
// invalidate the kind's list entry.
package resource

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"paperpulse/internal/apiclient"
	"paperpulse/internal/query"
	"paperpulse/internal/schema"
)

// ErrDisabled is returned by detail reads whose id is not a positive integer.
// No request is issued and the cache is not touched.
var ErrDisabled = errors.New("query disabled: id must be a positive integer")

//go:generate mockgen -destination=mocks/mock_api.go -package=mocks paperpulse/internal/resource API

// API is the transport a Resource reads and writes through.
type API interface {
	Get(ctx context.Context, path string, s schema.Schema, out any) error
	Post(ctx context.Context, path string, body any, s schema.Schema, out any) error
}

// Resource binds one kind's endpoints, schemas and cache keys.
// T is the response type and C the create input.
type Resource[T, C any] struct {
	kind  string
	path  string
	item  schema.Object
	list  schema.Array
	api   API
	cache *query.Cache
	// clone deep-copies a cached value before it is handed out.
	clone func(T) T
}

func newResource[T, C any](kind string, item schema.Object, clone func(T) T, api API, cache *query.Cache) *Resource[T, C] {
	return &Resource[T, C]{
		kind:  kind,
		path:  "/" + kind + "/",
		item:  item,
		list:  schema.Array{Items: item},
		api:   api,
		cache: cache,
		clone: clone,
	}
}

func (r *Resource[T, C]) Kind() string {
	return r.kind
}

// ListAll returns every entity of the kind. The returned slice and its
// elements are copies and may be modified by the caller.
func (r *Resource[T, C]) ListAll(ctx context.Context) ([]T, error) {
	items, err := query.Load(ctx, r.cache, query.ListKey(r.kind), r.fetchList)
	if err != nil {
		return nil, err
	}
	return r.cloneAll(items), nil
}

// Refetch reloads the list even if the cached copy is fresh.
func (r *Resource[T, C]) Refetch(ctx context.Context) ([]T, error) {
	items, err := query.Reload(ctx, r.cache, query.ListKey(r.kind), r.fetchList)
	if err != nil {
		return nil, err
	}
	return r.cloneAll(items), nil
}

// GetByID returns a single entity. Ids below 1 yield ErrDisabled.
func (r *Resource[T, C]) GetByID(ctx context.Context, id int) (T, error) {
	if id <= 0 {
		var zero T
		return zero, ErrDisabled
	}
	item, err := query.Load(ctx, r.cache, query.DetailKey(r.kind, id), r.fetchOne(id))
	if err != nil {
		return item, err
	}
	return r.clone(item), nil
}

// GetByParam is GetByID for an id that still needs parsing, such as a
// route parameter. Empty or non-numeric text yields ErrDisabled.
func (r *Resource[T, C]) GetByParam(ctx context.Context, raw string) (T, error) {
	id, ok := ParseID(raw)
	if !ok {
		var zero T
		return zero, ErrDisabled
	}
	return r.GetByID(ctx, id)
}

// RefetchByID reloads a single entity even if the cached copy is fresh.
func (r *Resource[T, C]) RefetchByID(ctx context.Context, id int) (T, error) {
	if id <= 0 {
		var zero T
		return zero, ErrDisabled
	}
	item, err := query.Reload(ctx, r.cache, query.DetailKey(r.kind, id), r.fetchOne(id))
	if err != nil {
		return item, err
	}
	return r.clone(item), nil
}

// Create posts in and, on success, invalidates the kind's list. Failures
// leave the cache untouched and are returned as is.
func (r *Resource[T, C]) Create(ctx context.Context, in C) (T, error) {
	created, err := apiclient.PostTyped[T](ctx, r.api, r.path, in, r.item)
	if err != nil {
		var zero T
		return zero, err
	}
	r.cache.Invalidate(query.ListKey(r.kind))
	return created, nil
}

// ListState reports the cache state of the list entry.
func (r *Resource[T, C]) ListState() query.State {
	return r.cache.State(query.ListKey(r.kind))
}

// State reports the cache state of a detail entry.
func (r *Resource[T, C]) State(id int) query.State {
	return r.cache.State(query.DetailKey(r.kind, id))
}

func (r *Resource[T, C]) cloneAll(items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = r.clone(item)
	}
	return out
}

func (r *Resource[T, C]) fetchList(ctx context.Context) ([]T, error) {
	return apiclient.FetchTyped[[]T](ctx, r.api, r.path, r.list)
}

func (r *Resource[T, C]) fetchOne(id int) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return apiclient.FetchTyped[T](ctx, r.api, r.path+strconv.Itoa(id), r.item)
	}
}

// ParseID parses a positive integer id.
func ParseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
