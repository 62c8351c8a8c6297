package query

import "strconv"

// Key identifies a cache entry: a resource kind for list reads, or a kind
// plus entity id for detail reads.
type Key struct {
	Kind string
	ID   int
}

// ListKey is the key of the "list all" entry for kind.
func ListKey(kind string) Key {
	return Key{Kind: kind}
}

// DetailKey is the key of a single entity of kind.
func DetailKey(kind string, id int) Key {
	return Key{Kind: kind, ID: id}
}

// IsList reports whether k addresses a whole kind.
func (k Key) IsList() bool {
	return k.ID == 0
}

// Covers reports whether invalidating k also invalidates other.
// A list key covers every key of its kind.
func (k Key) Covers(other Key) bool {
	if k.IsList() {
		return k.Kind == other.Kind
	}
	return k == other
}

func (k Key) String() string {
	if k.IsList() {
		return k.Kind
	}
	return k.Kind + "/" + strconv.Itoa(k.ID)
}
