// Package schema holds declarative shape definitions for the catalog resources
// and the evaluator that checks decoded JSON documents against them.
package schema

import (
	"fmt"
	"strings"
)

// Type is the primitive JSON type of a field.
type Type int

const (
	String Type = iota + 1
	Integer
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	default:
		return "unknown"
	}
}

// Rule is a semantic refinement applied after the type check passes.
type Rule int

const (
	// NonEmpty rejects strings that are empty after trimming whitespace.
	NonEmpty Rule = iota + 1
	// Email requires a syntactically valid email address.
	Email
	// Positive requires an integer greater than zero.
	Positive
)

// Schema is either an Object or an Array.
type Schema interface {
	describe() string
}

// Field declares one member of an Object.
type Field struct {
	Name     string
	Type     Type
	Required bool
	Nullable bool
	Rules    []Rule
}

// Object describes a JSON object. Members not listed in Fields are ignored.
type Object struct {
	Name   string
	Fields []Field
}

func (o Object) describe() string { return o.Name }

// Array describes a JSON array whose elements all match Items.
type Array struct {
	Items Schema
}

func (a Array) describe() string { return "[]" + a.Items.describe() }

// Describe returns a short human name for s, used in logs.
func Describe(s Schema) string {
	if s == nil {
		return "<nil>"
	}
	return s.describe()
}

// Violation is a single mismatch between a document and a schema.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + " " + v.Message
}

// Join renders violations as a single semicolon separated line.
func Join(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

func fieldPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
