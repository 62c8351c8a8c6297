package schema

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/reoring/goskema"
	g "github.com/reoring/goskema/dsl"
)

// Decode parses raw JSON into a generic document suitable for Validate.
// Numbers are kept as json.Number so integers are not silently rounded.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return doc, nil
}

// ValidateValue marshals v to JSON and validates the result against s.
func ValidateValue(s Schema, v any) ([]Violation, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return Validate(s, doc), nil
}

// Validate checks doc against s and returns the violations found, ordered
// as the fields are declared. Arrays report the first offending element
// only. A nil result means the document conforms.
func Validate(s Schema, doc any) []Violation {
	err := compile(s)(context.Background(), doc)
	if err == nil {
		return nil
	}
	issues, ok := goskema.AsIssues(err)
	if !ok {
		return []Violation{{Message: err.Error()}}
	}

	rank := declared(s)
	slices.SortStableFunc(issues, func(a, b goskema.Issue) int {
		return cmp.Compare(rank(a.Path), rank(b.Path))
	})
	out := make([]Violation, 0, len(issues))
	for _, is := range issues {
		out = append(out, violation(is, doc))
	}
	return out
}

type parseFunc func(ctx context.Context, doc any) error

func compile(s Schema) parseFunc {
	switch s := s.(type) {
	case Object:
		obj := compileObject(s)
		return func(ctx context.Context, doc any) error {
			_, err := obj.Parse(ctx, doc)
			return err
		}
	case Array:
		if items, ok := s.Items.(Object); ok {
			arr := g.Array[map[string]any](compileObject(items))
			return func(ctx context.Context, doc any) error {
				_, err := arr.Parse(ctx, doc)
				return err
			}
		}
	}
	return func(context.Context, any) error {
		return goskema.Issues{{Path: "/", Code: goskema.CodeParseError, Message: fmt.Sprintf("unsupported schema %T", s)}}
	}
}

// compileObject builds the goskema form of o. Undeclared members are
// stripped rather than rejected.
func compileObject(o Object) goskema.Schema[map[string]any] {
	b := g.Object().UnknownStrip()
	for _, f := range o.Fields {
		ad := g.SchemaOf[any](fieldSchema{f: f})
		if f.Nullable {
			ad = ad.Nullable()
		}
		step := b.Field(f.Name, ad)
		if f.Required {
			step.Required()
		}
	}
	return b.MustBuild()
}

// declared ranks an issue pointer by the position of its field in s.
func declared(s Schema) func(pointer string) int {
	var fields []Field
	switch s := s.(type) {
	case Object:
		fields = s.Fields
	case Array:
		if items, ok := s.Items.(Object); ok {
			fields = items.Fields
		}
	}
	return func(pointer string) int {
		name := pointer[strings.LastIndex(pointer, "/")+1:]
		for i, f := range fields {
			if f.Name == name {
				return i
			}
		}
		return len(fields)
	}
}

func violation(is goskema.Issue, doc any) Violation {
	path := violationPath(is.Path)
	msg := is.Message
	switch {
	case is.Code == goskema.CodeRequired:
		msg = "is required"
	case strings.HasPrefix(is.Hint, "expected "):
		msg = is.Hint
		if path == "" {
			msg += ", got " + jsonType(doc)
		}
	}
	return Violation{Path: path, Message: msg}
}

var pointerUnescape = strings.NewReplacer("~1", "/", "~0", "~")

// violationPath turns a JSON Pointer such as /2/email into [2].email.
func violationPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	var path string
	for _, seg := range strings.Split(pointer, "/") {
		seg = pointerUnescape.Replace(seg)
		if i, err := strconv.Atoi(seg); err == nil {
			path = indexPath(path, i)
			continue
		}
		path = fieldPath(path, seg)
	}
	return path
}
