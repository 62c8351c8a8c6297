package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reoring/goskema"
	g "github.com/reoring/goskema/dsl"
	js "github.com/reoring/goskema/jsonschema"
)

var validate = validator.New()

// fieldSchema is the goskema schema of one declared field: the wire type
// check followed by the field's rules.
type fieldSchema struct {
	f Field
}

var _ goskema.Schema[any] = fieldSchema{}

func (s fieldSchema) Parse(ctx context.Context, v any) (any, error) {
	switch s.f.Type {
	case String:
		str, err := g.String().Parse(ctx, v)
		if err != nil {
			return nil, s.typeIssue(v)
		}
		for _, r := range s.f.Rules {
			if is, bad := stringRule(r, str); bad {
				return nil, goskema.Issues{is}
			}
		}
		return str, nil
	case Integer:
		num, err := g.NumberJSON().Parse(ctx, v)
		if err != nil {
			return nil, s.typeIssue(v)
		}
		n, ok := integral(num)
		if !ok {
			return nil, s.typeIssue(v)
		}
		for _, r := range s.f.Rules {
			if r == Positive && n <= 0 {
				return nil, goskema.Issues{{Path: "/", Code: goskema.CodeTooSmall, Message: "must be greater than 0"}}
			}
		}
		return n, nil
	}
	return nil, goskema.Issues{{Path: "/", Code: goskema.CodeParseError, Message: "unsupported field type " + s.f.Type.String()}}
}

func (s fieldSchema) ParseWithMeta(ctx context.Context, v any) (goskema.Decoded[any], error) {
	out, err := s.Parse(ctx, v)
	return goskema.Decoded[any]{Value: out, Presence: goskema.PresenceMap{"/": goskema.PresenceSeen}}, err
}

func (s fieldSchema) TypeCheck(ctx context.Context, v any) error {
	_, err := fieldSchema{f: Field{Name: s.f.Name, Type: s.f.Type}}.Parse(ctx, v)
	return err
}

func (s fieldSchema) RuleCheck(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

func (s fieldSchema) Validate(ctx context.Context, v any) error {
	return s.RuleCheck(ctx, v)
}

func (s fieldSchema) ValidateValue(ctx context.Context, v any) error {
	return s.RuleCheck(ctx, v)
}

func (s fieldSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: s.f.Type.String()}, nil
}

func (s fieldSchema) typeIssue(v any) goskema.Issues {
	return goskema.Issues{{
		Path:    "/",
		Code:    goskema.CodeInvalidType,
		Message: "expected " + s.f.Type.String() + ", got " + jsonType(v),
	}}
}

func stringRule(r Rule, s string) (goskema.Issue, bool) {
	switch r {
	case NonEmpty:
		if strings.TrimSpace(s) == "" {
			return goskema.Issue{Path: "/", Code: goskema.CodeTooShort, Message: "must not be empty"}, true
		}
	case Email:
		if err := validate.Var(s, "required,email"); err != nil {
			return goskema.Issue{Path: "/", Code: goskema.CodeInvalidFormat, Message: "must be a valid email address", Cause: err}, true
		}
	}
	return goskema.Issue{}, false
}

// integral accepts whole numbers in any JSON spelling, including 1.0 and 1e3.
func integral(n json.Number) (int64, bool) {
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
