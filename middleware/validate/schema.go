package validate

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"

	auth "github.com/goliatone/go-staff-auth"
)

// Type is the JSON type a field must have
type Type int

const (
	String Type = iota
	Number
	Integer
	Bool
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Bool:
		return "boolean"
	default:
		return "unknown"
	}
}

func (t Type) issue() string {
	switch t {
	case Integer:
		return "must be an integer"
	case Bool:
		return "must be a boolean"
	default:
		return "must be a " + t.String()
	}
}

// Field declares one body field
type Field struct {
	Name     string
	Type     Type
	Required bool
	// Default is applied when the field is absent, except in partial mode
	Default any
	Rules   []validation.Rule
}

// Required declares a required field
func Required(name string, t Type, rules ...validation.Rule) Field {
	return Field{Name: name, Type: t, Required: true, Rules: rules}
}

// Optional declares an optional field
func Optional(name string, t Type, rules ...validation.Rule) Field {
	return Field{Name: name, Type: t, Rules: rules}
}

// WithDefault returns a copy of the field with a default value
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// Schema is the declared shape of a request body
type Schema struct {
	fields  []Field
	partial bool
}

// NewSchema builds a schema from field declarations
func NewSchema(fields ...Field) Schema {
	out := make([]Field, len(fields))
	copy(out, fields)
	return Schema{fields: out}
}

// Partial returns a schema where every field is optional but keeps its
// constraints. Used for partial updates.
func (s Schema) Partial() Schema {
	return Schema{fields: s.fields, partial: true}
}

// IsPartial reports whether the schema is in partial mode
func (s Schema) IsPartial() bool {
	return s.partial
}

// Fields returns the declared fields
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Validate decodes raw as a JSON object and validates it
func (s Schema) Validate(raw []byte) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return s.ValidateMap(map[string]any{})
	}

	var in map[string]any
	if err := json.Unmarshal(raw, &in); err != nil || in == nil {
		return nil, auth.Validation(auth.FieldIssue{
			Field: "body",
			Issue: "must be a JSON object",
		}).WithCause(err)
	}

	return s.ValidateMap(in)
}

// ValidateMap validates an already decoded body. It reports every
// offending field and returns the normalized body, with unknown keys
// dropped and defaults applied.
func (s Schema) ValidateMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))
	issues := make([]auth.FieldIssue, 0)

	for _, field := range s.fields {
		value, present := in[field.Name]

		if !present {
			if !s.partial && field.Default != nil {
				value, present = field.Default, true
			} else {
				if field.Required && !s.partial {
					issues = append(issues, auth.FieldIssue{Field: field.Name, Issue: "is required"})
				}
				continue
			}
		}

		coerced, ok := coerce(field.Type, value)
		if !ok {
			issues = append(issues, auth.FieldIssue{Field: field.Name, Issue: field.Type.issue()})
			continue
		}

		if err := validation.Validate(coerced, field.Rules...); err != nil {
			issues = append(issues, auth.FieldIssue{Field: field.Name, Issue: err.Error()})
			continue
		}

		out[field.Name] = coerced
	}

	if len(issues) > 0 {
		sort.SliceStable(issues, func(i, j int) bool {
			return issues[i].Field < issues[j].Field
		})
		return nil, auth.Validation(issues...)
	}

	return out, nil
}

func coerce(t Type, value any) (any, bool) {
	switch t {
	case String:
		v, ok := value.(string)
		return v, ok
	case Number:
		switch v := value.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
		return nil, false
	case Integer:
		switch v := value.(type) {
		case float64:
			if v != math.Trunc(v) || math.IsInf(v, 0) {
				return nil, false
			}
			return int64(v), true
		case int:
			return int64(v), true
		case int64:
			return v, true
		}
		return nil, false
	case Bool:
		v, ok := value.(bool)
		return v, ok
	default:
		return nil, false
	}
}
