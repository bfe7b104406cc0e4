// Package validation checks request payloads against declarative rule sets.
//
// A Schema is an ordered list of fields, each with a kind and a list of
// rules. Validate reports every violation as a FieldIssue in schema order and
// Decode additionally copies the validated fields into a typed request struct.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Rajangupta9/taskmanager/errors"
)

// Kind is the JSON type a field must have.
type Kind int

const (
	KindString Kind = iota
	KindInteger
)

func (k Kind) String() string {
	if k == KindInteger {
		return "number"
	}
	return "string"
}

// Rule checks one constraint on a value that already has the field's kind.
// It returns an empty string when the value passes.
type Rule func(v any) string

// Field declares the constraints of a single payload field.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	Rules    []Rule
}

// Schema is a named, ordered rule set.
type Schema struct {
	Name   string
	Fields []Field
}

// Validate checks payload against s. It returns nil or a *errors.ValidationError.
func Validate(s Schema, payload map[string]any) error {
	var issues []errors.FieldIssue
	for _, f := range s.Fields {
		raw, present := payload[f.Name]
		if !present || raw == nil {
			if !f.Optional {
				issues = append(issues, errors.FieldIssue{Path: f.Name, Message: "Required"})
			}
			continue
		}

		v, ok := coerce(f.Kind, raw)
		if !ok {
			issues = append(issues, errors.FieldIssue{
				Path:    f.Name,
				Message: fmt.Sprintf("Expected %s, received %s", f.Kind, jsonType(raw)),
			})
			continue
		}

		for _, rule := range f.Rules {
			if msg := rule(v); msg != "" {
				issues = append(issues, errors.FieldIssue{Path: f.Name, Message: msg})
			}
		}
	}

	if len(issues) > 0 {
		return errors.NewValidationError(issues)
	}
	return nil
}

// Decode validates payload against s and decodes the declared fields into out,
// which must be a pointer to a struct with mapstructure tags. Undeclared
// payload keys are dropped.
func Decode(s Schema, payload map[string]any, out any) error {
	if err := Validate(s, payload); err != nil {
		return err
	}

	clean := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw, present := payload[f.Name]
		if !present || raw == nil {
			continue
		}
		v, _ := coerce(f.Kind, raw)
		clean[f.Name] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("build decoder for %s: %w", s.Name, err)
	}
	if err := dec.Decode(clean); err != nil {
		return fmt.Errorf("decode %s payload: %w", s.Name, err)
	}
	return nil
}

// coerce normalizes raw into the Go type rules expect: string or int64.
func coerce(k Kind, raw any) (any, bool) {
	switch k {
	case KindString:
		s, ok := raw.(string)
		return s, ok
	case KindInteger:
		switch n := raw.(type) {
		case int:
			return int64(n), true
		case int64:
			return n, true
		case float64:
			if n != math.Trunc(n) || math.Abs(n) > math.MaxInt64 {
				return nil, false
			}
			return int64(n), true
		case json.Number:
			i, err := n.Int64()
			return i, err == nil
		}
	}
	return nil, false
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// MinLen requires at least n characters.
func MinLen(n int) Rule {
	return func(v any) string {
		if utf8.RuneCountInString(v.(string)) < n {
			return fmt.Sprintf("String must contain at least %d character(s)", n)
		}
		return ""
	}
}

// MaxLen allows at most n characters.
func MaxLen(n int) Rule {
	return func(v any) string {
		if utf8.RuneCountInString(v.(string)) > n {
			return fmt.Sprintf("String must contain at most %d character(s)", n)
		}
		return ""
	}
}

// MaxBytes allows at most n bytes of UTF-8.
func MaxBytes(n int) Rule {
	return func(v any) string {
		if len(v.(string)) > n {
			return fmt.Sprintf("String must contain at most %d byte(s)", n)
		}
		return ""
	}
}

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)

// Email requires a syntactically valid address.
func Email() Rule {
	return func(v any) string {
		if !emailRegex.MatchString(v.(string)) {
			return "Invalid email"
		}
		return ""
	}
}

// EndsWith requires the given suffix.
func EndsWith(suffix string) Rule {
	return func(v any) string {
		if !strings.HasSuffix(v.(string), suffix) {
			return fmt.Sprintf("Invalid input: must end with %q", suffix)
		}
		return ""
	}
}

// Matches requires re to match the whole value.
func Matches(re *regexp.Regexp) Rule {
	return func(v any) string {
		if !re.MatchString(v.(string)) {
			return "Invalid"
		}
		return ""
	}
}

// OneOf requires the value to equal one of values exactly.
func OneOf(values ...string) Rule {
	quoted := make([]string, len(values))
	for i, s := range values {
		quoted[i] = "'" + s + "'"
	}
	expected := strings.Join(quoted, " | ")

	return func(v any) string {
		s := v.(string)
		for _, allowed := range values {
			if s == allowed {
				return ""
			}
		}
		return fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", expected, s)
	}
}

// Digits requires a non-empty base-10 integer string that fits in int64.
func Digits() Rule {
	return func(v any) string {
		s := v.(string)
		if s == "" || strings.TrimLeft(s, "0123456789") != "" {
			return "Expected a numeric timestamp"
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			return "Timestamp out of range"
		}
		return ""
	}
}

// Positive requires an integer greater than zero.
func Positive() Rule {
	return func(v any) string {
		if v.(int64) <= 0 {
			return "Number must be greater than 0"
		}
		return ""
	}
}
