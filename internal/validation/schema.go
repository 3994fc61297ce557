package validation

import (
	"fmt"
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"time"
)

// Type identifies the expected shape of a field value.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBool    Type = "bool"
	TypeEmail   Type = "email"
	TypeTime    Type = "time"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Violation kinds reported to the client.
const (
	ViolationRequired   = "required"
	ViolationType       = "type"
	ViolationMinLength  = "min_length"
	ViolationMaxLength  = "max_length"
	ViolationMin        = "min"
	ViolationMax        = "max"
	ViolationEnum       = "enum"
	ViolationPattern    = "pattern"
	ViolationUnknownKey = "unknown_key"
	ViolationMalformed  = "malformed"
)

// Field declares the rules for one named value of a request part.
type Field struct {
	Key      string
	Label    string
	Required bool
	Type     Type
	MinLen   int
	MaxLen   int
	Min      *float64
	Max      *float64
	Enum     []string
	Pattern  *regexp.Regexp
}

// Schema declares, per request part, the fields to validate. Body, query and
// params reject undeclared keys; headers are always open since transports
// add arbitrary ones. A part with no declared fields is left unchecked, so a
// body-only schema never rejects route params or incidental query strings.
type Schema struct {
	Body    []Field
	Query   []Field
	Params  []Field
	Headers []Field
}

// Violation is one field-level failure.
type Violation struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Violation string `json:"violation"`
}

// checkPart validates every declared field and, when the part is closed,
// flags undeclared keys. All violations are collected; validation never
// stops at the first failure.
func checkPart(values map[string]any, fields []Field, open bool) []Violation {
	var violations []Violation
	declared := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		declared[field.Key] = struct{}{}
		label := field.Label
		if label == "" {
			label = field.Key
		}

		value, present := values[field.Key]
		if !present || value == nil || value == "" {
			if field.Required {
				violations = append(violations, Violation{Key: field.Key, Label: label, Violation: ViolationRequired})
			}
			continue
		}

		for _, kind := range checkValue(field, value) {
			violations = append(violations, Violation{Key: field.Key, Label: label, Violation: kind})
		}
	}

	if !open {
		for key := range values {
			if _, ok := declared[key]; !ok {
				violations = append(violations, Violation{Key: key, Label: key, Violation: ViolationUnknownKey})
			}
		}
	}
	return violations
}

func checkValue(field Field, value any) []string {
	var kinds []string

	switch field.Type {
	case TypeString, TypeEmail, "":
		str, ok := value.(string)
		if !ok {
			return []string{ViolationType}
		}
		if field.Type == TypeEmail {
			if _, err := mail.ParseAddress(str); err != nil {
				kinds = append(kinds, ViolationType)
			}
		}
		kinds = append(kinds, checkString(field, str)...)

	case TypeNumber, TypeInteger:
		num, ok := toNumber(value)
		if !ok {
			return []string{ViolationType}
		}
		if field.Type == TypeInteger && num != math.Trunc(num) {
			kinds = append(kinds, ViolationType)
		}
		if field.Min != nil && num < *field.Min {
			kinds = append(kinds, ViolationMin)
		}
		if field.Max != nil && num > *field.Max {
			kinds = append(kinds, ViolationMax)
		}

	case TypeBool:
		switch v := value.(type) {
		case bool:
		case string:
			if _, err := strconv.ParseBool(v); err != nil {
				kinds = append(kinds, ViolationType)
			}
		default:
			kinds = append(kinds, ViolationType)
		}

	case TypeTime:
		str, ok := value.(string)
		if !ok {
			return []string{ViolationType}
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			kinds = append(kinds, ViolationType)
		}

	case TypeArray:
		if _, ok := value.([]any); !ok {
			kinds = append(kinds, ViolationType)
		}

	case TypeObject:
		if _, ok := value.(map[string]any); !ok {
			kinds = append(kinds, ViolationType)
		}
	}

	return kinds
}

func checkString(field Field, str string) []string {
	var kinds []string
	if field.MinLen > 0 && len(str) < field.MinLen {
		kinds = append(kinds, ViolationMinLength)
	}
	if field.MaxLen > 0 && len(str) > field.MaxLen {
		kinds = append(kinds, ViolationMaxLength)
	}
	if len(field.Enum) > 0 {
		found := false
		for _, allowed := range field.Enum {
			if str == allowed {
				found = true
				break
			}
		}
		if !found {
			kinds = append(kinds, ViolationEnum)
		}
	}
	if field.Pattern != nil && !field.Pattern.MatchString(str) {
		kinds = append(kinds, ViolationPattern)
	}
	return kinds
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		num, err := strconv.ParseFloat(v, 64)
		return num, err == nil
	default:
		return 0, false
	}
}

// Float is a shorthand for numeric bound pointers in schema literals.
func Float(v float64) *float64 { return &v }

// MustPattern compiles the expression or panics; for package-level schemas.
func MustPattern(expr string) *regexp.Regexp {
	re, err := regexp.Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("validation: bad pattern %q: %v", expr, err))
	}
	return re
}
