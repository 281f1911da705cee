// Package validation checks untyped request payloads against a declarative
// field rule table before anything reaches the store.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Kind is the JSON type a field value must have.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

// VerificationError describes one failed rule on one field.
type VerificationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldRule is one row of the rule table. Tag is a go-playground/validator
// tag applied to the value once presence and kind are satisfied; Messages maps
// a failing validator tag to the message reported for it. Any failure without
// a dedicated message falls back to the "required" message.
type FieldRule struct {
	Field    string
	Kind     Kind
	Tag      string
	Messages map[string]string
}

// ItemRules is the rule table for Item payloads. Order matters: violations are
// reported in table order.
var ItemRules = []FieldRule{
	{
		Field: "name",
		Kind:  KindString,
		Tag:   "required",
	},
	{
		Field: "price",
		Kind:  KindNumber,
		Tag:   "gte=0",
		Messages: map[string]string{
			"gte": `Field "price" cannot be negative`,
		},
	},
}

// Verifier evaluates a rule table. It holds no per-call state and is safe for
// concurrent use.
type Verifier struct {
	validate *validator.Validate
	rules    []FieldRule
}

// NewVerifier returns a Verifier for the given rules. A nil validate gets a
// fresh validator.New().
func NewVerifier(validate *validator.Validate, rules []FieldRule) *Verifier {
	if validate == nil {
		validate = validator.New()
	}
	return &Verifier{validate: validate, rules: rules}
}

// NewItemVerifier returns a Verifier using ItemRules.
func NewItemVerifier(validate *validator.Validate) *Verifier {
	return NewVerifier(validate, ItemRules)
}

// Verify checks every rule against candidate and returns all violations found,
// in rule order. An empty result means the candidate is valid. The error is
// non-nil only when the validator itself faults (for example a malformed tag),
// which is a programming error and not a client mistake.
func (v *Verifier) Verify(candidate map[string]any) ([]VerificationError, error) {
	violations := []VerificationError{}

	for _, rule := range v.rules {
		msg, err := v.check(rule, candidate)
		if err != nil {
			return nil, fmt.Errorf("verify field %q: %w", rule.Field, err)
		}
		if msg != "" {
			violations = append(violations, VerificationError{Field: rule.Field, Message: msg})
		}
	}

	return violations, nil
}

// check returns the violation message for a single rule, or "" when it holds.
func (v *Verifier) check(rule FieldRule, candidate map[string]any) (msg string, err error) {
	// validator panics on undefined tags.
	defer func() {
		if r := recover(); r != nil {
			msg, err = "", fmt.Errorf("rule engine fault: %v", r)
		}
	}()

	fallback := requiredMessage(rule.Field)

	// Presence is decided by the key alone, so a numeric 0 counts as present.
	raw, ok := candidate[rule.Field]
	if !ok || raw == nil {
		return fallback, nil
	}

	var value any
	switch rule.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return fallback, nil
		}
		value = s
	case KindNumber:
		f, ok := AsNumber(raw)
		if !ok {
			return fallback, nil
		}
		value = f
	default:
		return fallback, nil
	}

	if rule.Tag == "" {
		return "", nil
	}

	err = v.validate.Var(value, rule.Tag)
	if err == nil {
		return "", nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "", err
	}
	for _, fe := range fieldErrs {
		if m, ok := rule.Messages[fe.Tag()]; ok {
			return m, nil
		}
	}
	return fallback, nil
}

// AsNumber converts a decoded JSON value to a finite float64. NaN and
// infinities are rejected.
func AsNumber(raw any) (float64, bool) {
	var f float64
	switch n := raw.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func requiredMessage(field string) string {
	return fmt.Sprintf("Field %q is required", field)
}
