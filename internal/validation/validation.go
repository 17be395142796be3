// Package validation runs ordered per-field rule chains.
//
// Each field's chain stops at its first failing rule, so a field reports at
// most one message key. Fields are independent: every field's chain runs no
// matter how the others fared. Keys are returned untranslated.
package validation

import (
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// Rule checks one value and returns a message key when it fails.
// A nil value means the field was absent or null.
type Rule func(value *string) (key string, ok bool)

// Field is a named value with its ordered rule chain.
type Field struct {
	Name  string
	Value *string
	Rules []Rule
}

// Errors maps a field name to the key of the first rule it failed.
type Errors map[string]string

// Empty reports whether no field failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Validate evaluates every field and collects the first failure of each.
func Validate(fields ...Field) Errors {
	errs := Errors{}
	for _, field := range fields {
		if key, failed := firstFailure(field); failed {
			errs[field.Name] = key
		}
	}
	return errs
}

func firstFailure(field Field) (string, bool) {
	for _, rule := range field.Rules {
		if key, ok := rule(field.Value); !ok {
			return key, true
		}
	}
	return "", false
}

// Required fails on nil or empty values. Whitespace counts as content.
func Required(key string) Rule {
	return func(value *string) (string, bool) {
		if value == nil || *value == "" {
			return key, false
		}
		return "", true
	}
}

// Length fails unless the value holds between min and max characters,
// inclusive. Characters are counted as runes.
func Length(min, max int, key string) Rule {
	lo, hi := strconv.Itoa(min), strconv.Itoa(max)
	return func(value *string) (string, bool) {
		if value == nil || !govalidator.StringLength(*value, lo, hi) {
			return key, false
		}
		return "", true
	}
}

// Email fails unless the value has a local part, an '@', and a domain with
// at least one dot.
func Email(key string) Rule {
	return func(value *string) (string, bool) {
		if value == nil || !IsEmail(*value) {
			return key, false
		}
		return "", true
	}
}

// IsEmail reports whether s is a well-formed address with a dotted domain.
func IsEmail(s string) bool {
	local, domain, found := strings.Cut(s, "@")
	if !found || local == "" || domain == "" {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" {
			return false
		}
	}
	return govalidator.IsEmail(s)
}
