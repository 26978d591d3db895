package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/contacts/internal/ir"
)

// contactFields maps the snake_case field names used in scenarios to
// accessors on ir.Contact.
var contactFields = map[string]func(ir.Contact) string{
	"name":         func(c ir.Contact) string { return c.Name },
	"email":        func(c ir.Contact) string { return c.Email },
	"phone_number": func(c ir.Contact) string { return c.PhoneNumber },
	"image_url":    func(c ir.Contact) string { return c.ImageURL },
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, actual %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against the result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertContactField:
		return assertContactField(result.State, a)
	case AssertNotifyCount:
		if result.Notifications != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d notification(s)", a.Count),
				Actual:   fmt.Sprintf("%d", result.Notifications),
			}
		}
	case AssertStateName:
		if result.State.Name != a.Value {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%q", a.Value),
				Actual:   fmt.Sprintf("%q", result.State.Name),
			}
		}
	case AssertContactCount:
		if len(result.State.Contacts) != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d contact(s)", a.Count),
				Actual:   fmt.Sprintf("%d", len(result.State.Contacts)),
			}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertContactField(s ir.State, a Assertion) error {
	get, ok := contactFields[a.Field]
	if !ok {
		return fmt.Errorf("unknown contact field %q", a.Field)
	}
	idx := s.FindContact(a.ContactID)
	if idx < 0 {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("contact %d", a.ContactID),
			Actual:   "no such contact",
		}
	}
	if got := get(s.Contacts[idx]); got != a.Value {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("contact %d %s = %q", a.ContactID, a.Field, a.Value),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

// matchResult compares an expected query result with the actual one.
// A map expectation is a subset match against a contact's fields; anything
// else is compared by its printed form. Returns "" on match.
func matchResult(expected, actual any) string {
	want, isMap := expected.(map[string]any)
	if !isMap {
		if fmt.Sprint(expected) != fmt.Sprint(actual) {
			return fmt.Sprintf("expected result %v, got %v", expected, actual)
		}
		return ""
	}

	contact, ok := actual.(ir.Contact)
	if !ok {
		return fmt.Sprintf("expected a contact, got %T", actual)
	}
	have := contact.ToCanonical()

	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var mismatches []string
	for _, k := range keys {
		got, ok := have[k]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: no such field", k))
			continue
		}
		if fmt.Sprint(want[k]) != fmt.Sprint(got) {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %v, got %v", k, want[k], got))
		}
	}
	if len(mismatches) > 0 {
		return "result mismatch: " + strings.Join(mismatches, "; ")
	}
	return ""
}
