// Package lockstep checks from Go tests that a type still matches the D-Bus
// member it is sent or received as.
//
//	func TestAddNodeEvent(t *testing.T) {
//		v := lockstep.MustOpen(t, lockstep.Config{XMLPath: "xml"})
//		lockstep.Validate(t, v, AddNodeEvent{})
//		lockstep.Validate(t, v, RequestNameArgs{}, lockstep.Args("RequestName"))
//	}
package lockstep

import (
	"context"

	"github.com/tender-barbarian/go-lockstep/internal/config"
	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
	"github.com/tender-barbarian/go-lockstep/internal/validator"
)

type (
	// Signature is a D-Bus type signature such as "a{sv}".
	Signature = signature.Signature
	// Config names the introspection documents and member pins.
	Config = config.Config
	// Validator resolves members and compares signatures.
	Validator = validator.Validator
	// Option configures a Validator.
	Option = validator.Option
	// TestingT is satisfied by *testing.T.
	TestingT = signature.TestingT
)

var (
	WithLogger  = validator.WithLogger
	WithDeriver = validator.WithDeriver
	WithPins    = validator.WithPins
)

type tHelper interface {
	Helper()
}

// Equivalent reports whether lhs and rhs differ by at most one pair of outer parentheses.
func Equivalent(lhs, rhs Signature) bool {
	return signature.Equivalent(lhs, rhs)
}

// AssertEquivalent stops the test when lhs and rhs are not equivalent.
func AssertEquivalent(t TestingT, lhs, rhs Signature) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return signature.AssertEquivalent(t, lhs, rhs)
}

// AssertNotEquivalent stops the test when lhs and rhs are equivalent.
func AssertNotEquivalent(t TestingT, lhs, rhs Signature) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return signature.AssertNotEquivalent(t, lhs, rhs)
}

// Open loads the documents named by cfg. An empty XMLPath falls back to XML/
// or xml/ under the working directory.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Validator, error) {
	return validator.Open(ctx, cfg, opts...)
}

// MustOpen is Open for tests: a loading failure stops the test.
func MustOpen(t TestingT, cfg Config, opts ...Option) *Validator {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	v, err := Open(context.Background(), cfg, opts...)
	if err != nil {
		t.Errorf("opening introspection documents: %v", err)
		t.FailNow()
	}
	return v
}

// CheckOption selects the member a value is validated against.
type CheckOption func(*validator.Options)

// Signal validates against a signal body. It is the default; member may be
// empty to derive the name from the type.
func Signal(member string) CheckOption {
	return part(finder.PartSignal, member)
}

// Args validates against the input arguments of a method.
func Args(member string) CheckOption {
	return part(finder.PartArgs, member)
}

// Return validates against the single output argument of a method.
func Return(member string) CheckOption {
	return part(finder.PartReturn, member)
}

// Property validates against a property type.
func Property(member string) CheckOption {
	return part(finder.PartProperty, member)
}

// Interface restricts the lookup to one interface.
func Interface(name string) CheckOption {
	return func(o *validator.Options) { o.Interface = name }
}

func part(p finder.Part, member string) CheckOption {
	return func(o *validator.Options) {
		o.Part = p
		o.Member = member
	}
}

// Check validates value with v and returns the failure, if any.
func Check(v *Validator, value any, opts ...CheckOption) error {
	var o validator.Options
	for _, opt := range opts {
		opt(&o)
	}
	_, err := v.ValidateValue(value, o)
	return err
}

// Validate stops the test when value does not match its member.
func Validate(t TestingT, v *Validator, value any, opts ...CheckOption) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if err := Check(v, value, opts...); err != nil {
		t.Errorf("%v", err)
		t.FailNow()
		return false
	}
	return true
}
