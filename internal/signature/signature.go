// Package signature compares D-Bus type signatures that may be one marshalling step apart.
package signature

import "fmt"

// Signature is a D-Bus type signature such as "a{sv}" or "(so)".
// It is treated as an opaque byte sequence and never validated.
type Signature string

func (s Signature) String() string {
	return string(s)
}

// Equivalent reports whether lhs and rhs are equal once at most one pair of
// outer parentheses has been stripped from each side.
//
// Marshalling may add or drop the outer parentheses of a struct, so "a{sv}" and
// "(a{sv})" are equivalent while "a{sv}" and "((a{sv}))" are not.
func Equivalent(lhs, rhs Signature) bool {
	return Strip(lhs) == Strip(rhs)
}

// Strip removes one pair of outer parentheses when they enclose a balanced interior.
// "(i)(i)" starts and ends with parentheses but they are not a wrapper, so it is
// returned unchanged. Strip is not recursive.
func Strip(s Signature) Signature {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	inner := s[1 : len(s)-1]
	depth := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(':
			depth++
		case ')':
			// A closing parenthesis at depth zero is ignored rather than driving
			// the counter negative.
			if depth != 0 {
				depth--
			}
		}
	}
	if depth != 0 {
		return s
	}
	return inner
}

// MismatchError reports two signatures that are not equivalent.
type MismatchError struct {
	Lhs Signature
	Rhs Signature
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("Signatures are not equal (Lhs: %s, Rhs: %s)", e.Lhs, e.Rhs)
}

// Check returns a *MismatchError when lhs and rhs are not equivalent.
func Check(lhs, rhs Signature) error {
	if Equivalent(lhs, rhs) {
		return nil
	}
	return &MismatchError{Lhs: lhs, Rhs: rhs}
}
