package signature

// TestingT is the subset of *testing.T used by the assertion helpers.
// It matches testify's require.TestingT.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

type tHelper interface {
	Helper()
}

// AssertEquivalent stops the test when lhs and rhs are not equivalent.
func AssertEquivalent(t TestingT, lhs, rhs Signature) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if Equivalent(lhs, rhs) {
		return true
	}
	t.Errorf("Signatures are not equal (Lhs: %s, Rhs: %s)", lhs, rhs)
	t.FailNow()
	return false
}

// AssertNotEquivalent stops the test when lhs and rhs are equivalent.
func AssertNotEquivalent(t TestingT, lhs, rhs Signature) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !Equivalent(lhs, rhs) {
		return true
	}
	t.Errorf("Signatures are equal (Lhs: %s, Rhs: %s)", lhs, rhs)
	t.FailNow()
	return false
}
