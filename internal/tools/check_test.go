package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tender-barbarian/go-lockstep/internal/report"
)

func TestCheckSignatureHandler(t *testing.T) {
	handler := checkSignatureHandler()

	tests := []struct {
		name       string
		lhs, rhs   string
		equivalent bool
		diff       string
	}{
		{name: "identical", lhs: "a{sv}", rhs: "a{sv}", equivalent: true},
		{name: "one wrapper", lhs: "a{sv}", rhs: "(a{sv})", equivalent: true},
		{name: "struct of struct", lhs: "(ii)", rhs: "((ii))", equivalent: false, diff: "{+(+}ii{+)+}"},
		{name: "wrapped struct pair", lhs: "(ii)(ii)", rhs: "((ii)(ii))", equivalent: true},
		{name: "two wrappers", lhs: "i", rhs: "((i))", equivalent: false},
		{name: "extra field", lhs: "s", rhs: "(si)", equivalent: false, diff: "s{+i+}"},
		{name: "adjacent structs are not a wrapper", lhs: "i)(i", rhs: "(i)(i)", equivalent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := call(t, handler, map[string]any{"lhs": tt.lhs, "rhs": tt.rhs})
			require.NoError(t, err)

			var actual checkResult
			require.NoError(t, json.Unmarshal([]byte(text), &actual))
			assert.Equal(t, tt.equivalent, actual.Equivalent)
			if tt.equivalent {
				assert.Empty(t, actual.Diff)
				return
			}
			assert.NotEmpty(t, actual.Diff)
			if tt.diff != "" {
				assert.Equal(t, tt.diff, actual.Diff)
			}
		})
	}
}

func TestCheckSignatureRequiresBothSides(t *testing.T) {
	_, err := call(t, checkSignatureHandler(), map[string]any{"lhs": "s"})
	assert.Error(t, err)
}

func TestValidatePackageHandler(t *testing.T) {
	f := newFixtureFinder(t)

	statuses := func(t *testing.T, r report.Report) map[string]report.Status {
		t.Helper()
		m := make(map[string]report.Status, len(r.Entries))
		for _, e := range r.Entries {
			m[e.Subject.Name] = e.Status
		}
		return m
	}

	t.Run("without pins", func(t *testing.T) {
		handler := validatePackageHandler(f, NewPinStore(t.TempDir(), nil), fixtureRoot)
		text, err := call(t, handler, map[string]any{})
		require.NoError(t, err)

		var r report.Report
		require.NoError(t, json.Unmarshal([]byte(text), &r))
		assert.Equal(t, 9, r.Passed)
		assert.Equal(t, 3, r.Failed)

		got := statuses(t, r)
		assert.Equal(t, report.StatusOK, got["NameAcquired"])
		assert.Equal(t, report.StatusOK, got["RequestNameArgs"])
		assert.Equal(t, report.StatusOK, got["Tick"])
		assert.Equal(t, report.StatusAmbiguous, got["Ping"])
		assert.Equal(t, report.StatusMismatch, got["NameLostEvent"])
		assert.Equal(t, report.StatusError, got["Unsupported"])
	})

	t.Run("pin settles ambiguity", func(t *testing.T) {
		pins := NewPinStore(t.TempDir(), map[string]string{"Ping": "org.example.Registry"})
		text, err := call(t, validatePackageHandler(f, pins, fixtureRoot), map[string]any{})
		require.NoError(t, err)

		var r report.Report
		require.NoError(t, json.Unmarshal([]byte(text), &r))
		assert.Equal(t, 10, r.Passed)
		assert.Equal(t, report.StatusOK, statuses(t, r)["Ping"])
	})

	t.Run("package filter", func(t *testing.T) {
		handler := validatePackageHandler(f, NewPinStore(t.TempDir(), nil), fixtureRoot)
		text, err := call(t, handler, map[string]any{"package": "example.com/other"})
		require.NoError(t, err)

		var r report.Report
		require.NoError(t, json.Unmarshal([]byte(text), &r))
		assert.Empty(t, r.Entries)

		text, err = call(t, handler, map[string]any{"package": fixturePkg})
		require.NoError(t, err)
		r = report.Report{}
		require.NoError(t, json.Unmarshal([]byte(text), &r))
		assert.Len(t, r.Entries, 12)
	})
}
