package tools

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/idl"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

func TestFindMemberHandler(t *testing.T) {
	handler := findMemberHandler(newFixtureFinder(t))

	tests := []struct {
		name     string
		args     map[string]any
		expected []string
		wantErr  bool
	}{
		{name: "exact across interfaces", args: map[string]any{"name": "Ping"}, expected: []string{"org.example.Monitor", "org.example.Registry"}},
		{name: "kind filter includes", args: map[string]any{"name": "Ping", "kind": "signal"}, expected: []string{"org.example.Monitor", "org.example.Registry"}},
		{name: "kind filter excludes", args: map[string]any{"name": "Ping", "kind": "method"}},
		{name: "prefix match", args: map[string]any{"name": "Name", "match": "prefix"}, expected: []string{"org.freedesktop.DBus", "org.freedesktop.DBus", "org.freedesktop.DBus"}},
		{name: "nonexistent member", args: map[string]any{"name": "NoSuchMember"}},
		{name: "unknown kind", args: map[string]any{"name": "Ping", "kind": "event"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := call(t, handler, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var refs []idl.MemberRef
			require.NoError(t, json.Unmarshal([]byte(text), &refs))
			ifaces := make([]string, 0, len(refs))
			for _, r := range refs {
				ifaces = append(ifaces, r.Interface)
			}
			if tt.expected == nil {
				assert.Empty(t, ifaces)
				return
			}
			assert.Equal(t, tt.expected, ifaces)
		})
	}
}

func TestLocateMemberHandler(t *testing.T) {
	f := newFixtureFinder(t)
	root := t.TempDir()
	pins := NewPinStore(root, nil)
	handler := locateMemberHandler(f, pins)

	tests := []struct {
		name      string
		args      map[string]any
		expected  locateResult
		wantErr   error
		errSubstr string
	}{
		{
			name:     "signal body",
			args:     map[string]any{"name": "AddNode"},
			expected: locateResult{Name: "AddNode", Part: finder.PartSignal, Interface: "org.example.Registry", Signature: "so"},
		},
		{
			name:     "method args",
			args:     map[string]any{"name": "RequestName", "part": "args"},
			expected: locateResult{Name: "RequestName", Part: finder.PartArgs, Interface: "org.freedesktop.DBus", Signature: "su"},
		},
		{
			name:     "method return",
			args:     map[string]any{"name": "RequestName", "part": "return"},
			expected: locateResult{Name: "RequestName", Part: finder.PartReturn, Interface: "org.freedesktop.DBus", Signature: "u"},
		},
		{
			name:     "property",
			args:     map[string]any{"name": "Features", "part": "property"},
			expected: locateResult{Name: "Features", Part: finder.PartProperty, Interface: "org.freedesktop.DBus", Signature: "as"},
		},
		{
			name:     "interface disambiguates",
			args:     map[string]any{"name": "Ping", "interface": "org.example.Monitor"},
			expected: locateResult{Name: "Ping", Part: finder.PartSignal, Interface: "org.example.Monitor", Signature: "u"},
		},
		{name: "ambiguous", args: map[string]any{"name": "Ping"}, wantErr: finder.ErrAmbiguous},
		{name: "not found", args: map[string]any{"name": "Pong"}, wantErr: finder.ErrNotFound},
		{name: "several outputs", args: map[string]any{"name": "Split", "part": "return"}, wantErr: idl.ErrUnsupportedReturn},
		{name: "unknown part", args: map[string]any{"name": "Ping", "part": "body"}, errSubstr: "unknown part"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := call(t, handler, tt.args)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				return
			case tt.errSubstr != "":
				assert.ErrorContains(t, err, tt.errSubstr)
				return
			}
			require.NoError(t, err)

			var actual locateResult
			require.NoError(t, json.Unmarshal([]byte(text), &actual))
			assert.NotEmpty(t, actual.Source)
			actual.Source = ""
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestLocateMemberUsesPins(t *testing.T) {
	f := newFixtureFinder(t)
	root := t.TempDir()
	pins := NewPinStore(root, map[string]string{"Ping": "org.example.Monitor"})
	handler := locateMemberHandler(f, pins)

	text, err := call(t, handler, map[string]any{"name": "Ping"})
	require.NoError(t, err)
	var actual locateResult
	require.NoError(t, json.Unmarshal([]byte(text), &actual))
	assert.Equal(t, "org.example.Monitor", actual.Interface)
	assert.Equal(t, signature.Signature("u"), actual.Signature)
	assert.True(t, actual.Pinned)

	// An explicit interface wins over the pin.
	text, err = call(t, handler, map[string]any{"name": "Ping", "interface": "org.example.Registry"})
	require.NoError(t, err)
	actual = locateResult{}
	require.NoError(t, json.Unmarshal([]byte(text), &actual))
	assert.Equal(t, "org.example.Registry", actual.Interface)
	assert.False(t, actual.Pinned)
}

func TestLocateMemberBrokenPinStore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".lockstep"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".lockstep", "pins.json"), []byte("{"), 0o600))

	_, err := call(t, locateMemberHandler(newFixtureFinder(t), NewPinStore(root, nil)), map[string]any{"name": "Ping"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, finder.ErrAmbiguous))
	assert.ErrorContains(t, err, "parsing pins")
}
