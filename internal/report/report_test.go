package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tender-barbarian/go-lockstep/internal/docset"
	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/idl"
	"github.com/tender-barbarian/go-lockstep/internal/indexer"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
	"github.com/tender-barbarian/go-lockstep/internal/validator"
)

var (
	acquired = validator.Subject{Name: "NameAcquired", Signature: "(s)", Location: "events.go:7"}
	lost     = validator.Subject{Name: "NameLostEvent", Signature: "(si)", Location: "events.go:49"}

	acquiredRes = finder.Resolution{
		Result:    finder.Result{Source: "org.freedesktop.DBus.xml", Interface: "org.freedesktop.DBus"},
		Part:      finder.PartSignal,
		Name:      "NameAcquired",
		Signature: "s",
	}
	lostRes = finder.Resolution{
		Result:    finder.Result{Source: "org.freedesktop.DBus.xml", Interface: "org.freedesktop.DBus"},
		Part:      finder.PartSignal,
		Name:      "NameLost",
		Signature: "s",
	}
)

func wrap(s validator.Subject, err error) error {
	return &validator.Error{Subject: s, Err: err}
}

func TestNewEntry(t *testing.T) {
	ambiguous := &finder.AmbiguousError{
		Query: finder.Query{Name: "Ping", Kind: idl.KindSignal},
		Candidates: []finder.Candidate{
			{Interface: "org.example.Monitor", Source: "a.xml"},
			{Interface: "org.example.Registry", Source: "b.xml"},
		},
	}

	tests := []struct {
		name           string
		err            error
		wantStatus     Status
		wantCandidates []string
	}{
		{name: "ok", wantStatus: StatusOK},
		{name: "mismatch", err: wrap(lost, &signature.MismatchError{Lhs: "s", Rhs: "(si)"}), wantStatus: StatusMismatch},
		{name: "not found", err: wrap(lost, &finder.NotFoundError{Query: finder.Query{Name: "X", Kind: idl.KindSignal}}), wantStatus: StatusNotFound},
		{
			name:           "ambiguous",
			err:            wrap(lost, ambiguous),
			wantStatus:     StatusAmbiguous,
			wantCandidates: []string{"org.example.Monitor (a.xml)", "org.example.Registry (b.xml)"},
		},
		{name: "other", err: errors.New("deriving signature: boom"), wantStatus: StatusError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEntry(lost, lostRes, tc.err)
			assert.Equal(t, tc.wantStatus, e.Status)
			assert.Equal(t, tc.wantCandidates, e.Candidates)
			assert.Equal(t, "NameLost", e.Member)
			if tc.err == nil {
				assert.Empty(t, e.Error)
			} else {
				assert.Equal(t, tc.err.Error(), e.Error)
			}
		})
	}
}

func TestReportCounters(t *testing.T) {
	var r Report
	assert.True(t, r.OK())

	r.Add(NewEntry(acquired, acquiredRes, nil))
	assert.True(t, r.OK())

	r.Add(NewEntry(lost, lostRes, wrap(lost, &signature.MismatchError{Lhs: "s", Rhs: "(si)"})))
	assert.False(t, r.OK())
	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Failed)
	assert.Len(t, r.Entries, 2)
}

func sampleReport() *Report {
	r := &Report{}
	r.Add(NewEntry(acquired, acquiredRes, nil))
	r.Add(NewEntry(lost, lostRes, wrap(lost, &signature.MismatchError{Lhs: "s", Rhs: "(si)"})))
	return r
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatText))

	out := buf.String()
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "NameAcquired (events.go:7)")
	assert.Contains(t, out, "org.freedesktop.DBus.NameAcquired")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "Signatures are not equal (Lhs: s, Rhs: (si))")
	assert.Contains(t, out, "s{+i+}")
	assert.Contains(t, out, "2 checked, 1 passed, 1 failed\n")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatJSON))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Entries, 2)
	assert.Equal(t, StatusMismatch, got.Entries[1].Status)
	assert.Equal(t, signature.Signature("(si)"), got.Entries[1].Subject.Signature)
	assert.Contains(t, buf.String(), `"status": "ok"`)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatYAML))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 1, got["passed"])
	assert.Equal(t, 1, got["failed"])
	assert.Contains(t, buf.String(), "status: mismatch")
	assert.Contains(t, buf.String(), "member: NameAcquired")
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleReport(), Format("xml"))
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "toml", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		expected signature.Signature
		derived  signature.Signature
		want     string
	}{
		{name: "equal after strip", expected: "a{sv}", derived: "(a{sv})", want: "a{sv}"},
		{name: "extra field", expected: "s", derived: "(si)", want: "s{+i+}"},
		{name: "missing field", expected: "(so)", derived: "(s)", want: "s[-o-]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Diff(tc.expected, tc.derived))
		})
	}
}

func TestCheck(t *testing.T) {
	dir, err := filepath.Abs("../../tests/testdata/xml")
	require.NoError(t, err)
	docs, err := docset.Load(context.Background(), dir)
	require.NoError(t, err)
	v := validator.New(finder.New(docs))

	idx, err := indexer.New("../../tests/testdata")
	require.NoError(t, err)
	require.NoError(t, idx.Index())

	got := make(map[string]Entry)
	var r Report
	for _, target := range idx.Targets() {
		e := Check(v, target)
		got[e.Subject.Name] = e
		r.Add(e)
	}
	assert.Equal(t, 9, r.Passed)
	assert.Equal(t, 3, r.Failed)

	tick := got["Tick"]
	assert.Equal(t, StatusOK, tick.Status)
	assert.Equal(t, "org.example.Monitor.Child", tick.Interface)
	assert.Equal(t, signature.Signature("t(xx)"), tick.Expected)

	ping := got["Ping"]
	assert.Equal(t, StatusAmbiguous, ping.Status)
	assert.Len(t, ping.Candidates, 2)

	unsupported := got["Unsupported"]
	assert.Equal(t, StatusError, unsupported.Status)
	assert.Equal(t, finder.PartSignal, unsupported.Part)
	assert.Contains(t, unsupported.Error, "deriving signature of Unsupported")

	assert.Equal(t, StatusMismatch, got["NameLostEvent"].Status)
	assert.Equal(t, "NameLost", got["NameLostEvent"].Member)
}
