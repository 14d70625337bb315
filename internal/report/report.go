// Package report renders validation outcomes as text, JSON or YAML.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/indexer"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
	"github.com/tender-barbarian/go-lockstep/internal/validator"
)

// Status classifies the outcome of validating one subject.
type Status string

const (
	StatusOK        Status = "ok"
	StatusMismatch  Status = "mismatch"
	StatusNotFound  Status = "not_found"
	StatusAmbiguous Status = "ambiguous"
	StatusError     Status = "error"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name, defaulting to text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// Entry is the outcome for a single subject.
type Entry struct {
	Subject    validator.Subject   `json:"subject" yaml:"subject"`
	Part       finder.Part         `json:"part,omitempty" yaml:"part,omitempty"`
	Member     string              `json:"member,omitempty" yaml:"member,omitempty"`
	Interface  string              `json:"interface,omitempty" yaml:"interface,omitempty"`
	Source     string              `json:"source,omitempty" yaml:"source,omitempty"`
	Expected   signature.Signature `json:"expected,omitempty" yaml:"expected,omitempty"`
	Status     Status              `json:"status" yaml:"status"`
	Error      string              `json:"error,omitempty" yaml:"error,omitempty"`
	Candidates []string            `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// NewEntry builds an entry from the result of validator.Validate.
func NewEntry(s validator.Subject, res finder.Resolution, err error) Entry {
	e := Entry{
		Subject:   s,
		Part:      res.Part,
		Member:    res.Name,
		Interface: res.Interface,
		Source:    res.Source,
		Expected:  res.Signature,
		Status:    StatusOK,
	}
	if err == nil {
		return e
	}
	e.Error = err.Error()

	var mismatch *signature.MismatchError
	var ambiguous *finder.AmbiguousError
	switch {
	case errors.As(err, &mismatch):
		e.Status = StatusMismatch
	case errors.As(err, &ambiguous):
		e.Status = StatusAmbiguous
		for _, c := range ambiguous.Candidates {
			e.Candidates = append(e.Candidates, c.String())
		}
	case errors.Is(err, finder.ErrNotFound):
		e.Status = StatusNotFound
	default:
		e.Status = StatusError
	}
	return e
}

// Check validates one indexed target with v and returns its entry. Targets
// whose signature could not be derived are reported without resolving.
func Check(v *validator.Validator, target indexer.Target) Entry {
	if target.DeriveErr != nil {
		return NewEntry(target.Subject, finder.Resolution{Part: target.Options.Part}, target.DeriveErr)
	}
	res, err := v.Validate(target.Subject, target.Options)
	return NewEntry(target.Subject, res, err)
}

// Report collects entries in the order they were validated.
type Report struct {
	Entries []Entry `json:"entries" yaml:"entries"`
	Passed  int     `json:"passed" yaml:"passed"`
	Failed  int     `json:"failed" yaml:"failed"`
}

// Add appends e and updates the counters.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
	if e.Status == StatusOK {
		r.Passed++
	} else {
		r.Failed++
	}
}

// OK reports whether every entry passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, r)
	}
	return fmt.Errorf("unknown format %q", f)
}

func writeText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range r.Entries {
		member := e.Member
		if e.Interface != "" {
			member = e.Interface + "." + e.Member
		}
		if e.Status == StatusOK {
			fmt.Fprintf(tw, "ok\t%s\t%s %s\t%s\n", e.Subject, e.Part, member, e.Expected)
			continue
		}
		fmt.Fprintf(tw, "FAIL\t%s\t%s\t%s\n", e.Subject, e.Status, e.Error)
		if e.Status == StatusMismatch {
			fmt.Fprintf(tw, "\t  expected\t%s\t\n", e.Expected)
			fmt.Fprintf(tw, "\t  derived\t%s\t\n", e.Subject.Signature)
			fmt.Fprintf(tw, "\t  diff\t%s\t\n", Diff(e.Expected, e.Subject.Signature))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d checked, %d passed, %d failed\n", len(r.Entries), r.Passed, r.Failed)
	return err
}

// Diff renders a character diff between the stripped forms of expected and
// derived, marking deletions as [-x-] and insertions as {+x+}.
func Diff(expected, derived signature.Signature) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(signature.Strip(expected)), string(signature.Strip(derived)), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
