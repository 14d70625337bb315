// Package validator checks native structure signatures against the member
// signatures declared in introspection documents.
package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tender-barbarian/go-lockstep/internal/config"
	"github.com/tender-barbarian/go-lockstep/internal/docset"
	"github.com/tender-barbarian/go-lockstep/internal/finder"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

// Subject describes a native structure and its derived wire signature.
type Subject struct {
	Name      string              `json:"name"`
	Signature signature.Signature `json:"signature"`
	// Location is informational, e.g. "events.go:12".
	Location string `json:"location,omitempty"`
	// Package is the import path of the type, set when derived by reflection.
	Package string `json:"package,omitempty"`
}

// String names the subject with its location, or its package when the
// location is unknown.
func (s Subject) String() string {
	switch {
	case s.Location != "":
		return s.Name + " (" + s.Location + ")"
	case s.Package != "":
		return s.Name + " (" + s.Package + ")"
	}
	return s.Name
}

// Options override how the expected member is resolved.
type Options struct {
	// Part defaults to finder.PartSignal.
	Part finder.Part `json:"part,omitempty"`
	// Member defaults to the subject name.
	Member    string `json:"member,omitempty"`
	Interface string `json:"interface,omitempty"`
}

// Error wraps a validation failure with the subject being validated.
type Error struct {
	Subject Subject
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("validating %s: %v", e.Subject, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// memberSuffixes are conventional type-name suffixes dropped when the subject
// name itself is not a member, e.g. AddNodeEvent resolves to AddNode.
var memberSuffixes = map[finder.Part][]string{
	finder.PartSignal:   {"Event", "Signal"},
	finder.PartArgs:     {"Args", "Request"},
	finder.PartReturn:   {"Reply", "Response", "Return"},
	finder.PartProperty: {"Property"},
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithDeriver replaces the ReflectDeriver used by ValidateValue.
func WithDeriver(d Deriver) Option {
	return func(v *Validator) { v.deriver = d }
}

// WithPins sets member to interface pins applied when Options.Interface is empty.
func WithPins(pins map[string]string) Option {
	return func(v *Validator) { v.pins = pins }
}

// Validator resolves expected signatures through a Finder and compares them with
// derived ones. It holds no mutable state and is safe for concurrent use.
type Validator struct {
	finder  *finder.Finder
	deriver Deriver
	logger  *slog.Logger
	pins    map[string]string
}

// New creates a Validator over f.
func New(f *finder.Finder, opts ...Option) *Validator {
	v := &Validator{finder: f, deriver: ReflectDeriver{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Open loads the documents named by cfg and returns a Validator over them.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Validator, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	v := New(nil, opts...)
	docs, err := docset.New(nil, v.logger).Load(ctx, cfg.XMLPath)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}
	v.finder = finder.New(docs)
	if v.pins == nil {
		v.pins = cfg.Pins
	}
	return v, nil
}

// Finder returns the finder the Validator resolves members with.
func (v *Validator) Finder() *finder.Finder {
	return v.finder
}

// Validate resolves the member expected for s and checks that its signature is
// equivalent to s.Signature. Failures are returned as *Error.
func (v *Validator) Validate(s Subject, o Options) (finder.Resolution, error) {
	res, err := v.resolve(s, o)
	if err != nil {
		return res, &Error{Subject: s, Err: err}
	}
	v.logger.Debug("resolved member",
		slog.String("subject", s.Name),
		slog.String("member", res.Name),
		slog.String("interface", res.Interface),
		slog.String("expected", res.Signature.String()),
		slog.String("derived", s.Signature.String()))

	if err := signature.Check(res.Signature, s.Signature); err != nil {
		return res, &Error{Subject: s, Err: err}
	}
	return res, nil
}

// ValidateValue derives the subject from value and validates it.
func (v *Validator) ValidateValue(value any, o Options) (finder.Resolution, error) {
	s, err := v.deriver.Derive(value)
	if err != nil {
		if s.Name == "" {
			s.Name = fmt.Sprintf("%T", value)
		}
		return finder.Resolution{}, &Error{Subject: s, Err: err}
	}
	return v.Validate(s, o)
}

func (v *Validator) resolve(s Subject, o Options) (finder.Resolution, error) {
	part := o.Part
	if part == "" {
		part = finder.PartSignal
	}
	if o.Member != "" {
		return v.finder.Resolve(o.Member, v.iface(o.Member, o.Interface), part)
	}

	var firstErr error
	for _, name := range CandidateNames(s.Name, part) {
		res, err := v.finder.Resolve(name, v.iface(name, o.Interface), part)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, finder.ErrNotFound) {
			return res, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return finder.Resolution{}, firstErr
}

func (v *Validator) iface(member, explicit string) string {
	if explicit != "" {
		return explicit
	}
	iface, _ := config.LookupPin(v.pins, member)
	return iface
}

// CandidateNames returns the member names tried for a subject: the name itself,
// then the name without a conventional suffix for part.
func CandidateNames(name string, part finder.Part) []string {
	names := []string{name}
	for _, suffix := range memberSuffixes[part] {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
			names = append(names, trimmed)
			break
		}
	}
	return names
}
