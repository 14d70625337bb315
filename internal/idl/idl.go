// Package idl holds the in-memory model of D-Bus interface description documents.
// Values are built once by Parse and only read afterwards.
package idl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

// Kind classifies an interface member.
type Kind string

const (
	KindMethod   Kind = "method"
	KindSignal   Kind = "signal"
	KindProperty Kind = "property"
)

// ParseKind converts a case-insensitive kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindMethod, KindSignal, KindProperty:
		return k, nil
	}
	return "", fmt.Errorf("unknown member kind %q", s)
}

// Arg directions as they appear in introspection XML.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// ErrUnsupportedReturn is returned for methods that do not declare exactly one output argument.
var ErrUnsupportedReturn = errors.New("method must declare exactly one output argument")

// Arg is a single method or signal argument.
type Arg struct {
	Name      string              `json:"name,omitempty" yaml:"name,omitempty"`
	Type      signature.Signature `json:"type" yaml:"type"`
	Direction string              `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Member is implemented by *Method, *Signal and *Property.
type Member interface {
	MemberName() string
	Kind() Kind
}

// Method describes a method and its ordered arguments.
type Method struct {
	Name string `json:"name"`
	Args []Arg  `json:"args,omitempty"`
}

func (m *Method) MemberName() string { return m.Name }
func (m *Method) Kind() Kind         { return KindMethod }

// In returns the input arguments in declaration order.
func (m *Method) In() []Arg {
	return m.filter(DirectionIn)
}

// Out returns the output arguments in declaration order.
func (m *Method) Out() []Arg {
	return m.filter(DirectionOut)
}

func (m *Method) filter(direction string) []Arg {
	var args []Arg
	for _, a := range m.Args {
		d := a.Direction
		if d == "" {
			d = DirectionIn
		}
		if d == direction {
			args = append(args, a)
		}
	}
	return args
}

// ArgsSignature concatenates the input argument signatures without struct delimiters.
func (m *Method) ArgsSignature() signature.Signature {
	return concat(m.In())
}

// ReturnSignature returns the signature of the single output argument.
func (m *Method) ReturnSignature() (signature.Signature, error) {
	out := m.Out()
	if len(out) != 1 {
		return "", fmt.Errorf("method %q has %d output arguments: %w", m.Name, len(out), ErrUnsupportedReturn)
	}
	return out[0].Type, nil
}

// Signal describes a signal and its ordered body arguments.
type Signal struct {
	Name string `json:"name"`
	Args []Arg  `json:"args,omitempty"`
}

func (s *Signal) MemberName() string { return s.Name }
func (s *Signal) Kind() Kind         { return KindSignal }

// BodySignature concatenates the body argument signatures.
func (s *Signal) BodySignature() signature.Signature {
	return concat(s.Args)
}

// Property describes a property with its single signature.
type Property struct {
	Name   string              `json:"name"`
	Type   signature.Signature `json:"type"`
	Access string              `json:"access,omitempty"`
}

func (p *Property) MemberName() string { return p.Name }
func (p *Property) Kind() Kind         { return KindProperty }

// Interface is a named group of members.
type Interface struct {
	Name       string     `json:"name"`
	Methods    []Method   `json:"methods,omitempty"`
	Signals    []Signal   `json:"signals,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Members returns the members of the given kind in declaration order.
func (i *Interface) Members(kind Kind) []Member {
	var members []Member
	switch kind {
	case KindMethod:
		for j := range i.Methods {
			members = append(members, &i.Methods[j])
		}
	case KindSignal:
		for j := range i.Signals {
			members = append(members, &i.Signals[j])
		}
	case KindProperty:
		for j := range i.Properties {
			members = append(members, &i.Properties[j])
		}
	}
	return members
}

// Member returns the first member of the given kind named name.
func (i *Interface) Member(kind Kind, name string) (Member, bool) {
	for _, m := range i.Members(kind) {
		if m.MemberName() == name {
			return m, true
		}
	}
	return nil, false
}

// Document is one parsed introspection document.
type Document struct {
	// Source identifies where the document was read from, usually a file URL.
	Source     string      `json:"source"`
	Interfaces []Interface `json:"interfaces"`
}

// MemberRef is a lightweight reference returned by cross-document member search.
type MemberRef struct {
	Name      string              `json:"name"`
	Kind      Kind                `json:"kind"`
	Interface string              `json:"interface"`
	Source    string              `json:"source"`
	Signature signature.Signature `json:"signature,omitempty"`
}

// InterfaceRef summarises an interface for listings.
type InterfaceRef struct {
	Name          string `json:"name" yaml:"name"`
	Source        string `json:"source" yaml:"source"`
	MethodCount   int    `json:"method_count" yaml:"method_count"`
	SignalCount   int    `json:"signal_count" yaml:"signal_count"`
	PropertyCount int    `json:"property_count" yaml:"property_count"`
}

func concat(args []Arg) signature.Signature {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(string(a.Type))
	}
	return signature.Signature(b.String())
}
