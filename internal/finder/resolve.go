package finder

import (
	"fmt"
	"strings"

	"github.com/tender-barbarian/go-lockstep/internal/idl"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

// Part selects which signature of a member is resolved.
type Part string

const (
	PartArgs     Part = "args"
	PartReturn   Part = "return"
	PartSignal   Part = "signal"
	PartProperty Part = "property"
)

// ParsePart converts a part name. The empty string yields PartSignal.
func ParsePart(s string) (Part, error) {
	switch p := Part(strings.ToLower(s)); p {
	case "":
		return PartSignal, nil
	case PartArgs, PartReturn, PartSignal, PartProperty:
		return p, nil
	}
	return "", fmt.Errorf("unknown part %q (want args, return, signal or property)", s)
}

// Kind returns the member kind that carries the part.
func (p Part) Kind() idl.Kind {
	switch p {
	case PartArgs, PartReturn:
		return idl.KindMethod
	case PartProperty:
		return idl.KindProperty
	default:
		return idl.KindSignal
	}
}

// Resolution is a located member together with the signature selected by Part.
type Resolution struct {
	Result
	Part      Part                `json:"part"`
	Name      string              `json:"name"`
	Signature signature.Signature `json:"signature"`
}

// Resolve locates name (optionally within iface) and composes the signature for part.
func (f *Finder) Resolve(name, iface string, part Part) (Resolution, error) {
	if part == "" {
		part = PartSignal
	}
	res, err := f.Locate(Query{Name: name, Kind: part.Kind(), Interface: iface})
	if err != nil {
		return Resolution{}, err
	}
	sig, err := Compose(res.Member, part)
	if err != nil {
		return Resolution{}, fmt.Errorf("%s.%s: %w", res.Interface, name, err)
	}
	return Resolution{Result: res, Part: part, Name: name, Signature: sig}, nil
}

// Compose returns the signature of m selected by part.
func Compose(m idl.Member, part Part) (signature.Signature, error) {
	switch v := m.(type) {
	case *idl.Method:
		if part == PartReturn {
			return v.ReturnSignature()
		}
		return v.ArgsSignature(), nil
	case *idl.Signal:
		return v.BodySignature(), nil
	case *idl.Property:
		return v.Type, nil
	}
	return "", fmt.Errorf("unsupported member %T", m)
}
