package validator

import (
	"fmt"
	"reflect"

	"github.com/godbus/dbus/v5"

	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

// Deriver produces the wire signature of a native value.
type Deriver interface {
	Derive(v any) (Subject, error)
}

// ReflectDeriver derives signatures at runtime with godbus's marshalling rules.
type ReflectDeriver struct{}

// Derive returns a Subject named after the value's type.
// godbus panics on types it cannot marshal; the panic is returned as an error
// alongside the Subject's name and package.
func (ReflectDeriver) Derive(v any) (s Subject, err error) {
	if v == nil {
		return Subject{}, fmt.Errorf("cannot derive a signature from nil")
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s = Subject{Name: t.Name(), Package: t.PkgPath()}
	defer func() {
		if r := recover(); r != nil {
			s.Signature = ""
			err = fmt.Errorf("deriving signature: %v", r)
		}
	}()
	s.Signature = signature.Signature(dbus.SignatureOfType(t).String())
	return s, nil
}

// DeriverFunc adapts a function to the Deriver interface.
type DeriverFunc func(v any) (Subject, error)

func (f DeriverFunc) Derive(v any) (Subject, error) { return f(v) }
