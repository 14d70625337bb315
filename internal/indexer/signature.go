package indexer

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"
	"strings"

	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

// godbusPath is the import path whose named types carry their own codes.
const godbusPath = "github.com/godbus/dbus/v5"

// maxDepth bounds container nesting, as the wire format does.
const maxDepth = 64

// ErrUnsupportedType is returned for Go types that have no wire representation.
var ErrUnsupportedType = errors.New("type has no D-Bus representation")

var godbusNamed = map[string]string{
	"ObjectPath":  "o",
	"Signature":   "g",
	"Variant":     "v",
	"UnixFD":      "h",
	"UnixFDIndex": "h",
}

var basicCodes = map[types.BasicKind]string{
	types.Bool:    "b",
	types.Uint8:   "y",
	types.Int16:   "n",
	types.Uint16:  "q",
	types.Int:     "i",
	types.Int32:   "i",
	types.Uint:    "u",
	types.Uint32:  "u",
	types.Int64:   "x",
	types.Uint64:  "t",
	types.Float64: "d",
	types.String:  "s",
}

// SignatureOf derives the wire signature of a type-checked Go type following
// the same rules godbus applies at runtime with reflection.
func SignatureOf(t types.Type) (signature.Signature, error) {
	var b strings.Builder
	if err := writeSignature(&b, t, 0); err != nil {
		return "", err
	}
	return signature.Signature(b.String()), nil
}

func writeSignature(b *strings.Builder, t types.Type, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%s: nesting deeper than %d", types.TypeString(t, nil), maxDepth)
	}
	t = types.Unalias(t)

	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		if obj.Pkg() != nil && obj.Pkg().Path() == godbusPath {
			if code, ok := godbusNamed[obj.Name()]; ok {
				b.WriteString(code)
				return nil
			}
		}
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		code, ok := basicCodes[u.Kind()]
		if !ok {
			return fmt.Errorf("%s: %w", types.TypeString(t, nil), ErrUnsupportedType)
		}
		b.WriteString(code)
	case *types.Pointer:
		return writeSignature(b, u.Elem(), depth)
	case *types.Slice:
		b.WriteByte('a')
		return writeSignature(b, u.Elem(), depth+1)
	case *types.Array:
		b.WriteByte('a')
		return writeSignature(b, u.Elem(), depth+1)
	case *types.Map:
		if !isKeyType(u.Key()) {
			return fmt.Errorf("%s: invalid dict key %s: %w", types.TypeString(t, nil), types.TypeString(u.Key(), nil), ErrUnsupportedType)
		}
		b.WriteString("a{")
		if err := writeSignature(b, u.Key(), depth+1); err != nil {
			return err
		}
		if err := writeSignature(b, u.Elem(), depth+1); err != nil {
			return err
		}
		b.WriteByte('}')
	case *types.Interface:
		b.WriteByte('v')
	case *types.Struct:
		var fields strings.Builder
		for i := range u.NumFields() {
			if skipField(u.Field(i), u.Tag(i)) {
				continue
			}
			if err := writeSignature(&fields, u.Field(i).Type(), depth+1); err != nil {
				return err
			}
		}
		if fields.Len() == 0 {
			return fmt.Errorf("%s: struct without exported fields: %w", types.TypeString(t, nil), ErrUnsupportedType)
		}
		b.WriteByte('(')
		b.WriteString(fields.String())
		b.WriteByte(')')
	default:
		return fmt.Errorf("%s: %w", types.TypeString(t, nil), ErrUnsupportedType)
	}
	return nil
}

// isKeyType mirrors godbus: dict keys are basic types other than bool.
// Pointers are not dereferenced for keys.
func isKeyType(t types.Type) bool {
	basic, ok := types.Unalias(t).Underlying().(*types.Basic)
	if !ok || basic.Kind() == types.Bool {
		return false
	}
	_, ok = basicCodes[basic.Kind()]
	return ok
}

// skipField mirrors godbus: unexported fields and fields tagged dbus:"-" are not sent.
func skipField(f *types.Var, tag string) bool {
	return !f.Exported() || reflect.StructTag(tag).Get("dbus") == "-"
}
