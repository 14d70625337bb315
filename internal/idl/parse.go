package idl

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/godbus/dbus/v5/introspect"

	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

// Parse decodes an introspection XML document read from r.
// Interfaces of nested <node> elements are flattened in depth-first order.
func Parse(source string, r io.Reader) (*Document, error) {
	var node introspect.Node
	if err := xml.NewDecoder(r).Decode(&node); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	return FromNode(source, &node), nil
}

// FromNode adapts a godbus introspection node into a Document.
func FromNode(source string, node *introspect.Node) *Document {
	doc := &Document{Source: source}
	collect(doc, node)
	return doc
}

func collect(doc *Document, node *introspect.Node) {
	for _, iface := range node.Interfaces {
		doc.Interfaces = append(doc.Interfaces, fromInterface(iface))
	}
	for i := range node.Children {
		collect(doc, &node.Children[i])
	}
}

func fromInterface(in introspect.Interface) Interface {
	out := Interface{Name: in.Name}
	for _, m := range in.Methods {
		out.Methods = append(out.Methods, Method{Name: m.Name, Args: fromArgs(m.Args)})
	}
	for _, s := range in.Signals {
		out.Signals = append(out.Signals, Signal{Name: s.Name, Args: fromArgs(s.Args)})
	}
	for _, p := range in.Properties {
		out.Properties = append(out.Properties, Property{
			Name:   p.Name,
			Type:   signature.Signature(p.Type),
			Access: p.Access,
		})
	}
	return out
}

func fromArgs(in []introspect.Arg) []Arg {
	if len(in) == 0 {
		return nil
	}
	out := make([]Arg, len(in))
	for i, a := range in {
		out[i] = Arg{Name: a.Name, Type: signature.Signature(a.Type), Direction: a.Direction}
	}
	return out
}
