package finder

import (
	"fmt"
	"strings"

	"github.com/tender-barbarian/go-lockstep/internal/idl"
	"github.com/tender-barbarian/go-lockstep/internal/signature"
)

// MatchMode controls how member names are compared in FindMember.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchPrefix   MatchMode = "prefix"
	MatchContains MatchMode = "contains"
)

func matchesQuery(memberName, query string, mode MatchMode) bool {
	switch mode {
	case MatchPrefix:
		return strings.HasPrefix(memberName, query)
	case MatchContains:
		return strings.Contains(memberName, query)
	default:
		return memberName == query
	}
}

// Query selects a member by name and kind, optionally restricted to one interface.
type Query struct {
	Name      string
	Kind      idl.Kind
	Interface string
}

func (q Query) String() string {
	if q.Interface == "" {
		return fmt.Sprintf("%s %q", q.Kind, q.Name)
	}
	return fmt.Sprintf("%s %q in interface %q", q.Kind, q.Name, q.Interface)
}

// Result is a successfully located member.
type Result struct {
	Source    string     `json:"source"`
	Interface string     `json:"interface"`
	Member    idl.Member `json:"-"`
}

// Finder queries a fixed set of documents for interface members.
// Documents are never modified, so a Finder is safe for concurrent use.
type Finder struct {
	docs []*idl.Document
}

// New creates a Finder over docs. Traversal follows the order of docs.
func New(docs []*idl.Document) *Finder {
	return &Finder{docs: docs}
}

// Documents returns the documents the Finder searches.
func (f *Finder) Documents() []*idl.Document {
	return f.docs
}

// Locate finds the single member matching q.
// It returns a *NotFoundError when nothing matches and an *AmbiguousError when
// more than one interface offers the member.
func (f *Finder) Locate(q Query) (Result, error) {
	var (
		result     Result
		candidates []Candidate
	)
	for _, doc := range f.docs {
		for i := range doc.Interfaces {
			iface := &doc.Interfaces[i]
			if q.Interface != "" && iface.Name != q.Interface {
				continue
			}
			m, ok := iface.Member(q.Kind, q.Name)
			if !ok {
				continue
			}
			if len(candidates) == 0 {
				result = Result{Source: doc.Source, Interface: iface.Name, Member: m}
			}
			candidates = append(candidates, Candidate{Interface: iface.Name, Source: doc.Source})
		}
	}

	switch len(candidates) {
	case 0:
		return Result{}, &NotFoundError{Query: q}
	case 1:
		return result, nil
	default:
		return Result{}, &AmbiguousError{Query: q, Candidates: candidates}
	}
}

// FindMember searches for members matching name across all documents and kinds.
// mode controls how name is compared: exact (default), prefix, or contains.
func (f *Finder) FindMember(name string, mode MatchMode) []idl.MemberRef {
	var refs []idl.MemberRef
	for _, doc := range f.docs {
		for i := range doc.Interfaces {
			iface := &doc.Interfaces[i]
			for _, kind := range []idl.Kind{idl.KindMethod, idl.KindSignal, idl.KindProperty} {
				refs = append(refs, refsFromMembers(doc.Source, iface, kind, name, mode)...)
			}
		}
	}
	return refs
}

// refsFromMembers returns idl.MemberRefs for members of one kind matching name.
func refsFromMembers(source string, iface *idl.Interface, kind idl.Kind, name string, mode MatchMode) []idl.MemberRef {
	var refs []idl.MemberRef
	for _, m := range iface.Members(kind) {
		if !matchesQuery(m.MemberName(), name, mode) {
			continue
		}
		refs = append(refs, idl.MemberRef{
			Name:      m.MemberName(),
			Kind:      kind,
			Interface: iface.Name,
			Source:    source,
			Signature: memberSignature(m),
		})
	}
	return refs
}

// memberSignature is the signature shown in listings: method arguments, signal body or property type.
func memberSignature(m idl.Member) signature.Signature {
	switch v := m.(type) {
	case *idl.Method:
		return v.ArgsSignature()
	case *idl.Signal:
		return v.BodySignature()
	case *idl.Property:
		return v.Type
	}
	return ""
}

// Interfaces returns a summary of every interface in traversal order.
func (f *Finder) Interfaces() []idl.InterfaceRef {
	var refs []idl.InterfaceRef
	for _, doc := range f.docs {
		for _, iface := range doc.Interfaces {
			refs = append(refs, idl.InterfaceRef{
				Name:          iface.Name,
				Source:        doc.Source,
				MethodCount:   len(iface.Methods),
				SignalCount:   len(iface.Signals),
				PropertyCount: len(iface.Properties),
			})
		}
	}
	return refs
}

// GetInterface returns the first interface named name.
func (f *Finder) GetInterface(name string) (*idl.Interface, bool) {
	for _, doc := range f.docs {
		for i := range doc.Interfaces {
			if doc.Interfaces[i].Name == name {
				return &doc.Interfaces[i], true
			}
		}
	}
	return nil, false
}
