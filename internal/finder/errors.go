package finder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound  = errors.New("member not found")
	ErrAmbiguous = errors.New("member is ambiguous")
)

// NotFoundError reports that no interface offers the queried member.
type NotFoundError struct {
	Query Query
}

func (e *NotFoundError) Error() string {
	return e.Query.String() + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Candidate is one interface that offers an ambiguous member.
type Candidate struct {
	Interface string `json:"interface"`
	Source    string `json:"source"`
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s (%s)", c.Interface, c.Source)
}

// AmbiguousError reports that several interfaces offer the queried member.
// Retrying with Query.Interface set to one of the candidates resolves it.
type AmbiguousError struct {
	Query      Query
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = c.String()
	}
	return fmt.Sprintf("multiple interfaces offer the same %s member %q: %s; please specify the interface name",
		e.Query.Kind, e.Query.Name, strings.Join(parts, ", "))
}

func (e *AmbiguousError) Is(target error) bool { return target == ErrAmbiguous }

// Interfaces returns the distinct candidate interface names in traversal order.
func (e *AmbiguousError) Interfaces() []string {
	seen := make(map[string]bool, len(e.Candidates))
	var names []string
	for _, c := range e.Candidates {
		if seen[c.Interface] {
			continue
		}
		seen[c.Interface] = true
		names = append(names, c.Interface)
	}
	return names
}
