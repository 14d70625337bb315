package indexer

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/tender-barbarian/go-lockstep/internal/validator"
)

// Location identifies the source position of a type.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", filepath.Base(l.File), l.Line)
}

// FieldInfo describes a struct field and the signature it contributes.
type FieldInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Signature string `json:"signature,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"` // unexported or tagged dbus:"-"
}

// Target is a type annotated with a //lockstep:validate directive.
type Target struct {
	Package   string            `json:"package"`
	Subject   validator.Subject `json:"subject"`
	Options   validator.Options `json:"options"`
	Fields    []FieldInfo       `json:"fields,omitempty"`
	Location  Location          `json:"location"`
	DeriveErr error             `json:"-"`
}

// Indexer holds the annotated types found in a Go codebase.
type Indexer struct {
	root    string
	fset    *token.FileSet
	targets []Target
}

// Targets returns the annotated types ordered by package, file and line.
func (idx *Indexer) Targets() []Target {
	return idx.targets
}

// New creates an Indexer rooted at rootPath. Call Index to load and scan packages.
func New(rootPath string) (*Indexer, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}
	return &Indexer{root: absRoot}, nil
}

// Index loads all packages under the root and rebuilds the target list.
// It can be called again to re-scan after source changes.
func (idx *Indexer) Index() error {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedImports,
		Dir:  idx.root,
		Fset: fset,
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return fmt.Errorf("loading packages: %w", err)
	}

	idx.fset = fset
	idx.targets = nil

	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		// Only index packages whose source files live under the root directory.
		if len(pkg.GoFiles) > 0 && isUnderRoot(pkg.GoFiles[0], idx.root) {
			if err := idx.indexPackage(pkg); err != nil {
				return err
			}
		}
	}

	sort.SliceStable(idx.targets, func(i, j int) bool {
		a, b := idx.targets[i], idx.targets[j]
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		return a.Location.Line < b.Location.Line
	})
	return nil
}

// indexPackage collects the annotated types of a single package.
func (idx *Indexer) indexPackage(pkg *packages.Package) error {
	directives := idx.buildDirectiveMap(pkg.Syntax)

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		text, ok := directives[tn.Pos()]
		if !ok {
			continue
		}
		d, err := ParseDirective(text)
		if err != nil {
			pos := idx.fset.Position(tn.Pos())
			return fmt.Errorf("%s:%d: %w", pos.Filename, pos.Line, err)
		}
		idx.targets = append(idx.targets, idx.target(tn, pkg.PkgPath, d))
	}
	return nil
}

// target derives the signature of an annotated type.
func (idx *Indexer) target(tn *types.TypeName, pkgPath string, opts validator.Options) Target {
	pos := idx.fset.Position(tn.Pos())
	t := Target{
		Package:  pkgPath,
		Options:  opts,
		Location: Location{File: pos.Filename, Line: pos.Line},
	}
	t.Subject = validator.Subject{Name: tn.Name(), Location: t.Location.String()}

	sig, err := SignatureOf(tn.Type())
	if err != nil {
		t.DeriveErr = fmt.Errorf("deriving signature of %s: %w", tn.Name(), err)
	}
	t.Subject.Signature = sig

	if s, ok := tn.Type().Underlying().(*types.Struct); ok {
		t.Fields = structFields(s)
	}
	return t
}

// structFields lists a struct's fields with the signature each one contributes.
func structFields(s *types.Struct) []FieldInfo {
	fields := make([]FieldInfo, 0, s.NumFields())
	for i := range s.NumFields() {
		f := s.Field(i)
		fi := FieldInfo{Name: f.Name(), Type: types.TypeString(f.Type(), nil)}
		if skipField(f, s.Tag(i)) {
			fi.Skipped = true
		} else if sig, err := SignatureOf(f.Type()); err == nil {
			fi.Signature = string(sig)
		}
		fields = append(fields, fi)
	}
	return fields
}

// isUnderRoot reports whether path is within root (both should be absolute).
func isUnderRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}

// buildDirectiveMap extracts //lockstep:validate lines for type declarations,
// keyed by the type name's position. Directive lines are dropped by
// CommentGroup.Text, so the raw comment list is scanned.
func (idx *Indexer) buildDirectiveMap(files []*ast.File) map[token.Pos]string {
	directives := make(map[token.Pos]string)
	for _, f := range files {
		for _, decl := range f.Decls {
			d, ok := decl.(*ast.GenDecl)
			if !ok || d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				s, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if text, ok := idx.specDirective(s.Doc, d.Doc, len(d.Specs)); ok {
					directives[s.Name.Pos()] = text
				}
			}
		}
	}
	return directives
}

// specDirective returns the directive for a spec within a GenDecl.
// It prefers the spec's own doc, falling back to the group doc for single-spec decls.
func (idx *Indexer) specDirective(specDoc, groupDoc *ast.CommentGroup, specCount int) (string, bool) {
	if text, ok := findDirective(specDoc); ok {
		return text, true
	}
	if specCount == 1 {
		return findDirective(groupDoc)
	}
	return "", false
}

func findDirective(cg *ast.CommentGroup) (string, bool) {
	if cg == nil {
		return "", false
	}
	for _, c := range cg.List {
		if strings.HasPrefix(c.Text, DirectivePrefix) {
			return c.Text, true
		}
	}
	return "", false
}
