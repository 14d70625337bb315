// Package docset acquires introspection documents from a directory, file or storage URL.
package docset

import (
	"bytes"
	"context"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/tender-barbarian/go-lockstep/internal/idl"
)

// Extension of the documents picked up from a directory listing.
const Extension = ".xml"

// Loader lists and parses introspection documents through afs, so local paths,
// file://, mem:// and cloud storage URLs are all accepted.
type Loader struct {
	fs     afs.Service
	logger *slog.Logger
}

// New returns a Loader backed by fs. A nil fs uses afs.New().
func New(fs afs.Service, logger *slog.Logger) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fs: fs, logger: logger}
}

// Load returns the parsed documents under URL ordered by object URL.
// Sub-directories and files without the .xml extension are skipped.
func (l *Loader) Load(ctx context.Context, URL string) ([]*idl.Document, error) {
	objects, err := l.fs.List(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list: %v", URL)
	}

	var files []storage.Object
	for _, object := range objects {
		if object.IsDir() || !strings.EqualFold(path.Ext(object.Name()), Extension) {
			continue
		}
		files = append(files, object)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].URL() < files[j].URL() })

	docs := make([]*idl.Document, 0, len(files))
	for _, object := range files {
		data, err := l.fs.Download(ctx, object)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to download: %v", object.URL())
		}
		doc, err := idl.Parse(object.URL(), bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse: %v", object.URL())
		}
		l.logger.Debug("loaded introspection document",
			slog.String("url", object.URL()),
			slog.Int("interfaces", len(doc.Interfaces)))
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, errors.Errorf("no %s documents found at %v", Extension, URL)
	}
	return docs, nil
}

// Load is a convenience wrapper using a default Loader.
func Load(ctx context.Context, URL string) ([]*idl.Document, error) {
	return New(nil, nil).Load(ctx, URL)
}
