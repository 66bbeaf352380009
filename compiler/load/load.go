// Package load reads schema documents from an ordered list of contributor
// directories and assembles them into the fragment set consumed by the
// resolver.
//
// Documents are parsed concurrently, but fragments are always assembled in
// (directory order, file name, document order) so the override semantics of
// the merge stage see a stable declaration order regardless of scheduling.
package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/mosaic/compiler/resolve"
	"github.com/syssam/mosaic/schema"
)

// Loader reads schema documents for one run.
type Loader struct {
	dirs    []string
	workers int
	log     zerolog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader's logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithWorkers bounds the parse parallelism.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// NewLoader creates a loader over the given contributor directories, in the
// given order.
func NewLoader(dirs []string, opts ...Option) *Loader {
	l := &Loader{
		dirs:    dirs,
		workers: runtime.GOMAXPROCS(0),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// document is one discovered schema document and its parse slot.
type document struct {
	origin schema.Origin
	path   string
	parsed *schema.Document
}

// Load discovers and parses every schema document and returns the assembled
// fragment set with global declaration order indexes assigned.
func (l *Loader) Load(ctx context.Context) (*resolve.Input, error) {
	docs, err := l.discover()
	if err != nil {
		return nil, err
	}

	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(l.workers)
	for _, d := range docs {
		errg.Go(func() error {
			data, err := os.ReadFile(d.path)
			if err != nil {
				return fmt.Errorf("load: read %s: %w", d.path, err)
			}
			d.parsed, err = schema.DecodeDocument(data, d.origin)
			return err
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	in := &resolve.Input{}
	for _, d := range docs {
		in.Types = append(in.Types, d.parsed.Types...)
		in.Mixins = append(in.Mixins, d.parsed.Mixins...)
		for _, tf := range d.parsed.Tables {
			tf.Index = len(in.Tables)
			in.Tables = append(in.Tables, tf)
		}
		l.log.Debug().
			Str("document", d.origin.String()).
			Int("types", len(d.parsed.Types)).
			Int("mixins", len(d.parsed.Mixins)).
			Int("tables", len(d.parsed.Tables)).
			Msg("parsed schema document")
	}
	l.log.Info().
		Int("documents", len(docs)).
		Int("types", len(in.Types)).
		Int("mixins", len(in.Mixins)).
		Int("fragments", len(in.Tables)).
		Msg("schema documents loaded")
	return in, nil
}

// discover walks the contributor directories in configured order and lists
// their schema documents, file names sorted within each directory.
func (l *Loader) discover() ([]*document, error) {
	var docs []*document
	for _, dir := range l.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("load: plugin directory %s: %w", dir, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
				files = append(files, e.Name())
			}
		}
		sort.Strings(files)
		plugin := pluginName(dir)
		for _, f := range files {
			docs = append(docs, &document{
				origin: schema.Origin{Plugin: plugin, File: f},
				path:   filepath.Join(dir, f),
			})
		}
	}
	return docs, nil
}

func pluginName(dir string) string {
	return strings.TrimSuffix(filepath.Base(filepath.Clean(dir)), string(filepath.Separator))
}
