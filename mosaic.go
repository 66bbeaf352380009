// Package mosaic resolves schema fragments contributed by independent
// plugins into one relational schema and generates Go model source from it.
//
// Contributors declare tables, reusable field groups (mixins), custom field
// types and relationships in small YAML documents. The engine merges every
// fragment that targets the same logical table, expands mixins and the
// type-inheritance hierarchy, synthesizes many-to-many junction tables,
// detects structural conflicts, orders tables by foreign-key dependency and
// emits one self-contained source unit.
//
// The pipeline is a deterministic batch computation: the same ordered set of
// fragments always resolves to the same schema and byte-identical output.
package mosaic

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/syssam/mosaic/compiler/gen"
	"github.com/syssam/mosaic/compiler/load"
	"github.com/syssam/mosaic/compiler/resolve"
)

// Result summarizes one generation run.
type Result struct {
	// Fingerprint is the stable digest of the resolved schema.
	Fingerprint string
	// Tables is the number of resolved tables, junctions included.
	Tables int
	// Output is the path the unit was written to.
	Output string
	// Written reports whether the output actually changed on disk.
	Written bool
}

// Option configures a run.
type Option func(*runner)

// WithLogger sets the logger used by the loader and the pipeline. The
// default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(r *runner) { r.log = log }
}

type runner struct {
	log zerolog.Logger
}

// Resolve loads every schema document named by the configuration and runs
// the resolution pipeline. The returned snapshot is immutable.
func Resolve(ctx context.Context, cfg *load.Config, opts ...Option) (*resolve.Snapshot, error) {
	r := &runner{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	loader := load.NewLoader(cfg.Plugins, load.WithLogger(r.log))
	in, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return resolve.Resolve(in)
}

// Generate resolves the schema and writes the emitted source unit to the
// configured target. Running twice over unchanged inputs writes nothing the
// second time.
func Generate(ctx context.Context, cfg *load.Config, opts ...Option) (*Result, error) {
	r := &runner{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	snap, err := Resolve(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	fp, err := gen.Fingerprint(snap)
	if err != nil {
		return nil, err
	}
	src, err := gen.Emit(snap, gen.Options{Package: cfg.Package, Append: cfg.Append})
	if err != nil {
		return nil, err
	}
	written, err := gen.WriteFile(cfg.Target, src)
	if err != nil {
		return nil, err
	}
	r.log.Info().
		Str("fingerprint", fp).
		Int("tables", len(snap.Order)).
		Str("output", cfg.Target).
		Bool("written", written).
		Msg("schema generated")
	return &Result{
		Fingerprint: fp,
		Tables:      len(snap.Order),
		Output:      cfg.Target,
		Written:     written,
	}, nil
}
