// File: lixenwraith/configer/builder.go
package configer

import (
	"fmt"
	"io"
	"log/slog"
)

// ValidatorFunc validates an assembled Config. It runs after structural validation.
type ValidatorFunc func(c *Config) error

// Generator provides a fluent interface for assembling a Config from a schema and
// a sequence of override files.
type Generator struct {
	schema      *Schema
	fingerprint *Fingerprint
	hash        HashFunc
	paths       []string
	sources     []Source
	logger      *slog.Logger
	err         error
	validators  []ValidatorFunc
}

// NewGenerator creates a generator for schema.
func NewGenerator(schema *Schema) *Generator {
	g := &Generator{
		schema:     schema,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		validators: make([]ValidatorFunc, 0),
	}
	if schema == nil {
		g.err = fmt.Errorf("generator requires a schema")
	}
	return g
}

// WithFingerprint enables the drift check against the recorded fingerprint.
func (g *Generator) WithFingerprint(fp Fingerprint) *Generator {
	g.fingerprint = &fp
	return g
}

// WithHashFunc replaces the file hashing used by the drift check.
func (g *Generator) WithHashFunc(fn HashFunc) *Generator {
	g.hash = fn
	return g
}

// UpdateBy appends override files. Multiple files are merged in order.
func (g *Generator) UpdateBy(paths ...string) *Generator {
	g.paths = append(g.paths, paths...)
	return g
}

// UpdateWith appends in-memory override sources after any files.
func (g *Generator) UpdateWith(sources ...Source) *Generator {
	g.sources = append(g.sources, sources...)
	return g
}

// WithLogger sets the logger used for debug records.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// WithValidator adds a validation function that runs at the end of Generate.
// Validators run in the order they are added.
func (g *Generator) WithValidator(fn ValidatorFunc) *Generator {
	if fn != nil {
		g.validators = append(g.validators, fn)
	}
	return g
}

// Generate loads and merges the override files, then assembles the Config.
func (g *Generator) Generate() (*Config, error) {
	if g.err != nil {
		return nil, g.err
	}

	sources, err := LoadSources(g.paths...)
	if err != nil {
		return nil, err
	}
	sources = append(sources, g.sources...)
	for _, src := range sources {
		g.logger.Debug("override source", "origin", src.Origin, "leaves", len(leafPaths(src.Data, "")))
	}

	merger := NewSourceMerger(nil)
	overrides, err := merger.Merge(sources...)
	if err != nil {
		return nil, err
	}
	provenance := merger.Provenance()
	g.logger.Debug("merged overrides", "sources", len(sources), "leaves", len(provenance))

	var opts []AssemblerOption
	if g.fingerprint != nil {
		opts = append(opts, WithDriftGuard(NewDriftGuard(*g.fingerprint, g.hash)))
	}

	cfg, err := NewAssembler(g.schema, opts...).Assemble(overrides, provenance)
	if err != nil {
		return nil, err
	}

	for _, validator := range g.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	g.logger.Debug("assembled configuration", "schema", g.schema.Origin, "changed", len(cfg.Changed()))
	return cfg, nil
}

// MustGenerate is like Generate but panics on error
func (g *Generator) MustGenerate() *Config {
	cfg, err := g.Generate()
	if err != nil {
		panic(fmt.Sprintf("config generation failed: %v", err))
	}
	return cfg
}
