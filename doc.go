// File: lixenwraith/configer/doc.go

// Package configer infers a typed configuration schema from a default TOML or YAML
// setting file and assembles validated configurations from it.
//
// Features:
//   - Schema inference: every nested mapping becomes a named composite type
//     (models/BaseMLP -> ModelsBaseMLP), every literal a typed field with a default
//   - Override merging from several files with conflict detection and provenance
//     tracking
//   - Structural validation of the assembled value against the schema
//   - Drift detection between generated code and the setting file it came from
//   - Go code emission (structs with toml/yaml tags) and a lock file recording what
//     was generated from which setting file
//
// Quick Start:
//
//	cfg, err := configer.Quick("setting/default.yml", "setting/models.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	channels, _ := cfg.Int64("models/BaseMLP/in_channels")
//	cfg.Pprint(os.Stdout)
//
// Generator:
//
//	schema, err := configer.InferFile("setting/default.yml")
//	...
//	cfg, err := configer.NewGenerator(schema).
//	    WithFingerprint(configer.Fingerprint{Path: DefaultFile, Hash: DefaultHash}).
//	    UpdateBy("setting/models.yml", "setting/optimizer.yml").
//	    WithValidator(func(c *configer.Config) error { ... }).
//	    Generate()
//
// Override files are partial mappings. Two override files may not set the same key
// path or a path nested under one another; the error names both files. Values must
// match the inferred type exactly: an integer does not satisfy a float field.
//
// Paths are slash-delimited ("/training/batchsize"); accessors also accept dot
// notation ("training.batchsize").
//
// A Config is not modified after assembly and may be read concurrently. Inference
// and assembly themselves are single-threaded.
package configer
