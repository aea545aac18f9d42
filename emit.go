// File: lixenwraith/configer/emit.go
package configer

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// DefaultModulePath is the import path emitted code uses for this package.
const DefaultModulePath = "github.com/lixenwraith/configer"

// EmitOptions controls Go source emission.
type EmitOptions struct {
	// Package is the package clause of the emitted file. Default "config".
	Package string
	// ModulePath is the import path of this package. Default DefaultModulePath.
	ModulePath string
	// DefaultFile overrides the default setting path embedded in the output.
	DefaultFile string
}

// reservedNames are identifiers the emitted file declares besides the types.
var reservedNames = map[string]bool{"Load": true, "DefaultFile": true, "DefaultHash": true}

type emitField struct {
	GoName  string
	GoType  string
	Key     string
	Default string
}

type emitType struct {
	Name   string
	Path   string
	Fields []emitField
}

type emitData struct {
	Package     string
	ModulePath  string
	DefaultFile string
	DefaultHash string
	Policy      string
	Types       []emitType
}

var goTemplate = template.Must(template.New("config").Parse(`// Code generated by configer from {{.DefaultFile}}. DO NOT EDIT.
// Edit the setting file and run ` + "`configer update`" + ` instead.

package {{.Package}}

import "{{.ModulePath}}"

// DefaultFile and DefaultHash identify the setting file these types were generated
// from. Load refuses to run once the file no longer matches DefaultHash.
const (
	DefaultFile = {{printf "%q" .DefaultFile}}
	DefaultHash = {{printf "%q" .DefaultHash}}
)
{{range .Types}}
// {{.Name}} is generated from {{.Path}}.
type {{.Name}} struct {
{{- range .Fields}}
	{{.GoName}} {{.GoType}} ` + "`" + `toml:"{{.Key}}" yaml:"{{.Key}}"` + "`" + `{{if .Default}} // default {{.Default}}{{end}}
{{- end}}
}
{{end}}
// Load assembles the configuration from DefaultFile and the override files, merged
// in order. Sequences are typed with the {{.Policy}} policy.
func Load(overrides ...string) (*Config, *configer.Config, error) {
	schema, err := configer.InferFile(DefaultFile)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := configer.NewGenerator(schema).
		WithFingerprint(configer.Fingerprint{Path: DefaultFile, Hash: DefaultHash}).
		UpdateBy(overrides...).
		Generate()
	if err != nil {
		return nil, nil, err
	}
	var out Config
	if err := cfg.Scan(&out); err != nil {
		return nil, nil, err
	}
	return &out, cfg, nil
}
`))

// EmitGo renders schema as a gofmt-ed Go source file.
func EmitGo(schema *Schema, opts EmitOptions) ([]byte, error) {
	if opts.Package == "" {
		opts.Package = "config"
	}
	if opts.ModulePath == "" {
		opts.ModulePath = DefaultModulePath
	}
	if opts.DefaultFile == "" {
		opts.DefaultFile = schema.Fingerprint.Path
	}

	data := emitData{
		Package:     opts.Package,
		ModulePath:  opts.ModulePath,
		DefaultFile: opts.DefaultFile,
		DefaultHash: schema.Fingerprint.Hash,
		Policy:      schema.SequencePolicy,
	}

	entries := append(schema.Registry.Entries(), schema.Root)
	for _, e := range entries {
		t, err := emitTypeOf(e)
		if err != nil {
			return nil, err
		}
		data.Types = append(data.Types, t)
	}

	var buf bytes.Buffer
	if err := goTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render Go source: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return src, nil
}

func emitTypeOf(e *SchemaEntry) (emitType, error) {
	path := e.Path
	if path == "" {
		path = "the setting root"
	}
	t := emitType{Name: goIdent(e.Name), Path: path}
	if reservedNames[t.Name] {
		return emitType{}, fmt.Errorf("type name %s from %s clashes with a generated identifier", t.Name, path)
	}
	seen := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		name := goIdent(toTypeName(f.Name))
		if prev, dup := seen[name]; dup {
			return emitType{}, fmt.Errorf("keys %q and %q of %s map to the same Go field %s", prev, f.Name, e.Name, name)
		}
		seen[name] = f.Name

		field := emitField{GoName: name, GoType: f.Type.GoType(), Key: f.Name}
		if f.Type.Kind != KindComposite {
			field.Default = formatLiteral(f.Default)
		}
		t.Fields = append(t.Fields, field)
	}
	return t, nil
}

// WriteGo emits schema and writes it to path atomically.
func WriteGo(schema *Schema, path string, opts EmitOptions) error {
	src, err := EmitGo(schema, opts)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, src)
}
