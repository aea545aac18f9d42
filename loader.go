// FILE: lixenwraith/configer/loader.go
package configer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a setting file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "toml", "tml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Format: name}
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", &UnsupportedFormatError{Format: path}
	}
	return ParseFormat(ext)
}

// Document is a parsed setting file.
type Document struct {
	Path   string
	Format Format
	Data   map[string]any
	// Hash is the content fingerprint of the raw file bytes.
	Hash string

	order map[string][]string // mapping path -> keys in source order
}

// Keys returns the keys of the mapping at path in source order, or nil when the
// recorded order does not describe m.
func (d *Document) Keys(path string, m map[string]any) []string {
	keys := d.order[path]
	if len(keys) != len(m) {
		return nil
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return nil
		}
	}
	return keys
}

// LoadSetting reads and parses a TOML or YAML setting file.
func LoadSetting(path string) (*Document, error) {
	format, err := detectFileFormat(path)
	if err != nil {
		return nil, err
	}

	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	doc, err := ParseSetting(fileData, format)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// ParseSetting parses raw setting bytes of the given format.
func ParseSetting(data []byte, format Format) (*Document, error) {
	doc := &Document{
		Format: format,
		Hash:   hashBytes(data),
		order:  make(map[string][]string),
	}

	var raw map[string]any
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		for _, key := range md.Keys() {
			doc.recordKey(key)
		}
	case FormatYAML:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if len(root.Content) > 0 {
			top := root.Content[0]
			if top.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("YAML root must be a mapping, got %s", nodeKindName(top.Kind))
			}
			if err := top.Decode(&raw); err != nil {
				return nil, fmt.Errorf("failed to decode YAML: %w", err)
			}
			doc.recordNode(top, "")
		}
	default:
		return nil, &UnsupportedFormatError{Format: string(format)}
	}

	if raw == nil {
		raw = make(map[string]any)
	}
	normalized, err := normalizeValue(raw)
	if err != nil {
		return nil, err
	}
	doc.Data = normalized.(map[string]any)
	return doc, nil
}

// recordKey records every segment of a TOML key under its parent path, so tables
// only introduced by a dotted header still get a position.
func (d *Document) recordKey(key toml.Key) {
	parent := ""
	for _, seg := range key {
		d.appendKey(parent, seg)
		parent = joinPath(parent, seg)
	}
}

// recordNode walks a YAML mapping node recording key order.
func (d *Document) recordNode(n *yaml.Node, path string) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		d.appendKey(path, key)
		d.recordNode(n.Content[i+1], joinPath(path, key))
	}
}

func (d *Document) appendKey(parent, key string) {
	for _, k := range d.order[parent] {
		if k == key {
			return
		}
	}
	d.order[parent] = append(d.order[parent], key)
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

// LoadSources loads each path as an override source, in order.
func LoadSources(paths ...string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		doc, err := LoadSetting(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Data: doc.Data, Origin: p})
	}
	return sources, nil
}
