// File: lixenwraith/configer/io.go
package configer

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SaveAs writes the assembled value to path atomically. format is "yaml" or "toml".
func (c *Config) SaveAs(path string, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	data, err := c.Encode(f)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data)
}

// Encode renders the assembled value in the given format.
func (c *Config) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		if err := checkTOML(c.root); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		encoder := toml.NewEncoder(&buf)
		if err := encoder.Encode(c.ToMap()); err != nil {
			return nil, fmt.Errorf("failed to marshal config data to TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		node, err := yamlNode(c.root)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(node); err != nil {
			return nil, fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, &UnsupportedFormatError{Format: string(format)}
	}
}

// checkTOML rejects null sequence elements, which TOML arrays cannot hold. A null
// field is left out of the document and falls back to its default on reload.
func checkTOML(n *Node) error {
	var err error
	n.walk(func(path string, _ Field, value any) {
		if err == nil {
			err = checkTOMLValue(path, value)
		}
	})
	return err
}

func checkTOMLValue(path string, v any) error {
	seq, ok := v.([]any)
	if !ok {
		return nil
	}
	for i, e := range seq {
		elemPath := joinPath(path, strconv.Itoa(i))
		if e == nil {
			return &UnsupportedValueError{Path: elemPath, Format: FormatTOML, Reason: "TOML has no null"}
		}
		if err := checkTOMLValue(elemPath, e); err != nil {
			return err
		}
	}
	return nil
}

// yamlNode builds a mapping node in schema field order.
func yamlNode(n *Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range n.entry.Fields {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		var (
			val *yaml.Node
			err error
		)
		if child, ok := n.values[f.Name].(*Node); ok {
			val, err = yamlNode(child)
		} else {
			val, err = yamlValue(n.values[f.Name])
		}
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", joinPath(n.path, f.Name), err)
		}
		out.Content = append(out.Content, key, val)
	}
	return out, nil
}

// yamlValue encodes a leaf. Floats always carry a decimal point or exponent so they
// decode back as floats.
func yamlValue(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatYAMLFloat(val)}, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, e := range val {
			item, err := yamlValue(e)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, item)
		}
		return seq, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func formatYAMLFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op once renamed

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
