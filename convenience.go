// File: lixenwraith/configer/convenience.go
package configer

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Quick infers the schema from defaultPath and assembles it with the override files
// in one call. The drift check is not enabled since the schema is inferred fresh.
func Quick(defaultPath string, overrides ...string) (*Config, error) {
	schema, err := InferFile(defaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to infer schema: %w", err)
	}
	return NewGenerator(schema).UpdateBy(overrides...).Generate()
}

// MustQuick is like Quick but panics on error
func MustQuick(defaultPath string, overrides ...string) *Config {
	cfg, err := Quick(defaultPath, overrides...)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

type printStyles struct {
	key        lipgloss.Style
	unchanged  lipgloss.Style
	changed    lipgloss.Style
	provenance lipgloss.Style
}

func newPrintStyles(w io.Writer) printStyles {
	r := lipgloss.NewRenderer(w)
	return printStyles{
		key:        r.NewStyle().Foreground(lipgloss.Color("39")),
		unchanged:  r.NewStyle().Foreground(lipgloss.Color("46")),
		changed:    r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		provenance: r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Pprint writes the value tree to w. Leaves equal to their default print as
// "key: value"; changed leaves also show the default and the source that set them.
// Colors are dropped when w is not a terminal.
func (c *Config) Pprint(w io.Writer) error {
	var b strings.Builder
	c.pprintNode(&b, newPrintStyles(w), c.root, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func (c *Config) pprintNode(b *strings.Builder, st printStyles, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range n.entry.Fields {
		v := n.values[f.Name]
		if child, ok := v.(*Node); ok {
			fmt.Fprintf(b, "%s%s\n", indent, st.key.Render(f.Name))
			c.pprintNode(b, st, child, depth+1)
			continue
		}

		path := joinPath(n.path, f.Name)
		def := c.defaultAt(path)
		if valuesEqual(v, def) {
			fmt.Fprintf(b, "%s%s: %s\n", indent, st.key.Render(f.Name), st.unchanged.Render(formatLiteral(v)))
			continue
		}
		origin, ok := c.provenance.Lookup(path)
		if !ok {
			origin = "unknown"
		}
		fmt.Fprintf(b, "%s%s: %s %s\n", indent,
			st.key.Render(f.Name),
			st.changed.Render(formatLiteral(v)),
			st.provenance.Render(fmt.Sprintf("(default: %s, changed by %s)", formatLiteral(def), origin)))
	}
}

// Debug returns the Pprint rendering without colors, prefixed with the schema origin.
func (c *Config) Debug() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Configuration from %s\n", c.schema.Origin)
	_ = c.Pprint(&b)
	return b.String()
}

// Dump writes the assembled value to w in the given format.
func (c *Config) Dump(w io.Writer, format Format) error {
	data, err := c.Encode(format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
