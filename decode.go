// FILE: lixenwraith/configer/decode.go
package configer

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the assembled value, or the section at basePath, into target.
// target must be a non-nil pointer to a struct or map. Fields are matched by their
// "toml" tag, which is what emitted structs carry.
func (c *Config) Scan(target any, basePath ...string) error {
	path := ""
	if len(basePath) > 0 {
		path = basePath[0]
	}
	return decodeInto(c.root, path, target)
}

func decodeInto(root *Node, basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	section, err := root.lookup(splitPath(basePath))
	if err != nil {
		return err
	}
	node, ok := section.(*Node)
	if !ok {
		return fmt.Errorf("path %q refers to non-composite value (type %s)", basePath, describeValue(section))
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     target,
		TagName:    "toml",
		ZeroFields: true,
		Metadata:   nil,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(node.ToMap()); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", basePath, err)
	}
	return nil
}
