// FILE: lixenwraith/configer/io_test.go
package configer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAsRoundTrip(t *testing.T) {
	schema := loadTestSchema(t)
	cfg, err := NewGenerator(schema).
		UpdateBy("testdata/models.yml", "testdata/optimizer.yml").
		Generate()
	require.NoError(t, err)

	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "saved."+format)
			require.NoError(t, cfg.SaveAs(path, format))

			reloaded, err := NewGenerator(schema).UpdateBy(path).Generate()
			require.NoError(t, err)
			assert.True(t, cfg.Equal(reloaded), "saved %s does not reproduce the configuration", format)

			// every leaf is now attributed to the saved file
			origin, ok := reloaded.Provenance().Lookup("/training/batchsize")
			assert.True(t, ok)
			assert.Equal(t, path, origin)
		})
	}
}

func TestSaveAsYAMLLayout(t *testing.T) {
	cfg, err := NewGenerator(loadTestSchema(t)).Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "out.yml")
	require.NoError(t, cfg.SaveAs(path, "yml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "models:\n  BaseMLP:\n    in_channels: 32\n")
	assert.Contains(t, content, "drop_out: 0.5\n")
	assert.Contains(t, content, "piyo: [1, 2, str]\n")
	// schema order, not lexical order
	assert.Less(t, strings.Index(content, "models:"), strings.Index(content, "use_model:"))
	assert.Less(t, strings.Index(content, "use_model:"), strings.Index(content, "optimizer:"))
}

func TestSaveAsUnsupportedFormat(t *testing.T) {
	cfg, err := NewGenerator(loadTestSchema(t)).Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	err = cfg.SaveAs(path, "json")
	var ufe *UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "json", ufe.Format)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatYAMLFloat(t *testing.T) {
	assert.Equal(t, "1.0", formatYAMLFloat(1))
	assert.Equal(t, "0.5", formatYAMLFloat(0.5))
	assert.Equal(t, "1e+21", formatYAMLFloat(1e21))
}

func TestSaveAsNullInSequence(t *testing.T) {
	dir := t.TempDir()
	setting := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(setting, []byte("t: [1, null]\nname: svc\n"), 0644))

	schema, err := InferFile(setting)
	require.NoError(t, err)
	cfg, err := NewGenerator(schema).Generate()
	require.NoError(t, err)

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "saved.yml")
		require.NoError(t, cfg.SaveAs(path, "yaml"))

		reloaded, err := NewGenerator(schema).UpdateBy(path).Generate()
		require.NoError(t, err)
		assert.True(t, cfg.Equal(reloaded))
	})

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(dir, "saved.toml")
		err := cfg.SaveAs(path, "toml")
		var uve *UnsupportedValueError
		require.ErrorAs(t, err, &uve)
		assert.Equal(t, "/t/1", uve.Path)
		assert.Equal(t, FormatTOML, uve.Format)
		assert.ErrorIs(t, err, ErrConfiger)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}
