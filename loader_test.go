// FILE: lixenwraith/configer/loader_test.go
package configer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
		wantErr  bool
	}{
		{"toml", FormatTOML, false},
		{".tml", FormatTOML, false},
		{"YAML", FormatYAML, false},
		{".yml", FormatYAML, false},
		{"json", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := ParseFormat(tt.in)
			if tt.wantErr {
				var ufe *UnsupportedFormatError
				assert.ErrorAs(t, err, &ufe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestLoadSetting(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		doc, err := LoadSetting("testdata/default.yml")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, doc.Format)
		assert.Equal(t, "testdata/default.yml", doc.Path)

		hash, err := HashFile("testdata/default.yml")
		require.NoError(t, err)
		assert.Equal(t, hash, doc.Hash)

		mlp := doc.Data["models"].(map[string]any)["BaseMLP"].(map[string]any)
		assert.Equal(t, int64(32), mlp["in_channels"])
		assert.Equal(t, 0.5, mlp["drop_out"])
		assert.Equal(t, "", mlp["last_activation"])
		assert.Equal(t, []string{"models", "use_model", "optimizer", "training", "hoge"}, doc.Keys("", doc.Data))
	})

	t.Run("TOMLKeyOrder", func(t *testing.T) {
		doc, err := LoadSetting("testdata/default.toml")
		require.NoError(t, err)
		assert.Equal(t, FormatTOML, doc.Format)
		assert.Equal(t, []string{"use_model", "models", "training"}, doc.Keys("", doc.Data))

		mlp := doc.Data["models"].(map[string]any)["BaseMLP"].(map[string]any)
		assert.Equal(t, []string{"in_channels", "drop_out", "batch_norm"}, doc.Keys("/models/BaseMLP", mlp))

		schema, err := InferDocument(doc)
		require.NoError(t, err)
		assert.Equal(t, "use_model", schema.Root.Fields[0].Name)
	})

	t.Run("KeysMismatch", func(t *testing.T) {
		doc, err := LoadSetting("testdata/default.yml")
		require.NoError(t, err)
		assert.Nil(t, doc.Keys("", map[string]any{"other": 1}))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadSetting("testdata/missing.toml")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "setting.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

		_, err := LoadSetting(path)
		var ufe *UnsupportedFormatError
		assert.ErrorAs(t, err, &ufe)
	})

	t.Run("YAMLRootNotMapping", func(t *testing.T) {
		_, err := ParseSetting([]byte("- a\n- b\n"), FormatYAML)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a mapping")
	})

	t.Run("Empty", func(t *testing.T) {
		doc, err := ParseSetting(nil, FormatYAML)
		require.NoError(t, err)
		assert.Empty(t, doc.Data)
	})

	t.Run("InvalidTOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("a = = 1"), 0644))
		_, err := LoadSetting(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.toml")
	})
}

func TestLoadSources(t *testing.T) {
	sources, err := LoadSources("testdata/models.yml", "testdata/optimizer.yml")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "testdata/models.yml", sources[0].Origin)
	assert.Equal(t, "testdata/optimizer.yml", sources[1].Origin)

	_, err = LoadSources("testdata/models.yml", "testdata/none.yml")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}
