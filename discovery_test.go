// FILE: lixenwraith/configer/discovery_test.go
package configer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverSetting(t *testing.T) {
	t.Setenv("CONFIGER_SETTING", "")
	opts := DefaultDiscoveryOptions()

	t.Run("SettingDirFirst", func(t *testing.T) {
		base := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(base, "setting"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(base, "setting", "default.yaml"), []byte("a: 1\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(base, "default.toml"), []byte("a = 1\n"), 0644))

		path, err := DiscoverSetting(base, opts)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "setting", "default.yaml"), path)
	})

	t.Run("WorkingDir", func(t *testing.T) {
		base := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(base, "default.yml"), []byte("a: 1\n"), 0644))

		path, err := DiscoverSetting(base, opts)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "default.yml"), path)
	})

	t.Run("EnvVar", func(t *testing.T) {
		t.Setenv("CONFIGER_SETTING", "testdata/default.toml")
		path, err := DiscoverSetting(t.TempDir(), opts)
		require.NoError(t, err)
		assert.Equal(t, "testdata/default.toml", path)

		t.Setenv("CONFIGER_SETTING", "testdata/none.toml")
		_, err = DiscoverSetting(t.TempDir(), opts)
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := DiscoverSetting(t.TempDir(), opts)
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}
