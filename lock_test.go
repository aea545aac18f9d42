// FILE: lixenwraith/configer/lock_test.go
package configer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultLockFile)

	t.Run("Missing", func(t *testing.T) {
		lock, err := ReadLockFile(path)
		assert.ErrorIs(t, err, ErrConfigNotFound)
		require.NotNil(t, lock)
		assert.Empty(t, lock.Entries())
	})

	t.Run("WriteAndRead", func(t *testing.T) {
		lock := NewLockFile()
		lock.Record("setting/default.yml", "config/config_gen.go", "config", "aaa")
		lock.Record("other/default.toml", "other/gen.go", "", "bbb")
		lock.Record("setting/default.yml", "config/config_gen.go", "config", "ccc")
		require.NoError(t, lock.Write(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hash_value: ccc")
		assert.NotContains(t, string(data), "package: \"\"")

		read, err := ReadLockFile(path)
		require.NoError(t, err)

		entries := read.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, LockEntry{Setting: "other/default.toml", Hash: "bbb", Output: "other/gen.go"}, entries[0])
		assert.Equal(t, LockEntry{Setting: "setting/default.yml", Hash: "ccc", Output: "config/config_gen.go", Package: "config"}, entries[1])

		e, ok := read.Get("setting/default.yml")
		assert.True(t, ok)
		assert.Equal(t, "ccc", e.Hash)
	})

	t.Run("Invalid", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.lock")
		require.NoError(t, os.WriteFile(bad, []byte("setting.yml: [1, 2]\n"), 0644))
		_, err := ReadLockFile(bad)
		assert.Error(t, err)
	})
}
