// FILE: lixenwraith/configer/drift_test.go
package configer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	hash, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", hash)
	assert.Equal(t, hash, hashBytes([]byte("hello")))

	_, err = HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCheckDrift(t *testing.T) {
	assert.NoError(t, CheckDrift("abc", "abc", "default.yml"))

	err := CheckDrift("abc", "abd", "default.yml")
	var cde *ChangeDefaultError
	require.ErrorAs(t, err, &cde)
	assert.Equal(t, "default.yml", cde.DefaultFile)
	assert.ErrorIs(t, err, ErrConfiger)
}

func TestDriftGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0644))

	hash, err := HashFile(path)
	require.NoError(t, err)

	guard := NewDriftGuard(Fingerprint{Path: path, Hash: hash}, nil)
	assert.Equal(t, hash, guard.Recorded().Hash)
	assert.NoError(t, guard.Check())

	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0644))
	var cde *ChangeDefaultError
	assert.ErrorAs(t, guard.Check(), &cde)

	require.NoError(t, os.Remove(path))
	assert.Error(t, guard.Check())
}
