// FILE: lixenwraith/configer/builder_test.go
package configer

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copySetting copies a testdata file into dir so tests can modify it.
func copySetting(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestGenerator(t *testing.T) {
	t.Run("NoOverrides", func(t *testing.T) {
		cfg, err := NewGenerator(loadTestSchema(t)).Generate()
		require.NoError(t, err)

		batch, err := cfg.Int64("training/batchsize")
		require.NoError(t, err)
		assert.Equal(t, int64(64), batch)
		assert.Empty(t, cfg.Changed())
	})

	t.Run("UpdateByAccumulates", func(t *testing.T) {
		cfg, err := NewGenerator(loadTestSchema(t)).
			UpdateBy("testdata/models.yml").
			UpdateBy("testdata/optimizer.yml").
			Generate()
		require.NoError(t, err)

		channels, err := cfg.Int64("models/BaseMLP/in_channels")
		require.NoError(t, err)
		assert.Equal(t, int64(3), channels)

		alpha, err := cfg.Float64("optimizer/adam/alpha")
		require.NoError(t, err)
		assert.Equal(t, 0.01, alpha)

		assert.Equal(t, ProvenanceMap{
			"/models/BaseMLP/in_channels": "testdata/models.yml",
			"/optimizer/adam/alpha":       "testdata/optimizer.yml",
		}, cfg.Provenance())
	})

	t.Run("UpdateWith", func(t *testing.T) {
		cfg, err := NewGenerator(loadTestSchema(t)).
			UpdateBy("testdata/models.yml").
			UpdateWith(Source{Data: map[string]any{"use_model": "Transformer"}, Origin: "memory"}).
			Generate()
		require.NoError(t, err)

		model, err := cfg.String("use_model")
		require.NoError(t, err)
		assert.Equal(t, "Transformer", model)
		assert.Equal(t, []string{"/models/BaseMLP/in_channels", "/use_model"}, cfg.Changed())
	})

	t.Run("Conflict", func(t *testing.T) {
		_, err := NewGenerator(loadTestSchema(t)).
			UpdateBy("testdata/models.yml").
			UpdateWith(Source{Data: map[string]any{"models": "none"}, Origin: "memory"}).
			Generate()
		var ce *ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "testdata/models.yml", ce.Origin)
		assert.Equal(t, "memory", ce.OtherOrigin)
	})

	t.Run("MissingOverride", func(t *testing.T) {
		_, err := NewGenerator(loadTestSchema(t)).UpdateBy("testdata/missing.yml").Generate()
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("NilSchema", func(t *testing.T) {
		_, err := NewGenerator(nil).UpdateBy("testdata/models.yml").Generate()
		assert.Error(t, err)
	})

	t.Run("Validators", func(t *testing.T) {
		var order []string
		_, err := NewGenerator(loadTestSchema(t)).
			UpdateBy("testdata/models.yml").
			WithValidator(func(c *Config) error {
				order = append(order, "first")
				return nil
			}).
			WithValidator(func(c *Config) error {
				order = append(order, "second")
				channels, err := c.Int64("models/BaseMLP/in_channels")
				if err != nil {
					return err
				}
				if channels < 16 {
					return fmt.Errorf("in_channels must be at least 16, got %d", channels)
				}
				return nil
			}).
			Generate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
		assert.Contains(t, err.Error(), "at least 16")
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := NewGenerator(loadTestSchema(t)).
			WithLogger(logger).
			UpdateBy("testdata/models.yml", "testdata/optimizer.yml").
			Generate()
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "origin=testdata/models.yml")
		assert.Contains(t, buf.String(), "merged overrides")
		assert.Contains(t, buf.String(), "changed=2")
	})

	t.Run("MustGeneratePanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewGenerator(loadTestSchema(t)).UpdateBy("testdata/missing.yml").MustGenerate()
		})
	})
}

func TestGeneratorDrift(t *testing.T) {
	dir := t.TempDir()
	setting := copySetting(t, dir, "default.yml")

	schema, err := InferFile(setting)
	require.NoError(t, err)
	fp := schema.Fingerprint

	t.Run("InSync", func(t *testing.T) {
		_, err := NewGenerator(schema).WithFingerprint(fp).UpdateBy("testdata/models.yml").Generate()
		assert.NoError(t, err)
	})

	t.Run("Changed", func(t *testing.T) {
		f, err := os.OpenFile(setting, os.O_APPEND|os.O_WRONLY, 0644)
		require.NoError(t, err)
		_, err = f.WriteString("extra: 1\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		_, err = NewGenerator(schema).WithFingerprint(fp).UpdateBy("testdata/models.yml").Generate()
		var cde *ChangeDefaultError
		require.ErrorAs(t, err, &cde)
		assert.Equal(t, setting, cde.DefaultFile)
	})

	t.Run("CustomHash", func(t *testing.T) {
		_, err := NewGenerator(schema).
			WithFingerprint(Fingerprint{Path: setting, Hash: "pinned"}).
			WithHashFunc(func(string) (string, error) { return "pinned", nil }).
			Generate()
		assert.NoError(t, err)
	})
}
