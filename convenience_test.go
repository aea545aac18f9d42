// FILE: lixenwraith/configer/convenience_test.go
package configer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuick(t *testing.T) {
	cfg, err := Quick("testdata/default.yml", "testdata/models.yml", "testdata/optimizer.yml")
	require.NoError(t, err)

	channels, err := cfg.Int64("models/BaseMLP/in_channels")
	require.NoError(t, err)
	assert.Equal(t, int64(3), channels)
	assert.Equal(t, []string{"/models/BaseMLP/in_channels", "/optimizer/adam/alpha"}, cfg.Changed())

	t.Run("TOML", func(t *testing.T) {
		cfg, err := Quick("testdata/default.toml")
		require.NoError(t, err)
		loss, err := cfg.String("training/loss")
		require.NoError(t, err)
		assert.Equal(t, "mean_absolute_error", loss)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Quick("testdata/nothing.yml")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("MustQuickPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustQuick("testdata/default.yml", "testdata/nothing.yml")
		})
	})
}

func TestPprint(t *testing.T) {
	cfg, err := Quick("testdata/default.yml", "testdata/models.yml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Pprint(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "models\n  BaseMLP\n"))
	assert.Contains(t, out, "    in_channels: 3 (default: 32, changed by testdata/models.yml)\n")
	assert.Contains(t, out, "    middle_channels: 64\n")
	assert.Contains(t, out, "use_model: \"BaseMLP\"\n")
	assert.Contains(t, out, "  piyo: (1, 2, \"str\")\n")
	assert.NotContains(t, out, "\x1b[", "non-terminal writer must not receive escape sequences")

	debug := cfg.Debug()
	assert.True(t, strings.HasPrefix(debug, "Configuration from testdata/default.yml\n"))
	assert.Contains(t, debug, out)
}

func TestDump(t *testing.T) {
	cfg, err := Quick("testdata/default.yml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf, FormatTOML))
	assert.Contains(t, buf.String(), "batchsize = 64")

	buf.Reset()
	require.NoError(t, cfg.Dump(&buf, FormatYAML))
	assert.Contains(t, buf.String(), "batchsize: 64")

	assert.Error(t, cfg.Dump(&buf, Format("ini")))
}
