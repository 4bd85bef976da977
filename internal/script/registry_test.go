package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_EmbeddedOnly(t *testing.T) {
	reg := NewRegistry(afero.NewMemMapFs(), "")
	reg.RegisterEmbedded("years_active", `output = 1`)

	require.NoError(t, reg.LoadRules())

	rule, err := reg.Get("years_active")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, rule.Source)

	_, err = reg.Get("missing")
	require.Error(t, err)
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrorTypeNotFound, ruleErr.Type)
}

func TestRegistry_ExternalOverridesEmbedded(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("rules", 0o755))
	require.NoError(t, afero.WriteFile(fs, "rules/years_active.tengo", []byte(`output = 2`), 0o644))

	reg := NewRegistry(fs, "rules")
	reg.RegisterEmbedded("years_active", `output = 1`)
	reg.RegisterEmbedded("attribution", `output = "a"`)

	require.NoError(t, reg.LoadRules())

	rule, err := reg.Get("years_active")
	require.NoError(t, err)
	assert.Equal(t, SourceExternal, rule.Source)
	assert.Equal(t, `output = 2`, rule.Content)

	// Rules without an override still serve the embedded version.
	rule, err = reg.Get("attribution")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, rule.Source)

	assert.ElementsMatch(t, []string{"years_active", "attribution"}, reg.List())
}

func TestRegistry_MissingDirectoryIsFine(t *testing.T) {
	reg := NewRegistry(afero.NewMemMapFs(), "does/not/exist")
	reg.RegisterEmbedded("r", `output = 1`)

	require.NoError(t, reg.LoadRules())

	rule, err := reg.Get("r")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, rule.Source)
}

func TestRegistry_ReloadRevertsWhenFileGone(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("rules", 0o755))
	require.NoError(t, afero.WriteFile(fs, "rules/r.tengo", []byte(`output = 2`), 0o644))

	reg := NewRegistry(fs, "rules")
	reg.RegisterEmbedded("r", `output = 1`)
	require.NoError(t, reg.LoadRules())

	rule, err := reg.Get("r")
	require.NoError(t, err)
	assert.Equal(t, SourceExternal, rule.Source)

	require.NoError(t, fs.Remove("rules/r.tengo"))
	require.NoError(t, reg.Reload("r"))

	rule, err = reg.Get("r")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, rule.Source)
}

func TestRegistry_WatcherHotReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`output = 1`), 0o644))

	reg := NewRegistry(afero.NewOsFs(), dir)
	require.NoError(t, reg.LoadRules())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, reg.StartWatcher(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`output = 99`), 0o644))

	require.Eventually(t, func() bool {
		rule, err := reg.Get("r")
		return err == nil && rule.Content == `output = 99`
	}, 5*time.Second, 20*time.Millisecond)
}
