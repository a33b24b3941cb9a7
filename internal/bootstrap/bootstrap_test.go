package bootstrap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resolveroutadapter "certflow/internal/modules/resolver/adapter/out"
	"certflow/internal/modules/resolver/dto"
	"certflow/internal/platform/config"
)

func TestDefaultsMapsEverySection(t *testing.T) {
	cfg := config.Config{}
	cfg.Source.DefaultSource = "manual"
	cfg.Validation.DefaultValidation = "acme-dns"
	cfg.Validation.DefaultValidationMode = "dns-01"
	cfg.Order.DefaultPlugin = "host"
	cfg.Csr.DefaultCsr = "ec"
	cfg.Store.DefaultStore = "pemfiles"
	cfg.Installation.DefaultInstallation = "script"

	d := Defaults(cfg)
	assert.Equal(t, "manual", d.Source)
	assert.Equal(t, "acme-dns", d.Validation)
	assert.Equal(t, "dns-01", d.ValidationMode)
	assert.Equal(t, "host", d.Order)
	assert.Equal(t, "ec", d.Csr)
	assert.Equal(t, "pemfiles", d.Store)
	assert.Equal(t, "script", d.Installation)
}

func TestNewConsoleWithoutTerminalIsLineConsole(t *testing.T) {
	in, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	defer in.Close()
	out, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer out.Close()

	_, ok := newConsole(Streams{In: in, Out: out}).(*resolveroutadapter.LineConsole)
	assert.True(t, ok)
}

func TestNewWiresUnattendedPlan(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{}
	cfg.Plugins.Path = dir
	cfg.Database.Path = filepath.Join(dir, "certflow.db")
	cfg.Source.DefaultSource = "manual"
	cfg.Store.DefaultStore = "pemfiles"
	cfg.Log.Level = "error"

	in, err := os.CreateTemp(dir, "in")
	require.NoError(t, err)
	defer in.Close()
	var logs bytes.Buffer
	app, err := New(context.Background(), cfg, Streams{In: in, Out: in, Err: &logs})
	require.NoError(t, err)
	defer app.Close()

	out, err := app.ResolverCLI.Plan(context.Background(), dto.PlanInput{Hosts: []string{"example.com"}, Unattended: true, Validation: "filesystem"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Selections)
	assert.Equal(t, "target.manual", out.Selections[0].ID)
	assert.NotEmpty(t, out.ID)

	history, err := app.ResolverCLI.History(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, out.ID, history[0].ID)

	plugins, err := app.PluginCLI.List(context.Background(), "csr")
	require.NoError(t, err)
	assert.Len(t, plugins, 2)
}
