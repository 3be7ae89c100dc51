package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/interact/internal/input/router"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "force-end", cfg.Router.AnomalyPolicy)
	assert.Equal(t, "brush", cfg.Tools.Default)
	assert.Equal(t, 400*time.Millisecond, cfg.Host.DoubleClick())
	assert.Equal(t, 250*time.Millisecond, cfg.Scripts.Timeout())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "toolhost.toml", `
[router]
anomaly_policy = "preserve"
metrics = true

[tools]
default = "select"

[tools.bindings.brush]
grow = "Ctrl+Up"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "preserve", cfg.Router.AnomalyPolicy)
	assert.True(t, cfg.Router.Metrics)
	assert.True(t, cfg.Router.AutoInvalidateOnHover, "unset values keep defaults")
	assert.Equal(t, "select", cfg.Tools.Default)
	assert.Equal(t, map[string]map[string]string{"brush": {"grow": "Ctrl+Up"}}, cfg.Tools.Bindings)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "toolhost.yml", `
scripts:
  dir: scripts
  timeout_ms: 50
host:
  mouse: false
  asset_dir: out
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "scripts", cfg.Scripts.Dir)
	assert.Equal(t, 50*time.Millisecond, cfg.Scripts.Timeout())
	assert.False(t, cfg.Host.Mouse)
	assert.Equal(t, "out", cfg.Host.AssetDir)
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("format", func(t *testing.T) {
		_, err := Load(writeFile(t, dir, "conf.ini", "a=1"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("toml syntax", func(t *testing.T) {
		_, err := Load(writeFile(t, dir, "bad.toml", "[router\nmetrics = true\n"))
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 1, perr.Line)
		assert.Positive(t, perr.Column)
	})

	t.Run("toml unknown setting", func(t *testing.T) {
		_, err := Load(writeFile(t, dir, "unknown.toml", "[router]\nturbo = true\n"))
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Message, "turbo")
		assert.Equal(t, 2, perr.Line)
	})

	t.Run("yaml unknown setting", func(t *testing.T) {
		_, err := Load(writeFile(t, dir, "unknown.yaml", "router:\n  turbo: true\n"))
		var perr *ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, dir, "invalid.toml", "[router]\nanomaly_policy = \"ignore\"\n"))
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Router.AnomalyPolicy = "maybe"
	cfg.Log.Level = "chatty"
	cfg.Log.MaxBackups = -1
	cfg.Host.DoubleClickMS = -5
	cfg.Tools.Bindings = map[string]map[string]string{
		"brush": {"grow": "Ctrl+", "shrink": "["},
	}

	err := cfg.Validate()
	require.Error(t, err)

	var codes []string
	var paths []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var verr *ValidationError
		require.True(t, errors.As(e, &verr))
		codes = append(codes, verr.Code.String())
		paths = append(paths, verr.Path)
	}
	assert.Equal(t, []string{
		"router.anomaly_policy",
		"log.level",
		"log.max_backups",
		"host.double_click_ms",
		"tools.bindings.brush.grow",
	}, paths)
	assert.Equal(t, []string{"invalid_enum", "invalid_enum", "out_of_range", "out_of_range", "invalid_chord"}, codes)
}

func TestRouterOptions(t *testing.T) {
	rc := RouterConfig{AnomalyPolicy: "preserve", Metrics: true}
	r := router.New(nil, rc.Options()...)
	assert.Equal(t, router.AnomalyPreserve, r.AnomalyPolicy())
	assert.NotNil(t, r.Metrics())

	r = router.New(nil, RouterConfig{}.Options()...)
	assert.Equal(t, router.AnomalyForceEnd, r.AnomalyPolicy())
	assert.Nil(t, r.Metrics())
}

func TestLogOptions(t *testing.T) {
	lc := Default().Log
	lc.File = "x.log"
	opts := lc.Options()
	assert.Equal(t, "info", opts.Level)
	assert.Equal(t, "x.log", opts.File)
	assert.Equal(t, 3, opts.MaxBackups)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "toolhost.toml", "[tools]\ndefault = \"brush\"\n")

	changes := make(chan *Config, 4)
	errs := make(chan error, 4)
	w, err := NewWatcher(path,
		func(c *Config) { changes <- c },
		func(err error) { errs <- err },
		WithDebounce(20*time.Millisecond),
	)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, dir, "unrelated.toml", "x = 1")
	writeFile(t, dir, "toolhost.toml", "[tools]\ndefault = \"select\"\n")

	select {
	case cfg := <-changes:
		assert.Equal(t, "select", cfg.Tools.Default)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload")
	}

	writeFile(t, dir, "toolhost.toml", "[log]\nlevel = \"loud\"\n")
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrValidationFailed)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload error")
	}
}

func TestWatcherClose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "toolhost.yaml", "")
	w, err := NewWatcher(path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrWatcherClosed)
}
