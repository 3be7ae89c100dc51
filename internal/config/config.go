// Package config loads the tool host configuration.
//
// A configuration file is TOML or YAML, chosen by extension. Every section
// is optional; missing settings keep the values from Default. A Watcher
// reloads the file when it changes on disk.
//
// Example (TOML):
//
//	[router]
//	anomaly_policy = "preserve"
//	auto_invalidate_on_hover = true
//
//	[tools]
//	default = "brush"
//
//	[tools.bindings.brush]
//	grow = "Ctrl+Up"
//
//	[log]
//	level = "debug"
//	file = "toolhost.log"
package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dshills/interact/internal/input/key"
	"github.com/dshills/interact/internal/input/router"
	"github.com/dshills/interact/internal/logging"
)

// Config is the complete tool host configuration.
type Config struct {
	Router  RouterConfig  `toml:"router" yaml:"router"`
	Tools   ToolsConfig   `toml:"tools" yaml:"tools"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Scripts ScriptsConfig `toml:"scripts" yaml:"scripts"`
	Host    HostConfig    `toml:"host" yaml:"host"`
}

// RouterConfig configures the input router.
type RouterConfig struct {
	// AnomalyPolicy is "force-end" or "preserve".
	AnomalyPolicy string `toml:"anomaly_policy" yaml:"anomaly_policy"`

	AutoInvalidateOnHover   bool `toml:"auto_invalidate_on_hover" yaml:"auto_invalidate_on_hover"`
	AutoInvalidateOnCapture bool `toml:"auto_invalidate_on_capture" yaml:"auto_invalidate_on_capture"`

	// Metrics enables router event counters.
	Metrics bool `toml:"metrics" yaml:"metrics"`
}

// ToolsConfig configures the tool manager.
type ToolsConfig struct {
	// Default is the tool type started when the host comes up.
	Default string `toml:"default" yaml:"default"`

	// PropertiesPath is where tool properties persist between runs.
	PropertiesPath string `toml:"properties_path" yaml:"properties_path"`

	// Bindings overrides action chords, keyed by tool type then action name.
	Bindings map[string]map[string]string `toml:"bindings" yaml:"bindings"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	File        string `toml:"file" yaml:"file"`
	MaxSizeMB   int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups  int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays  int    `toml:"max_age_days" yaml:"max_age_days"`
	Compress    bool   `toml:"compress" yaml:"compress"`
	Development bool   `toml:"development" yaml:"development"`
}

// ScriptsConfig configures Lua tools.
type ScriptsConfig struct {
	// Dir holds *.lua tool scripts. Empty disables scripted tools.
	Dir string `toml:"dir" yaml:"dir"`

	// TimeoutMS bounds each call into a script.
	TimeoutMS int `toml:"timeout_ms" yaml:"timeout_ms"`
}

// HostConfig configures the terminal host.
type HostConfig struct {
	// DoubleClickMS is the longest gap between clicks of a double click.
	DoubleClickMS int `toml:"double_click_ms" yaml:"double_click_ms"`

	// Mouse enables terminal mouse reporting.
	Mouse bool `toml:"mouse" yaml:"mouse"`

	// AssetDir is where tools save generated assets.
	AssetDir string `toml:"asset_dir" yaml:"asset_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Router: RouterConfig{
			AnomalyPolicy:         router.AnomalyForceEnd.String(),
			AutoInvalidateOnHover: true,
		},
		Tools: ToolsConfig{
			Default: "brush",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Scripts: ScriptsConfig{
			TimeoutMS: 250,
		},
		Host: HostConfig{
			DoubleClickMS: 400,
			Mouse:         true,
			AssetDir:      "assets",
		},
	}
}

// Validate checks every setting and returns all failures joined. Each
// failure is a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v, Code: code})
	}

	if _, ok := router.ParseAnomalyPolicy(c.Router.AnomalyPolicy); !ok {
		add("router.anomaly_policy", `must be "force-end" or "preserve"`, c.Router.AnomalyPolicy, ErrCodeInvalidEnum)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "must be debug, info, warn or error", c.Log.Level, ErrCodeInvalidEnum)
	}

	nonNegative := []struct {
		path string
		v    int
	}{
		{"log.max_size_mb", c.Log.MaxSizeMB},
		{"log.max_backups", c.Log.MaxBackups},
		{"log.max_age_days", c.Log.MaxAgeDays},
		{"scripts.timeout_ms", c.Scripts.TimeoutMS},
		{"host.double_click_ms", c.Host.DoubleClickMS},
	}
	for _, n := range nonNegative {
		if n.v < 0 {
			add(n.path, "must not be negative", n.v, ErrCodeOutOfRange)
		}
	}

	// Sorted so the joined error is stable.
	toolNames := make([]string, 0, len(c.Tools.Bindings))
	for name := range c.Tools.Bindings {
		toolNames = append(toolNames, name)
	}
	sort.Strings(toolNames)
	for _, toolName := range toolNames {
		actions := c.Tools.Bindings[toolName]
		actionNames := make([]string, 0, len(actions))
		for name := range actions {
			actionNames = append(actionNames, name)
		}
		sort.Strings(actionNames)
		for _, action := range actionNames {
			spec := actions[action]
			if _, err := key.ParseChord(spec); err != nil {
				add(fmt.Sprintf("tools.bindings.%s.%s", toolName, action), err.Error(), spec, ErrCodeInvalidChord)
			}
		}
	}

	return errors.Join(errs...)
}

// Options returns the router options for c. The policy must already be
// valid; an unknown policy falls back to force-end.
func (c RouterConfig) Options() []router.Option {
	policy, _ := router.ParseAnomalyPolicy(c.AnomalyPolicy)
	opts := []router.Option{
		router.WithCaptureAnomalyPolicy(policy),
		router.WithAutoInvalidateOnHover(c.AutoInvalidateOnHover),
		router.WithAutoInvalidateOnCapture(c.AutoInvalidateOnCapture),
	}
	if c.Metrics {
		opts = append(opts, router.WithMetrics(router.NewMetrics()))
	}
	return opts
}

// Options returns the logging options for c.
func (c LogConfig) Options() logging.Options {
	return logging.Options{
		Level:       c.Level,
		File:        c.File,
		MaxSizeMB:   c.MaxSizeMB,
		MaxBackups:  c.MaxBackups,
		MaxAgeDays:  c.MaxAgeDays,
		Compress:    c.Compress,
		Development: c.Development,
	}
}

// Timeout returns the per-call script timeout. Zero means the scripting
// default.
func (c ScriptsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// DoubleClick returns the double click interval.
func (c HostConfig) DoubleClick() time.Duration {
	return time.Duration(c.DoubleClickMS) * time.Millisecond
}
