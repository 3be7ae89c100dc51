// Package main runs interactive tools in a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/dshills/interact/internal/config"
	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/host/terminal"
	"github.com/dshills/interact/internal/logging"
	"github.com/dshills/interact/internal/tools"
	"github.com/dshills/interact/internal/tools/luatool"
	"github.com/dshills/interact/internal/tools/sample"
	"github.com/dshills/interact/internal/toolsctx"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds command line settings. Non-empty values override the
// configuration file.
type options struct {
	ConfigPath string
	ScriptDir  string
	Tool       string
	LogLevel   string
	LogFile    string
	Debug      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	if cfg.Host.Mouse {
		screen.EnableMouse()
	}

	scene := demoScene()
	host := terminal.NewHost(scene, logger)
	tc := newContext(cfg, scene, host, logger)
	defer func() {
		if err := tc.Shutdown(); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	session := terminal.NewSession(screen, tc, host,
		terminal.WithSessionLogger(logger),
		terminal.WithDoubleClick(cfg.Host.DoubleClick()),
	)
	if cfg.Tools.Default != "" {
		session.StartTool(cfg.Tools.Default)
	}

	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath,
			func(c *config.Config) { _ = screen.PostEvent(tcell.NewEventInterrupt(c)) },
			func(err error) { _ = screen.PostEvent(tcell.NewEventInterrupt(err)) },
			config.WithWatcherLogger(logger),
		)
		if err != nil {
			logger.Warn("config hot reload disabled", zap.Error(err))
		} else {
			defer func() { _ = w.Close() }()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("toolhost started", zap.String("version", version))
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("session ended", zap.Error(err))
		return 1
	}
	return 0
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.ScriptDir != "" {
		cfg.Scripts.Dir = opts.ScriptDir
	}
	if opts.Tool != "" {
		cfg.Tools.Default = opts.Tool
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Log.File = opts.LogFile
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger. Without a log file logging is off, since
// the terminal owns stdout and stderr.
func newLogger(cfg *config.Config) (*zap.Logger, func() error, error) {
	if cfg.Log.File == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}
	return logging.New(cfg.Log.Options())
}

func newContext(cfg *config.Config, scene *terminal.Scene, host *terminal.Host, logger *zap.Logger) *toolsctx.Context {
	opts := []toolsctx.Option{
		toolsctx.WithLogger(logger),
		toolsctx.WithAssetAPI(terminal.NewFileAssets(cfg.Host.AssetDir)),
		toolsctx.WithRouterOptions(cfg.Router.Options()...),
		toolsctx.WithManagerOptions(tools.WithActionBindings(cfg.Tools.Bindings)),
	}
	if cfg.Tools.PropertiesPath != "" {
		opts = append(opts, toolsctx.WithPropertyStore(tools.NewPropertyStore(), cfg.Tools.PropertiesPath))
	}
	tc := toolsctx.New(scene, host, opts...)

	sample.Register(tc.Manager())
	if cfg.Scripts.Dir != "" {
		names, err := luatool.RegisterDir(tc.Manager(), cfg.Scripts.Dir,
			luatool.WithLogger(logger),
			luatool.WithTimeout(cfg.Scripts.Timeout()),
		)
		if err != nil {
			host.DisplayMessage("scripts: "+err.Error(), ctxapi.UserWarning)
		}
		logger.Info("scripted tools registered", zap.Strings("tools", names))
	}
	return tc
}

// demoScene places a few selectable objects on the canvas.
func demoScene() *terminal.Scene {
	scene := terminal.NewScene()
	for i, glyph := range "ABCDEF" {
		scene.AddObject(terminal.Object{
			Ref:      ctxapi.ObjectRef{ID: fmt.Sprintf("obj-%d", i+1), Kind: "marker"},
			Position: mgl64.Vec2{float64(4 + 8*(i%3)), float64(3 + 4*(i/3))},
			Glyph:    glyph,
		})
	}
	return scene
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ScriptDir, "scripts", "", "Directory of Lua tool scripts")
	flag.StringVar(&opts.ScriptDir, "s", "", "Directory of Lua tool scripts (shorthand)")
	flag.StringVar(&opts.Tool, "tool", "", "Tool to start with")
	flag.StringVar(&opts.Tool, "t", "", "Tool to start with (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Log file path")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "toolhost - interactive tools in the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: toolhost [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  F1-F12   start a tool\n")
		fmt.Fprintf(os.Stderr, "  Enter    accept the active tool\n")
		fmt.Fprintf(os.Stderr, "  Escape   cancel the active tool\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+C   quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  toolhost -c toolhost.toml\n")
		fmt.Fprintf(os.Stderr, "  toolhost -s ./scripts -t select\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("toolhost %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
