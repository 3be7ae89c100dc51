package luatool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/tools"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l.With(zap.String("component", "luatool"))
		}
	}
}

// WithTimeout bounds each call into the script.
func WithTimeout(d time.Duration) Option {
	return func(b *Builder) {
		b.timeout = d
	}
}

// Builder builds tools from one script. Every built tool gets its own
// Lua state.
type Builder struct {
	info    Info
	logger  *zap.Logger
	timeout time.Duration
}

// NewBuilder inspects the script at path and returns a builder for it.
func NewBuilder(path string, opts ...Option) (*Builder, error) {
	b := &Builder{logger: zap.NewNop(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(b)
	}
	info, err := Inspect(path, b.timeout)
	if err != nil {
		return nil, err
	}
	b.info = info
	return b, nil
}

// Name returns the tool type id declared by the script.
func (b *Builder) Name() string {
	return b.info.Name
}

// Info returns the script's description.
func (b *Builder) Info() Info {
	return b.info
}

// CanBuildTool implements tools.Builder.
func (b *Builder) CanBuildTool(scene ctxapi.SceneState) bool {
	return scene.SelectionCount() >= b.info.RequiresSelection
}

// BuildTool implements tools.Builder. A script that fails to load, for
// example because it changed on disk since inspection, builds no tool.
func (b *Builder) BuildTool(ctxapi.SceneState) tools.Tool {
	s := NewState(b.timeout)
	t := newTool(b.info, s, b.logger)
	if err := s.DoFile(b.info.Path); err != nil {
		b.logger.Error("load lua tool", zap.String("path", b.info.Path), zap.Error(err))
		s.Close()
		return nil
	}
	return t
}

// LoadDir creates a builder for every .lua file in dir, in file name order.
// Scripts that fail to load are skipped and their errors joined.
func LoadDir(dir string, opts ...Option) ([]*Builder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read script dir: %w", err)
	}
	var (
		builders []*Builder
		errs     []error
	)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".lua") {
			continue
		}
		b, err := NewBuilder(filepath.Join(dir, e.Name()), opts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		builders = append(builders, b)
	}
	return builders, errors.Join(errs...)
}

// RegisterDir loads dir and registers every script with m under its
// declared name. It returns the registered names.
func RegisterDir(m *tools.Manager, dir string, opts ...Option) ([]string, error) {
	builders, err := LoadDir(dir, opts...)
	names := make([]string, 0, len(builders))
	for _, b := range builders {
		m.RegisterToolType(b.Name(), b)
		names = append(names, b.Name())
	}
	return names, err
}
