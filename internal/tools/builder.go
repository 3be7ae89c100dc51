package tools

import "github.com/dshills/interact/internal/ctxapi"

// Builder creates tools of one type.
type Builder interface {
	// CanBuildTool reports whether a tool can be built for scene. It must
	// not have side effects.
	CanBuildTool(scene ctxapi.SceneState) bool

	// BuildTool creates a new tool. It is only called after CanBuildTool
	// returned true for the same scene.
	BuildTool(scene ctxapi.SceneState) Tool
}

// BuilderFunc adapts a function to a Builder that can always build.
type BuilderFunc func(scene ctxapi.SceneState) Tool

// CanBuildTool implements Builder.
func (f BuilderFunc) CanBuildTool(ctxapi.SceneState) bool { return true }

// BuildTool implements Builder.
func (f BuilderFunc) BuildTool(scene ctxapi.SceneState) Tool { return f(scene) }

type funcBuilder struct {
	can   func(ctxapi.SceneState) bool
	build func(ctxapi.SceneState) Tool
}

func (b funcBuilder) CanBuildTool(scene ctxapi.SceneState) bool { return b.can(scene) }

func (b funcBuilder) BuildTool(scene ctxapi.SceneState) Tool { return b.build(scene) }

// NewBuilder returns a Builder from a precondition and a constructor. A nil
// precondition always passes.
func NewBuilder(can func(ctxapi.SceneState) bool, build func(ctxapi.SceneState) Tool) Builder {
	if can == nil {
		can = func(ctxapi.SceneState) bool { return true }
	}
	return funcBuilder{can: can, build: build}
}

// RequireSelection returns a precondition that passes when at least n
// objects are selected.
func RequireSelection(n int) func(ctxapi.SceneState) bool {
	return func(scene ctxapi.SceneState) bool {
		return scene.SelectionCount() >= n
	}
}
