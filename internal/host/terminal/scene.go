package terminal

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/interact/internal/ctxapi"
)

// Object is a selectable item placed on the canvas.
type Object struct {
	Ref      ctxapi.ObjectRef
	Position mgl64.Vec2
	Glyph    rune
}

// Scene is the document shown by the terminal host: a flat set of objects
// on a character grid and the current selection. It answers the tools'
// scene queries.
type Scene struct {
	objects   []Object
	selection []ctxapi.ObjectRef
	coords    ctxapi.CoordinateSystem
	viewport  mgl64.Vec2
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// AddObject places o on the canvas. An object with the same id is
// replaced.
func (s *Scene) AddObject(o Object) {
	for i := range s.objects {
		if s.objects[i].Ref.ID == o.Ref.ID {
			s.objects[i] = o
			return
		}
	}
	s.objects = append(s.objects, o)
}

// Objects returns the objects in insertion order.
func (s *Scene) Objects() []Object {
	return slices.Clone(s.objects)
}

// Object looks up an object by id.
func (s *Scene) Object(id string) (Object, bool) {
	for _, o := range s.objects {
		if o.Ref.ID == id {
			return o, true
		}
	}
	return Object{}, false
}

// IsSelected reports whether the object with id is selected.
func (s *Scene) IsSelected(id string) bool {
	return slices.ContainsFunc(s.selection, func(r ctxapi.ObjectRef) bool { return r.ID == id })
}

// SetViewport records the drawable canvas size.
func (s *Scene) SetViewport(w, h int) {
	s.viewport = mgl64.Vec2{float64(w), float64(h)}
}

// SetCoordinateSystem sets the coordinate system reported to tools.
func (s *Scene) SetCoordinateSystem(c ctxapi.CoordinateSystem) {
	s.coords = c
}

// applySelection applies change. It refuses changes naming objects that
// are not in the scene.
func (s *Scene) applySelection(change ctxapi.SelectionChange) bool {
	for _, ref := range change.Objects {
		if _, ok := s.Object(ref.ID); !ok {
			return false
		}
	}
	switch change.Kind {
	case ctxapi.SelectReplace:
		s.selection = slices.Clone(change.Objects)
	case ctxapi.SelectAdd:
		for _, ref := range change.Objects {
			if !s.IsSelected(ref.ID) {
				s.selection = append(s.selection, ref)
			}
		}
	case ctxapi.SelectRemove:
		s.selection = slices.DeleteFunc(s.selection, func(r ctxapi.ObjectRef) bool {
			return slices.ContainsFunc(change.Objects, func(o ctxapi.ObjectRef) bool { return o.ID == r.ID })
		})
	default:
		return false
	}
	return true
}

// CurrentSelectionState implements ctxapi.QueriesAPI.
func (s *Scene) CurrentSelectionState() ctxapi.SceneState {
	return ctxapi.SceneState{Selection: slices.Clone(s.selection)}
}

// CurrentViewState implements ctxapi.QueriesAPI. The terminal is an
// orthographic view looking down +Z.
func (s *Scene) CurrentViewState() ctxapi.ViewState {
	return ctxapi.ViewState{
		Forward:      mgl64.Vec3{0, 0, 1},
		Up:           mgl64.Vec3{0, -1, 0},
		Orthographic: true,
		Viewport:     s.viewport,
	}
}

// CurrentCoordinateSystem implements ctxapi.QueriesAPI.
func (s *Scene) CurrentCoordinateSystem() ctxapi.CoordinateSystem {
	return s.coords
}

// ExecuteSceneSnapQuery implements ctxapi.QueriesAPI. Grid queries snap to
// the nearest cell. Vertex queries return the nearest object within the
// tolerance.
func (s *Scene) ExecuteSceneSnapQuery(q ctxapi.SnapQuery) ([]ctxapi.SnapResult, bool) {
	switch q.Target {
	case ctxapi.SnapGrid:
		p := mgl64.Vec3{math.Round(q.Position.X()), math.Round(q.Position.Y()), q.Position.Z()}
		return []ctxapi.SnapResult{{Position: p}}, true
	case ctxapi.SnapVertex:
		best := -1
		bestDist := q.Tolerance
		for i, o := range s.objects {
			d := o.Position.Sub(q.Position.Vec2()).Len()
			if d <= bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			return nil, false
		}
		o := s.objects[best]
		return []ctxapi.SnapResult{{Position: o.Position.Vec3(0), Target: o.Ref}}, true
	}
	return nil, false
}

// StandardMaterial implements ctxapi.QueriesAPI.
func (s *Scene) StandardMaterial(kind ctxapi.MaterialKind) ctxapi.Material {
	switch kind {
	case ctxapi.MaterialHighlight:
		return "highlight"
	case ctxapi.MaterialPreview:
		return "preview"
	default:
		return "default"
	}
}
