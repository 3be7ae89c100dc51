package sample

import "github.com/dshills/interact/internal/tools"

// Register adds the sample tool types to m.
func Register(m *tools.Manager) {
	m.RegisterToolType(BrushToolName, NewBrushBuilder())
	m.RegisterToolType(SelectToolName, NewSelectBuilder())
}
