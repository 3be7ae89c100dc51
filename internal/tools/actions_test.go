package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/interact/internal/input/key"
)

func TestActionSetRegister(t *testing.T) {
	s := NewActionSet()
	ran := ""
	require.NoError(t, s.Register(Action{ID: StandardActionBase + 2, Name: "second", Run: func() { ran = "second" }}))
	require.NoError(t, s.Register(Action{ID: StandardActionBase + 1, Name: "first", Chord: key.MustParseChord("<C-z>"), Run: func() { ran = "first" }}))

	err := s.Register(Action{ID: StandardActionBase + 1, Name: "dup", Run: func() {}})
	assert.ErrorIs(t, err, ErrDuplicateAction)
	assert.ErrorIs(t, s.Register(Action{ID: 1, Name: "norun"}), ErrInvalidAction)
	assert.ErrorIs(t, s.Register(Action{ID: 2, Run: func() {}}), ErrInvalidAction)

	actions := s.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, "first", actions[0].Name)
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Execute(StandardActionBase+2))
	assert.Equal(t, "second", ran)
	assert.False(t, s.Execute(42))

	assert.True(t, s.ExecuteChord(key.RuneChord('z', key.ModCtrl)))
	assert.Equal(t, "first", ran)
	_, ok := s.FindByChord(key.Chord{})
	assert.False(t, ok)
}

func TestActionSetRebind(t *testing.T) {
	s := NewActionSet()
	require.NoError(t, s.Register(Action{ID: 1, Name: "accept", Chord: key.SpecialChord(key.KeyEnter, key.ModNone), Run: func() {}}))
	require.NoError(t, s.Register(Action{ID: 2, Name: "cancel", Chord: key.SpecialChord(key.KeyEscape, key.ModNone), Run: func() {}}))

	err := s.ApplyBindings(map[string]string{
		"accept":  "Ctrl+Enter",
		"cancel":  "Ctrl+",
		"unknown": "x",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, key.ErrInvalidSpec)
	assert.Contains(t, err.Error(), "binding cancel")

	a, ok := s.FindByName("accept")
	require.True(t, ok)
	assert.Equal(t, key.SpecialChord(key.KeyEnter, key.ModCtrl), a.Chord)

	c, _ := s.FindByName("cancel")
	assert.Equal(t, key.SpecialChord(key.KeyEscape, key.ModNone), c.Chord, "bad spec leaves the old chord")

	assert.False(t, s.Rebind("nope", key.Chord{}))
	assert.NoError(t, s.ApplyBindings(nil))
}
