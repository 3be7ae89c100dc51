package tools

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/interact/internal/input/key"
)

// StandardActionBase is the first id available to tool-defined actions.
// Lower ids are reserved for host-wide actions.
const StandardActionBase = 10000

// Action is a named, keybindable tool command.
type Action struct {
	// ID is unique within a set.
	ID int

	// Name is the stable identifier used by key binding configuration.
	Name string

	// Description is shown in help output.
	Description string

	// Chord is the default key binding. It may be unbound.
	Chord key.Chord

	// Run executes the action.
	Run func()
}

// ActionSet maps ids, names and chords to a tool's actions.
type ActionSet struct {
	actions []Action
}

// NewActionSet creates an empty action set.
func NewActionSet() *ActionSet {
	return &ActionSet{}
}

// Register adds a. Ids must be unique and a must have a name and a Run
// function.
func (s *ActionSet) Register(a Action) error {
	if a.Name == "" || a.Run == nil {
		return fmt.Errorf("%w: id %d", ErrInvalidAction, a.ID)
	}
	i, found := slices.BinarySearchFunc(s.actions, a.ID, func(x Action, id int) int { return x.ID - id })
	if found {
		return fmt.Errorf("%w: %d (%s)", ErrDuplicateAction, a.ID, s.actions[i].Name)
	}
	s.actions = slices.Insert(s.actions, i, a)
	return nil
}

// Find returns the action with id.
func (s *ActionSet) Find(id int) (Action, bool) {
	i, found := slices.BinarySearchFunc(s.actions, id, func(x Action, id int) int { return x.ID - id })
	if !found {
		return Action{}, false
	}
	return s.actions[i], true
}

// FindByName returns the action named name.
func (s *ActionSet) FindByName(name string) (Action, bool) {
	for _, a := range s.actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// FindByChord returns the lowest-id action bound to c.
func (s *ActionSet) FindByChord(c key.Chord) (Action, bool) {
	if !c.IsBound() {
		return Action{}, false
	}
	for _, a := range s.actions {
		if a.Chord.IsBound() && a.Chord.Matches(c.Key, c.Rune, c.Modifiers) {
			return a, true
		}
	}
	return Action{}, false
}

// Execute runs the action with id. It returns false if there is none.
func (s *ActionSet) Execute(id int) bool {
	a, ok := s.Find(id)
	if !ok {
		return false
	}
	a.Run()
	return true
}

// ExecuteChord runs the action bound to c. It returns false if there is
// none.
func (s *ActionSet) ExecuteChord(c key.Chord) bool {
	a, ok := s.FindByChord(c)
	if !ok {
		return false
	}
	a.Run()
	return true
}

// Actions returns the actions in id order.
func (s *ActionSet) Actions() []Action {
	return slices.Clone(s.actions)
}

// Len returns the number of actions.
func (s *ActionSet) Len() int {
	return len(s.actions)
}

// Rebind changes the chord of the action named name. It returns false if
// there is no such action.
func (s *ActionSet) Rebind(name string, c key.Chord) bool {
	for i := range s.actions {
		if s.actions[i].Name == name {
			s.actions[i].Chord = c
			return true
		}
	}
	return false
}

// ApplyBindings rebinds actions from a name to chord-spec map, as loaded
// from configuration. Names the set does not know are skipped; unparsable
// specs are collected and returned together.
func (s *ActionSet) ApplyBindings(bindings map[string]string) error {
	var errs []error
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if _, ok := s.FindByName(name); !ok {
			continue
		}
		c, err := key.ParseChord(bindings[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %s: %w", name, err))
			continue
		}
		s.Rebind(name, c)
	}
	return errors.Join(errs...)
}
