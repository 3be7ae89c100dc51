package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty chord specification")
	ErrInvalidSpec = errors.New("invalid chord specification")
)

// Chord is a single key combined with modifiers, e.g. Ctrl+Z.
// The zero Chord is unbound.
type Chord struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// RuneChord returns a chord for a character key.
func RuneChord(r rune, mods Modifier) Chord {
	return Chord{Key: KeyRune, Rune: unicode.ToLower(r), Modifiers: mods}
}

// SpecialChord returns a chord for a non-character key.
func SpecialChord(k Key, mods Modifier) Chord {
	return Chord{Key: k, Modifiers: mods}
}

// IsBound returns true if the chord names a key.
func (c Chord) IsBound() bool {
	return c.Key != KeyNone
}

// Matches reports whether a key press with the given modifiers triggers c.
// Character keys compare case-insensitively; Shift must match exactly.
func (c Chord) Matches(k Key, r rune, mods Modifier) bool {
	if !c.IsBound() || c.Key != k || c.Modifiers != mods {
		return false
	}
	if k == KeyRune {
		return unicode.ToLower(r) == c.Rune
	}
	return true
}

// String returns the modifier-style form, e.g. "Ctrl+Shift+P".
func (c Chord) String() string {
	if !c.IsBound() {
		return ""
	}
	name := c.keyName()
	if c.Modifiers == ModNone {
		return name
	}
	return c.Modifiers.String() + "+" + name
}

// VimString returns the Vim-style form, e.g. "<C-S-p>".
func (c Chord) VimString() string {
	if !c.IsBound() {
		return ""
	}
	name := c.keyName()
	if c.Modifiers == ModNone {
		if c.Key == KeyRune {
			return name
		}
		return "<" + name + ">"
	}
	return "<" + c.Modifiers.ShortString() + "-" + name + ">"
}

func (c Chord) keyName() string {
	if c.Key == KeyRune {
		if c.Rune == ' ' {
			return KeySpace.String()
		}
		return string(c.Rune)
	}
	return c.Key.String()
}

// ParseChord parses a chord specification.
//
// Supported formats:
//   - Single character: "a", "1", "@"
//   - Key names: "Enter", "Escape", "Tab", "F5", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-F4>", "<C-S-p>", "<CR>", "<Esc>"
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	var (
		parts []string
		sep   string
	)
	switch {
	case len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">"):
		sep = "-"
		parts = strings.Split(spec[1:len(spec)-1], sep)
	case len(spec) > 1 && strings.Contains(spec, "+"):
		sep = "+"
		parts = strings.Split(spec, sep)
	default:
		parts = []string{spec}
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
		}
		mods = mods.With(mod)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return Chord{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		if k == KeySpace {
			return RuneChord(' ', mods), nil
		}
		return SpecialChord(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	r := runes[0]
	if unicode.IsUpper(r) && sep == "" {
		// A bare capital letter implies Shift.
		mods = mods.With(ModShift)
	}
	return RuneChord(r, mods), nil
}

// MustParseChord parses a chord specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic("invalid chord specification: " + spec + ": " + err.Error())
	}
	return c
}
