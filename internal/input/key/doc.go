// Package key provides keyboard key, modifier and chord types for the input system.
//
// This package defines the fundamental keyboard vocabulary shared by device
// snapshots, keyboard behaviors and tool action sets:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Chord: A key plus modifiers, used as the default binding of a tool action
//
// # Chord Specifications
//
// Chords can be written in two formats:
//
//   - Modifier style: "Ctrl+Z", "Alt+F4", "Ctrl+Shift+P", "Escape"
//   - Vim style: "<C-z>", "<A-F4>", "<C-S-p>", "<CR>", "<Esc>"
package key
