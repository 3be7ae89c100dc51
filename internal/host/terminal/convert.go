package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/interact/internal/input/key"
)

// convertKey converts a tcell key event to a key, rune and modifiers.
// Control letters arrive from tcell as dedicated keys and come back as
// the letter with Ctrl held. Shift on character keys follows the case of
// the rune. The final result is false for keys with no equivalent.
func convertKey(ev *tcell.EventKey) (key.Key, rune, key.Modifier, bool) {
	mods := convertMod(ev.Modifiers())
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		mods = mods.Without(key.ModShift)
		if unicode.IsUpper(r) {
			mods = mods.With(key.ModShift)
		}
		return key.KeyRune, unicode.ToLower(r), mods, true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return key.KeyRune, 'a' + rune(k-tcell.KeyCtrlA), mods.With(key.ModCtrl), true
	case k == tcell.KeyCtrlSpace:
		return key.KeyRune, ' ', mods.With(key.ModCtrl), true
	}

	sk := convertSpecial(k)
	if sk == key.KeyNone {
		return key.KeyNone, 0, mods, false
	}
	return sk, 0, mods, true
}

func convertSpecial(k tcell.Key) key.Key {
	switch k {
	case tcell.KeyEscape:
		return key.KeyEscape
	case tcell.KeyEnter:
		return key.KeyEnter
	case tcell.KeyTab:
		return key.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace
	case tcell.KeyDelete:
		return key.KeyDelete
	case tcell.KeyInsert:
		return key.KeyInsert
	case tcell.KeyHome:
		return key.KeyHome
	case tcell.KeyEnd:
		return key.KeyEnd
	case tcell.KeyPgUp:
		return key.KeyPageUp
	case tcell.KeyPgDn:
		return key.KeyPageDown
	case tcell.KeyUp:
		return key.KeyUp
	case tcell.KeyDown:
		return key.KeyDown
	case tcell.KeyLeft:
		return key.KeyLeft
	case tcell.KeyRight:
		return key.KeyRight
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return key.KeyF1 + key.Key(k-tcell.KeyF1)
	}
	return key.KeyNone
}

// convertMod converts tcell modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}

// convertButtons returns the held state of the left, middle and right
// buttons and the wheel movement, positive away from the user.
func convertButtons(b tcell.ButtonMask) ([3]bool, float64) {
	held := [3]bool{
		b&tcell.Button1 != 0,
		b&tcell.Button3 != 0,
		b&tcell.Button2 != 0,
	}
	var wheel float64
	if b&tcell.WheelUp != 0 {
		wheel++
	}
	if b&tcell.WheelDown != 0 {
		wheel--
	}
	return held, wheel
}
