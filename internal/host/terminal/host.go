// Package terminal hosts interactive tools in a terminal.
//
// The host turns tcell mouse and key events into device states for the
// tools context, draws tool output on a tcell screen, and implements the
// context APIs against a simple Scene. Undo transactions are recorded in
// a journal; undo and redo themselves are not implemented.
package terminal

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/dshills/interact/internal/ctxapi"
)

// Change is one recorded change.
type Change struct {
	Target      string
	Description string
}

// Transaction is a committed group of changes.
type Transaction struct {
	Description string
	Changes     []Change
}

// Host implements ctxapi.TransactionsAPI for the terminal.
type Host struct {
	scene  *Scene
	logger *zap.Logger

	journal []Transaction
	open    *Transaction
	depth   int

	status      ctxapi.Message
	invalidated bool
}

// NewHost creates a host editing scene.
func NewHost(scene *Scene, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{scene: scene, logger: logger.With(zap.String("component", "host"))}
}

// Scene returns the edited scene.
func (h *Host) Scene() *Scene {
	return h.scene
}

// Journal returns the committed transactions, oldest first.
func (h *Host) Journal() []Transaction {
	return slices.Clone(h.journal)
}

// Depth returns the undo transaction nesting depth.
func (h *Host) Depth() int {
	return h.depth
}

// Status returns the last user-facing message.
func (h *Host) Status() ctxapi.Message {
	return h.status
}

// TakeInvalidation reports whether a redraw was requested since the last
// call and clears the request.
func (h *Host) TakeInvalidation() bool {
	v := h.invalidated
	h.invalidated = false
	return v
}

// DisplayMessage implements ctxapi.TransactionsAPI. Internal messages are
// only logged; the rest become the status line.
func (h *Host) DisplayMessage(msg string, level ctxapi.MessageLevel) {
	if level == ctxapi.Internal {
		h.logger.Warn(msg)
		return
	}
	h.logger.Info(msg, zap.Stringer("level", level))
	h.status = ctxapi.Message{Text: msg, Level: level}
	h.invalidated = true
}

// PostInvalidation implements ctxapi.TransactionsAPI.
func (h *Host) PostInvalidation() {
	h.invalidated = true
}

// BeginUndoTransaction implements ctxapi.TransactionsAPI. Nested
// transactions fold into the outermost one.
func (h *Host) BeginUndoTransaction(description string) {
	h.depth++
	if h.depth == 1 {
		h.open = &Transaction{Description: description}
	}
}

// EndUndoTransaction implements ctxapi.TransactionsAPI. A transaction with
// no changes is dropped.
func (h *Host) EndUndoTransaction() {
	if h.depth == 0 {
		h.logger.Warn("end of undo transaction without begin")
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	if len(h.open.Changes) > 0 {
		h.journal = append(h.journal, *h.open)
		h.logger.Debug("transaction committed",
			zap.String("description", h.open.Description),
			zap.Int("changes", len(h.open.Changes)))
	}
	h.open = nil
}

// AppendChange implements ctxapi.TransactionsAPI. A change outside a
// transaction is committed on its own.
func (h *Host) AppendChange(target any, change ctxapi.Change, description string) {
	h.record(Change{Target: fmt.Sprint(target), Description: change.Describe()}, description)
}

func (h *Host) record(c Change, description string) {
	if h.open != nil {
		h.open.Changes = append(h.open.Changes, c)
		return
	}
	h.journal = append(h.journal, Transaction{Description: description, Changes: []Change{c}})
}

// RequestSelectionChange implements ctxapi.TransactionsAPI. Accepted
// changes are recorded like any other change.
func (h *Host) RequestSelectionChange(change ctxapi.SelectionChange) bool {
	if !h.scene.applySelection(change) {
		return false
	}
	h.record(Change{
		Target:      "selection",
		Description: fmt.Sprintf("%d selected", len(h.scene.selection)),
	}, "Select")
	h.invalidated = true
	return true
}
