package ctxapi

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// NopQueries is a QueriesAPI with an empty scene.
type NopQueries struct {
	// Scene is returned from CurrentSelectionState.
	Scene SceneState
}

// CurrentSelectionState implements QueriesAPI.
func (q NopQueries) CurrentSelectionState() SceneState { return q.Scene }

// CurrentViewState implements QueriesAPI.
func (NopQueries) CurrentViewState() ViewState {
	return ViewState{Forward: mgl64.Vec3{0, 0, 1}, Up: mgl64.Vec3{0, 1, 0}, Orthographic: true}
}

// CurrentCoordinateSystem implements QueriesAPI.
func (NopQueries) CurrentCoordinateSystem() CoordinateSystem { return CoordWorld }

// ExecuteSceneSnapQuery implements QueriesAPI.
func (NopQueries) ExecuteSceneSnapQuery(SnapQuery) ([]SnapResult, bool) { return nil, false }

// StandardMaterial implements QueriesAPI.
func (NopQueries) StandardMaterial(MaterialKind) Material { return "" }

// NopTransactions is a TransactionsAPI that discards everything.
type NopTransactions struct{}

// DisplayMessage implements TransactionsAPI.
func (NopTransactions) DisplayMessage(string, MessageLevel) {}

// PostInvalidation implements TransactionsAPI.
func (NopTransactions) PostInvalidation() {}

// BeginUndoTransaction implements TransactionsAPI.
func (NopTransactions) BeginUndoTransaction(string) {}

// EndUndoTransaction implements TransactionsAPI.
func (NopTransactions) EndUndoTransaction() {}

// AppendChange implements TransactionsAPI.
func (NopTransactions) AppendChange(any, Change, string) {}

// RequestSelectionChange implements TransactionsAPI.
func (NopTransactions) RequestSelectionChange(SelectionChange) bool { return false }

// Message is a message captured by RecordingTransactions.
type Message struct {
	Text  string
	Level MessageLevel
}

// RecordingTransactions records every call. It is used by tests and by
// headless hosts that replay sessions.
type RecordingTransactions struct {
	Messages      []Message
	Invalidations int
	Transactions  []string
	Changes       []string
	Selections    []SelectionChange

	// AcceptSelection controls the RequestSelectionChange result.
	AcceptSelection bool

	depth int
}

// DisplayMessage implements TransactionsAPI.
func (r *RecordingTransactions) DisplayMessage(msg string, level MessageLevel) {
	r.Messages = append(r.Messages, Message{Text: msg, Level: level})
}

// PostInvalidation implements TransactionsAPI.
func (r *RecordingTransactions) PostInvalidation() { r.Invalidations++ }

// BeginUndoTransaction implements TransactionsAPI.
func (r *RecordingTransactions) BeginUndoTransaction(description string) {
	r.depth++
	r.Transactions = append(r.Transactions, "begin:"+description)
}

// EndUndoTransaction implements TransactionsAPI.
func (r *RecordingTransactions) EndUndoTransaction() {
	r.depth--
	r.Transactions = append(r.Transactions, "end")
}

// AppendChange implements TransactionsAPI.
func (r *RecordingTransactions) AppendChange(target any, change Change, description string) {
	r.Changes = append(r.Changes, fmt.Sprintf("%v:%s:%s", target, change.Describe(), description))
}

// RequestSelectionChange implements TransactionsAPI.
func (r *RecordingTransactions) RequestSelectionChange(change SelectionChange) bool {
	r.Selections = append(r.Selections, change)
	return r.AcceptSelection
}

// Depth returns the number of open undo transactions.
func (r *RecordingTransactions) Depth() int { return r.depth }

// MessagesAt returns the recorded messages with the given level.
func (r *RecordingTransactions) MessagesAt(level MessageLevel) []string {
	var out []string
	for _, m := range r.Messages {
		if m.Level == level {
			out = append(out, m.Text)
		}
	}
	return out
}
