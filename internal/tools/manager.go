package tools

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/delegate"
	"github.com/dshills/interact/internal/input/behavior"
)

// InputRouter is the part of the router the manager drives.
type InputRouter interface {
	RegisterSourceOn(src behavior.Source, side behavior.CaptureSide) behavior.SourceID
	DeregisterSource(id behavior.SourceID)
	ForceTerminateSource(id behavior.SourceID)
}

// nopRouter hands out handles and routes nothing.
type nopRouter struct{}

func (nopRouter) RegisterSourceOn(behavior.Source, behavior.CaptureSide) behavior.SourceID {
	return behavior.NewSourceID()
}
func (nopRouter) DeregisterSource(behavior.SourceID)     {}
func (nopRouter) ForceTerminateSource(behavior.SourceID) {}

// ToolEvent is broadcast by OnToolStarted and OnToolEnded.
type ToolEvent struct {
	Side Side
	Name string
	Tool Tool

	// Shutdown is set for OnToolEnded.
	Shutdown ShutdownType
}

type activeTool struct {
	tool    Tool
	name    string
	source  behavior.SourceID
	actions *ActionSet
}

// Manager registers tool types and runs at most one tool per side.
//
// Like the router, the manager is driven from a single goroutine.
type Manager struct {
	router       InputRouter
	queries      ctxapi.QueriesAPI
	transactions ctxapi.TransactionsAPI
	assets       ctxapi.AssetAPI
	logger       *zap.Logger
	store        *PropertyStore
	bindings     map[string]map[string]string

	builders map[string]Builder
	selected [sideCount]string
	active   [sideCount]*activeTool

	// OnToolStarted fires after a tool is set up and registered.
	OnToolStarted delegate.Multicast[ToolEvent]

	// OnToolEnded fires after a tool is shut down and unregistered.
	OnToolEnded delegate.Multicast[ToolEvent]
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l.With(zap.String("component", "tools"))
		}
	}
}

// WithAssetAPI gives tools access to the host's asset API.
func WithAssetAPI(a ctxapi.AssetAPI) ManagerOption {
	return func(m *Manager) {
		m.assets = a
	}
}

// WithPropertyStore saves tool properties on deactivation and restores
// them on activation.
func WithPropertyStore(s *PropertyStore) ManagerOption {
	return func(m *Manager) {
		m.store = s
	}
}

// WithActionBindings overrides action chords per tool type. The map is
// keyed by tool type, then action name, to a chord spec.
func WithActionBindings(b map[string]map[string]string) ManagerOption {
	return func(m *Manager) {
		m.bindings = b
	}
}

// NewManager creates a manager. A nil router, queries or transactions is
// replaced with a no-op implementation; tools then run but receive no input.
func NewManager(router InputRouter, queries ctxapi.QueriesAPI, transactions ctxapi.TransactionsAPI, opts ...ManagerOption) *Manager {
	if router == nil {
		router = nopRouter{}
	}
	if queries == nil {
		queries = ctxapi.NopQueries{}
	}
	if transactions == nil {
		transactions = ctxapi.NopTransactions{}
	}
	m := &Manager{
		router:       router,
		queries:      queries,
		transactions: transactions,
		logger:       zap.NewNop(),
		builders:     make(map[string]Builder),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterToolType adds a builder under id. Registering an existing id
// replaces its builder and logs a warning; a tool already running from the
// old builder is unaffected.
func (m *Manager) RegisterToolType(id string, b Builder) {
	if id == "" || b == nil {
		m.diagnostic("RegisterToolType: empty id or nil builder ignored")
		return
	}
	if _, exists := m.builders[id]; exists {
		m.logger.Warn("tool type re-registered; replacing builder", zap.String("tool", id))
	}
	m.builders[id] = b
}

// UnregisterToolType removes the builder under id. Active tools of that type
// are cancelled and selections of it cleared. It returns false if id was not
// registered.
func (m *Manager) UnregisterToolType(id string) bool {
	if _, ok := m.builders[id]; !ok {
		return false
	}
	for _, side := range Sides {
		if at := m.active[side]; at != nil && at.name == id {
			m.DeactivateTool(side, Cancel)
		}
		if m.selected[side] == id {
			m.selected[side] = ""
		}
	}
	delete(m.builders, id)
	return true
}

// ToolTypes returns the registered tool types, sorted.
func (m *Manager) ToolTypes() []string {
	names := make([]string, 0, len(m.builders))
	for name := range m.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SelectActiveToolType selects the builder ActivateTool will use on side.
// It returns false if id is unknown. No tool is built.
func (m *Manager) SelectActiveToolType(side Side, id string) bool {
	if !side.valid() {
		return false
	}
	if _, ok := m.builders[id]; !ok {
		m.logger.Debug("select unknown tool type", zap.String("tool", id))
		return false
	}
	m.selected[side] = id
	return true
}

// SelectedToolType returns the tool type selected on side, or "".
func (m *Manager) SelectedToolType(side Side) string {
	if !side.valid() {
		return ""
	}
	return m.selected[side]
}

// CanActivateTool asks the builder registered under id whether it can build
// for the current selection. It has no side effects.
func (m *Manager) CanActivateTool(side Side, id string) bool {
	if !side.valid() {
		return false
	}
	b, ok := m.builders[id]
	if !ok {
		return false
	}
	return b.CanBuildTool(m.queries.CurrentSelectionState())
}

// ActivateTool builds, sets up and registers a tool from the builder
// selected on side. It returns false if no tool was started; the reason is
// available from ActivateToolErr.
func (m *Manager) ActivateTool(side Side) bool {
	return m.ActivateToolErr(side) == nil
}

// ActivateToolErr is ActivateTool returning an *ActivationError.
//
// A side that already runs a tool is never replaced implicitly: the call
// fails with ErrToolAlreadyActive and the running tool is left untouched.
func (m *Manager) ActivateToolErr(side Side) error {
	if !side.valid() {
		return &ActivationError{Side: side, Err: ErrInvalidSide}
	}
	name := m.selected[side]
	builder := m.builders[name]
	if name == "" || builder == nil {
		m.diagnostic(fmt.Sprintf("ActivateTool: no tool type selected on %s side", side))
		return &ActivationError{Side: side, Err: ErrNoBuilderSelected}
	}

	scene := m.queries.CurrentSelectionState()
	if !builder.CanBuildTool(scene) {
		m.diagnostic(fmt.Sprintf("ActivateTool: %s cannot be built for the current selection", name))
		return &ActivationError{Side: side, Tool: name, Err: ErrCannotBuild}
	}
	if cur := m.active[side]; cur != nil {
		m.logger.Debug("activate refused; side busy",
			zap.Stringer("side", side),
			zap.String("tool", name),
			zap.String("active", cur.name))
		return &ActivationError{Side: side, Tool: name, Err: ErrToolAlreadyActive}
	}

	tool := builder.BuildTool(scene)
	if tool == nil {
		m.diagnostic(fmt.Sprintf("ActivateTool: builder for %s returned no tool", name))
		return &ActivationError{Side: side, Tool: name, Err: ErrNilTool}
	}
	if b, ok := tool.(managerBinder); ok {
		b.bindManager(m, side)
	}
	if err := setupTool(tool); err != nil {
		m.diagnostic(fmt.Sprintf("ActivateTool: %s: %v", name, err))
		return &ActivationError{Side: side, Tool: name, Err: err}
	}

	if ps, ok := tool.(PropertySource); ok && m.store != nil {
		n, err := m.store.Restore(name, ps.PropertySets())
		if err != nil {
			m.logger.Warn("restore tool properties", zap.String("tool", name), zap.Error(err))
		}
		m.logger.Debug("tool properties restored", zap.String("tool", name), zap.Int("values", n))
	}

	actions := NewActionSet()
	tool.RegisterActions(actions)
	if err := actions.ApplyBindings(m.bindings[name]); err != nil {
		m.logger.Warn("apply action bindings", zap.String("tool", name), zap.Error(err))
	}

	// Each tool sees only its own pointer; the keyboard is shared.
	id := m.router.RegisterSourceOn(tool, side.CaptureSide())
	m.active[side] = &activeTool{tool: tool, name: name, source: id, actions: actions}

	m.logger.Info("tool started",
		zap.Stringer("side", side),
		zap.String("tool", name),
		zap.Stringer("source", id))
	m.OnToolStarted.Broadcast(ToolEvent{Side: side, Name: name, Tool: tool})
	return nil
}

// setupTool runs Setup, turning a panic into an error.
func setupTool(tool Tool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrSetupFailed, r)
		}
	}()
	tool.Setup()
	return nil
}

// DeactivateTool shuts down the tool on side. It terminates any capture the
// tool holds, calls Shutdown, unregisters the tool's behaviors and fires
// OnToolEnded. It does nothing if the side has no tool. The selected tool
// type stays selected.
func (m *Manager) DeactivateTool(side Side, t ShutdownType) {
	if !side.valid() {
		return
	}
	at := m.active[side]
	if at == nil {
		return
	}
	// Cleared first so a nested DeactivateTool from Shutdown is a no-op.
	m.active[side] = nil

	if ps, ok := at.tool.(PropertySource); ok && m.store != nil {
		m.store.Save(at.name, ps.PropertySets())
	}
	m.router.ForceTerminateSource(at.source)
	at.tool.Shutdown(t)
	m.router.DeregisterSource(at.source)
	m.transactions.PostInvalidation()

	m.logger.Info("tool ended",
		zap.Stringer("side", side),
		zap.String("tool", at.name),
		zap.Stringer("shutdown", t))
	m.OnToolEnded.Broadcast(ToolEvent{Side: side, Name: at.name, Tool: at.tool, Shutdown: t})
}

// SetActionBindings replaces the action chord overrides. Running tools
// keep their chords until they are next activated.
func (m *Manager) SetActionBindings(b map[string]map[string]string) {
	m.bindings = b
}

// ActiveTool returns the tool on side, or nil.
func (m *Manager) ActiveTool(side Side) Tool {
	if !side.valid() || m.active[side] == nil {
		return nil
	}
	return m.active[side].tool
}

// ActiveToolName returns the type of the tool on side, or "".
func (m *Manager) ActiveToolName(side Side) string {
	if !side.valid() || m.active[side] == nil {
		return ""
	}
	return m.active[side].name
}

// ActiveToolActions returns the action set of the tool on side, or nil.
func (m *Manager) ActiveToolActions(side Side) *ActionSet {
	if !side.valid() || m.active[side] == nil {
		return nil
	}
	return m.active[side].actions
}

// ActiveToolSource returns the router handle of the tool on side.
func (m *Manager) ActiveToolSource(side Side) (behavior.SourceID, bool) {
	if !side.valid() || m.active[side] == nil {
		return behavior.NilSource, false
	}
	return m.active[side].source, true
}

// HasActiveTool returns true if side runs a tool.
func (m *Manager) HasActiveTool(side Side) bool {
	return m.ActiveTool(side) != nil
}

// HasAnyActiveTool returns true if any side runs a tool.
func (m *Manager) HasAnyActiveTool() bool {
	for _, side := range Sides {
		if m.active[side] != nil {
			return true
		}
	}
	return false
}

// CanAcceptActiveTool returns true if the tool on side supports Accept and
// can accept now.
func (m *Manager) CanAcceptActiveTool(side Side) bool {
	t := m.ActiveTool(side)
	return t != nil && t.HasAccept() && t.CanAccept()
}

// CanCancelActiveTool returns true if the tool on side supports Cancel.
func (m *Manager) CanCancelActiveTool(side Side) bool {
	t := m.ActiveTool(side)
	return t != nil && t.HasCancel()
}

// Tick advances every active tool, left side first.
func (m *Manager) Tick(dt time.Duration) {
	for _, side := range Sides {
		if at := m.active[side]; at != nil {
			at.tool.Tick(dt)
		}
	}
}

// Render draws every active tool, left side first.
func (m *Manager) Render(api ctxapi.RenderAPI) {
	for _, side := range Sides {
		if at := m.active[side]; at != nil {
			at.tool.Render(api)
		}
	}
}

// Shutdown cancels every active tool.
func (m *Manager) Shutdown() {
	for _, side := range Sides {
		m.DeactivateTool(side, Cancel)
	}
}

// Queries returns the host query API.
func (m *Manager) Queries() ctxapi.QueriesAPI {
	return m.queries
}

// Assets returns the host asset API, or nil if the host has none.
func (m *Manager) Assets() ctxapi.AssetAPI {
	return m.assets
}

// PostMessage forwards msg to the host.
func (m *Manager) PostMessage(msg string, level ctxapi.MessageLevel) {
	m.transactions.DisplayMessage(msg, level)
}

// PostInvalidation asks the host to redraw.
func (m *Manager) PostInvalidation() {
	m.transactions.PostInvalidation()
}

// BeginUndoTransaction opens a host undo transaction.
func (m *Manager) BeginUndoTransaction(desc string) {
	m.transactions.BeginUndoTransaction(desc)
}

// EndUndoTransaction closes the open host undo transaction.
func (m *Manager) EndUndoTransaction() {
	m.transactions.EndUndoTransaction()
}

// EmitObjectChange appends change to the open transaction.
func (m *Manager) EmitObjectChange(target any, change ctxapi.Change, desc string) {
	m.transactions.AppendChange(target, change, desc)
}

// RequestSelectionChange asks the host to change the selection.
func (m *Manager) RequestSelectionChange(change ctxapi.SelectionChange) bool {
	return m.transactions.RequestSelectionChange(change)
}

func (m *Manager) diagnostic(msg string) {
	m.logger.Warn(msg)
	m.transactions.DisplayMessage(msg, ctxapi.Internal)
}
