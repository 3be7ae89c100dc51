// Package toolsctx bundles an input router and a tool manager into the
// object a host talks to.
//
// A host builds one Context per viewport or editor mode, feeds it device
// samples, ticks and renders it once per frame, and starts and ends tools
// by type id. There is no package-level state; every collaborator is
// injected through New.
package toolsctx

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/device"
	"github.com/dshills/interact/internal/input/key"
	"github.com/dshills/interact/internal/input/router"
	"github.com/dshills/interact/internal/tools"
)

// Context owns a router and a tool manager wired to the same host APIs.
type Context struct {
	queries      ctxapi.QueriesAPI
	transactions ctxapi.TransactionsAPI
	assets       ctxapi.AssetAPI

	router  *router.Router
	manager *tools.Manager

	store     *tools.PropertyStore
	storePath string

	logger *zap.Logger

	routerOpts  []router.Option
	managerOpts []tools.ManagerOption

	closed bool
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger for the context, its router and its manager.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAssetAPI sets the host asset API handed to tools.
func WithAssetAPI(a ctxapi.AssetAPI) Option {
	return func(c *Context) {
		c.assets = a
	}
}

// WithPropertyStore persists tool properties in store. A non-empty path is
// loaded by New and written by Shutdown.
func WithPropertyStore(store *tools.PropertyStore, path string) Option {
	return func(c *Context) {
		c.store = store
		c.storePath = path
	}
}

// WithRouterOptions passes options to the router.
func WithRouterOptions(opts ...router.Option) Option {
	return func(c *Context) {
		c.routerOpts = append(c.routerOpts, opts...)
	}
}

// WithManagerOptions passes options to the tool manager.
func WithManagerOptions(opts ...tools.ManagerOption) Option {
	return func(c *Context) {
		c.managerOpts = append(c.managerOpts, opts...)
	}
}

// New creates a context. Nil queries or transactions are replaced with
// no-op implementations. A property store that fails to load is logged and
// used empty.
func New(queries ctxapi.QueriesAPI, transactions ctxapi.TransactionsAPI, opts ...Option) *Context {
	if queries == nil {
		queries = ctxapi.NopQueries{}
	}
	if transactions == nil {
		transactions = ctxapi.NopTransactions{}
	}
	c := &Context{
		queries:      queries,
		transactions: transactions,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.store != nil && c.storePath != "" {
		if err := c.store.Load(c.storePath); err != nil {
			c.logger.Warn("load tool properties", zap.String("path", c.storePath), zap.Error(err))
		}
	}

	ropts := append([]router.Option{router.WithLogger(c.logger)}, c.routerOpts...)
	c.router = router.New(transactions, ropts...)

	mopts := []tools.ManagerOption{tools.WithLogger(c.logger)}
	if c.store != nil {
		mopts = append(mopts, tools.WithPropertyStore(c.store))
	}
	if c.assets != nil {
		mopts = append(mopts, tools.WithAssetAPI(c.assets))
	}
	mopts = append(mopts, c.managerOpts...)
	c.manager = tools.NewManager(c.router, queries, transactions, mopts...)
	return c
}

// Router returns the input router.
func (c *Context) Router() *router.Router {
	return c.router
}

// Manager returns the tool manager.
func (c *Context) Manager() *tools.Manager {
	return c.manager
}

// Assets returns the asset API, or nil if the host provides none.
func (c *Context) Assets() ctxapi.AssetAPI {
	return c.assets
}

// Queries returns the host query API.
func (c *Context) Queries() ctxapi.QueriesAPI {
	return c.queries
}

// RegisterToolType registers a builder with the manager.
func (c *Context) RegisterToolType(name string, b tools.Builder) {
	c.manager.RegisterToolType(name, b)
}

// PostInputEvent forwards a device sample to the router.
func (c *Context) PostInputEvent(in device.State) {
	if c.closed {
		return
	}
	c.router.PostInputEvent(in)
}

// PostHoverInputEvent forwards a hover sample to the router and reports
// whether hover state changed.
func (c *Context) PostHoverInputEvent(in device.State) bool {
	if c.closed {
		return false
	}
	return c.router.PostHoverInputEvent(in)
}

// Tick advances the active tools.
func (c *Context) Tick(dt time.Duration) {
	c.manager.Tick(dt)
}

// Render draws the active tools.
func (c *Context) Render(api ctxapi.RenderAPI) {
	c.manager.Render(api)
}

// CanStartTool reports whether the tool type name could be started on the
// left side now.
func (c *Context) CanStartTool(name string) bool {
	return !c.closed && c.manager.CanActivateTool(tools.SideLeft, name)
}

// StartTool selects and starts the tool type name on the left side.
func (c *Context) StartTool(name string) bool {
	return c.StartToolErr(name) == nil
}

// StartToolErr is StartTool returning why the tool did not start. A
// running tool is never replaced; end it first.
func (c *Context) StartToolErr(name string) error {
	if c.closed {
		return fmt.Errorf("start tool %q: %w", name, ErrClosed)
	}
	if cur := c.manager.ActiveToolName(tools.SideLeft); cur != "" {
		return &tools.ActivationError{Side: tools.SideLeft, Tool: name, Err: tools.ErrToolAlreadyActive}
	}
	if !c.manager.SelectActiveToolType(tools.SideLeft, name) {
		return &tools.ActivationError{Side: tools.SideLeft, Tool: name, Err: tools.ErrUnknownToolType}
	}
	return c.manager.ActivateToolErr(tools.SideLeft)
}

// EndTool shuts down the left tool.
func (c *Context) EndTool(t tools.ShutdownType) {
	c.manager.DeactivateTool(tools.SideLeft, t)
}

// ActiveToolName returns the left tool's type id, or "".
func (c *Context) ActiveToolName() string {
	return c.manager.ActiveToolName(tools.SideLeft)
}

// HasActiveTool returns true if the left side runs a tool.
func (c *Context) HasActiveTool() bool {
	return c.manager.HasActiveTool(tools.SideLeft)
}

// ActiveToolHasAccept returns true if the left tool supports Accept.
func (c *Context) ActiveToolHasAccept() bool {
	t := c.manager.ActiveTool(tools.SideLeft)
	return t != nil && t.HasAccept()
}

// CanAcceptActiveTool returns true if the left tool can accept now.
func (c *Context) CanAcceptActiveTool() bool {
	return c.manager.CanAcceptActiveTool(tools.SideLeft)
}

// CanCancelActiveTool returns true if the left tool supports Cancel.
func (c *Context) CanCancelActiveTool() bool {
	return c.manager.CanCancelActiveTool(tools.SideLeft)
}

// ExecuteToolAction runs the action bound to chord on the first active
// tool that has one, left side first.
func (c *Context) ExecuteToolAction(chord key.Chord) bool {
	for _, side := range tools.Sides {
		if set := c.manager.ActiveToolActions(side); set != nil && set.ExecuteChord(chord) {
			return true
		}
	}
	return false
}

// Shutdown cancels every tool, terminates any capture still held and saves
// tool properties. Later calls do nothing.
func (c *Context) Shutdown() error {
	if c.closed {
		return nil
	}
	c.closed = true

	c.manager.Shutdown()
	c.router.ForceTerminateAll()

	if c.store != nil && c.storePath != "" && c.store.Dirty() {
		if err := c.store.Flush(c.storePath); err != nil {
			return fmt.Errorf("save tool properties: %w", err)
		}
	}
	c.logger.Debug("tools context shut down")
	return nil
}
