package terminal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/dshills/interact/internal/config"
	"github.com/dshills/interact/internal/ctxapi"
	"github.com/dshills/interact/internal/input/behavior"
	"github.com/dshills/interact/internal/input/device"
	"github.com/dshills/interact/internal/input/key"
	"github.com/dshills/interact/internal/tools"
	"github.com/dshills/interact/internal/toolsctx"
)

// DefaultTickInterval is how often running tools are ticked.
const DefaultTickInterval = 50 * time.Millisecond

var (
	objectColor   = ctxapi.Color{R: 160, G: 160, B: 220, A: 255}
	selectedColor = ctxapi.Color{R: 255, G: 120, B: 120, A: 255}

	statusStyle  = tcell.StyleDefault.Reverse(true)
	warningStyle = statusStyle.Foreground(tcell.ColorYellow)
	errorStyle   = statusStyle.Foreground(tcell.ColorRed)

	quitChord = key.RuneChord('c', key.ModCtrl)
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the logger. The default discards everything.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l.With(zap.String("component", "session"))
		}
	}
}

// WithDoubleClick sets the double click interval of the mouse.
func WithDoubleClick(d time.Duration) SessionOption {
	return func(s *Session) {
		s.mouse.SetDoubleClickTime(d)
	}
}

// WithTickInterval sets how often Run ticks the tools.
func WithTickInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.tick = d
		}
	}
}

// Session drives a tools context from a tcell screen.
//
// Mouse events go to the left pointer side. Plain motion is posted as hover
// input and everything else as capture input. Keys are handled in order:
// Ctrl+C quits, Escape cancels the active tool, Enter accepts it, F1 to
// F12 start the registered tool types in name order, a chord bound to an
// action of the active tool runs the action, and anything else is posted
// as a key press followed by a release.
type Session struct {
	screen tcell.Screen
	ctx    *toolsctx.Context
	host   *Host
	mouse  *device.MouseTracker
	logger *zap.Logger

	tick     time.Duration
	lastTick time.Time
}

// NewSession creates a session. The screen must be initialized.
func NewSession(screen tcell.Screen, c *toolsctx.Context, host *Host, opts ...SessionOption) *Session {
	s := &Session{
		screen: screen,
		ctx:    c,
		host:   host,
		mouse:  device.NewMouseTracker(device.SideLeft),
		logger: zap.NewNop(),
		tick:   DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	w, h := screen.Size()
	host.Scene().SetViewport(w, canvasHeight(h))
	return s
}

func canvasHeight(screenHeight int) int {
	return max(screenHeight-1, 0)
}

// Run handles events until the user quits, the screen is finalized or ctx
// is done.
func (s *Session) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 32)
	quit := make(chan struct{})
	go s.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.lastTick = time.Now()
	s.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !s.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			s.Tick(now)
		}
		if s.host.TakeInvalidation() {
			s.Draw()
		}
	}
}

// Tick advances running tools to now.
func (s *Session) Tick(now time.Time) {
	if !s.lastTick.IsZero() {
		s.ctx.Tick(now.Sub(s.lastTick))
	}
	s.lastTick = now
}

// HandleEvent handles one screen event. It returns false when the session
// should end.
func (s *Session) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(ev)
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		s.host.Scene().SetViewport(w, canvasHeight(h))
		s.screen.Sync()
		s.host.PostInvalidation()
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case *config.Config:
			s.ApplyConfig(data)
		case error:
			s.host.DisplayMessage("config: "+data.Error(), ctxapi.UserWarning)
		}
	}
	return true
}

func (s *Session) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	held, wheel := convertButtons(ev.Buttons())
	st := s.mouse.Sample(mgl64.Vec2{float64(x), float64(y)}, held, wheel, convertMod(ev.Modifiers()), ev.When())

	// Plain motion is hover input unless a capture is waiting for it.
	if st.Mouse.IsMotionOnly() && !s.ctx.Router().HasActiveCapture(behavior.CaptureLeft) {
		s.ctx.PostHoverInputEvent(st)
		return
	}
	s.ctx.PostInputEvent(st)
}

func (s *Session) handleKey(ev *tcell.EventKey) bool {
	k, r, mods, ok := convertKey(ev)
	if !ok {
		return true
	}
	kb := device.KeyboardState{Key: k, Rune: r}
	chord := kb.Chord(mods)

	switch {
	case chord == quitChord:
		return false
	case k == key.KeyEscape && mods == key.ModNone && s.ctx.HasActiveTool():
		s.endTool(tools.Cancel)
		return true
	case k == key.KeyEnter && mods == key.ModNone && s.ctx.HasActiveTool():
		switch {
		case !s.ctx.ActiveToolHasAccept():
			s.endTool(tools.Completed)
		case s.ctx.CanAcceptActiveTool():
			s.endTool(tools.Accept)
		default:
			s.host.DisplayMessage("nothing to accept", ctxapi.UserNotification)
		}
		return true
	case k.IsFunctionKey() && mods == key.ModNone:
		s.startByIndex(int(k - key.KeyF1))
		return true
	}

	if s.ctx.ExecuteToolAction(chord) {
		return true
	}
	now := ev.When()
	s.ctx.PostInputEvent(device.KeyPress(k, r, mods, now))
	s.ctx.PostInputEvent(device.KeyRelease(k, r, mods, now))
	return true
}

func (s *Session) endTool(t tools.ShutdownType) {
	name := s.ctx.ActiveToolName()
	s.ctx.EndTool(t)
	s.logger.Debug("tool ended", zap.String("tool", name), zap.Stringer("shutdown", t))
	s.host.PostInvalidation()
}

// startByIndex starts the i-th registered tool type. A running tool is
// accepted when it can be, otherwise cancelled.
func (s *Session) startByIndex(i int) {
	names := s.ctx.Manager().ToolTypes()
	if i < 0 || i >= len(names) {
		return
	}
	s.StartTool(names[i])
}

// StartTool ends any running tool and starts name.
func (s *Session) StartTool(name string) {
	if s.ctx.ActiveToolName() == name {
		return
	}
	if s.ctx.HasActiveTool() {
		if s.ctx.CanAcceptActiveTool() {
			s.endTool(tools.Accept)
		} else {
			s.endTool(tools.Cancel)
		}
	}
	if err := s.ctx.StartToolErr(name); err != nil {
		s.host.DisplayMessage(fmt.Sprintf("start %s: %v", name, err), ctxapi.UserError)
		return
	}
	s.host.PostInvalidation()
}

// ApplyConfig applies the settings that can change while running. Router
// settings need a restart.
func (s *Session) ApplyConfig(cfg *config.Config) {
	s.mouse.SetDoubleClickTime(cfg.Host.DoubleClick())
	s.ctx.Manager().SetActionBindings(cfg.Tools.Bindings)
	if cfg.Host.Mouse {
		s.screen.EnableMouse()
	} else {
		s.screen.DisableMouse()
	}
	s.host.DisplayMessage("config reloaded", ctxapi.UserNotification)
}

// Draw redraws the whole screen.
func (s *Session) Draw() {
	s.screen.Clear()
	w, h := s.screen.Size()
	scene := s.host.Scene()
	canvas := NewCanvas(s.screen, scene.CurrentViewState(), canvasHeight(h))

	for _, o := range scene.Objects() {
		color := objectColor
		if scene.IsSelected(o.Ref.ID) {
			color = selectedColor
		}
		canvas.DrawPoint(o.Position, o.Glyph, color)
	}
	s.ctx.Render(canvas)
	s.drawStatus(w, h)
	s.screen.Show()
}

func (s *Session) drawStatus(w, h int) {
	if h == 0 {
		return
	}
	y := h - 1

	var b strings.Builder
	for i, name := range s.ctx.Manager().ToolTypes() {
		if i >= 12 {
			break
		}
		if name == s.ctx.ActiveToolName() {
			fmt.Fprintf(&b, "[F%d %s] ", i+1, name)
		} else {
			fmt.Fprintf(&b, " F%d %s  ", i+1, name)
		}
	}
	status := s.host.Status()
	if status.Text != "" {
		b.WriteString("| ")
		b.WriteString(status.Text)
	}

	st := statusStyle
	switch status.Level {
	case ctxapi.UserWarning:
		st = warningStyle
	case ctxapi.UserError:
		st = errorStyle
	}

	x := 0
	for _, r := range b.String() {
		if x >= w {
			break
		}
		s.screen.SetContent(x, y, r, nil, st)
		x++
	}
	for ; x < w; x++ {
		s.screen.SetContent(x, y, ' ', nil, st)
	}
}
