// Package app runs the terminal: the main loop that moves bytes between
// the console, the serial line and the screen, the Ctrl-A command key,
// and the auto-date responder.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/h19term/internal/config"
	"github.com/dshills/h19term/internal/display"
	"github.com/dshills/h19term/internal/keyboard"
	"github.com/dshills/h19term/internal/notify"
	"github.com/dshills/h19term/internal/serial"
	"github.com/dshills/h19term/internal/terminal"
)

// Loop timing.
const (
	// MaxIdle is the longest the loop sleeps with nothing to do.
	MaxIdle = 100 * time.Millisecond

	// minIdle is the first sleep after activity stops.
	minIdle = time.Millisecond

	// SequenceTimeout bounds each read that completes an escape
	// sequence already in progress.
	SequenceTimeout = time.Second

	// frameInterval limits redraws while the host is streaming.
	frameInterval = time.Second / 60
)

// Line is the serial discipline the loop drives. serial.Transport
// satisfies it.
type Line interface {
	Name() string
	Write(p []byte) error
	WriteByte(b byte) error
	Read(timeout time.Duration) (byte, bool)
	ReadRaw(timeout time.Duration) (byte, bool)
	Baud() int
	SetBaud(rate int) error
	SendBreak() error
	Offline() bool
	ToggleOffline() bool
	SetActivityLog(w io.Writer)
	ActivityLogging() bool
	ProbeBackspace() serial.Echo
}

// Console is the display surface and key source. display.Surface
// satisfies it.
type Console interface {
	Draw(scr *terminal.Screen, status *display.StatusLine)
	DrawPage(lines []string, status *display.StatusLine)
	PollEvent() tcell.Event
	SetColour(c tcell.Color)
	Sync()
}

// Bell is the bell device.
type Bell interface {
	Ring()
}

// Settings is the persisted-settings capability. config.Store satisfies
// it. Colour changes are published by the store, not by the loop.
type Settings interface {
	Colour() int
	NextColour() (int, error)
	Reload() error
}

// Options configures an Application.
type Options struct {
	Config   config.Config
	Settings Settings
	Line     Line
	Console  Console
	Bell     Bell
	Notifier *notify.Notifier
	Logger   *Logger

	// Reload signals that the settings file changed on disk. Optional.
	Reload <-chan struct{}

	// Version is shown on the intro screen.
	Version string
}

// Application is the terminal session. All of its state is owned by the
// goroutine running Run.
type Application struct {
	opts     Options
	cfg      config.Config
	logger   *Logger
	line     Line
	console  Console
	bell     Bell
	settings Settings
	notifier *notify.Notifier

	screen   *terminal.Screen
	interp   *terminal.Interpreter
	status   *display.StatusLine
	limiter  *keyboard.Limiter
	autodate *AutoDate
	palette  []tcell.Color
	metrics  *Metrics

	events  chan tcell.Event
	running atomic.Bool

	intro          bool
	commandPending bool
	page           []string
	activity       io.WriteCloser
	dirty          bool
	lastDraw       time.Time
	ctx            context.Context
}

// New creates an Application from opts. Line and Console are required.
func New(opts Options) (*Application, error) {
	if opts.Line == nil || opts.Console == nil {
		return nil, errors.New("app: line and console are required")
	}
	if opts.Logger == nil {
		opts.Logger = GetLogger()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.New()
	}

	cfg := opts.Config
	palette, err := display.Palette(cfg.Display.Palette)
	if err != nil {
		return nil, err
	}
	autodate, err := NewAutoDate(cfg.AutoDate)
	if err != nil {
		return nil, err
	}

	a := &Application{
		opts:     opts,
		cfg:      cfg,
		logger:   opts.Logger.WithComponent("app"),
		line:     opts.Line,
		console:  opts.Console,
		bell:     opts.Bell,
		settings: opts.Settings,
		notifier: opts.Notifier,
		limiter:  keyboard.NewLimiter(cfg.RepeatInterval(), cfg.Keyboard.RepeatThreshold),
		autodate: autodate,
		palette:  palette,
		metrics:  NewMetrics(),
		events:   make(chan tcell.Event, 16),
		ctx:      context.Background(),
	}

	a.screen = terminal.NewScreen(a.notifier)
	a.interp = terminal.NewInterpreter(a.screen, &host{a: a})
	a.interp.SetLogger(opts.Logger.WithComponent("interpreter"))
	a.status = display.NewStatusLine(a.notifier, a.line.Name(), a.line.Baud())

	// A reset from the host or the user starts the date prompt watch over.
	a.notifier.SubscribeTopic(notify.TopicReset, func(notify.Change) {
		a.autodate.Reset()
	})
	a.notifier.SubscribeTopic(notify.TopicColour, func(c notify.Change) {
		if i, ok := c.Value.(int); ok {
			a.applyColour(i)
		}
	})
	colour := cfg.Display.Colour
	if a.settings != nil {
		colour = a.settings.Colour()
	}
	a.applyColour(colour)
	return a, nil
}

// Screen returns the terminal screen.
func (a *Application) Screen() *terminal.Screen {
	return a.screen
}

// Metrics returns the session counters.
func (a *Application) Metrics() MetricsSnapshot {
	return a.metrics.Snapshot(a.interp.Dropped())
}

// Run shows the intro screen and runs the loop until the user exits or
// ctx is cancelled. A user exit returns nil.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)
	defer a.closeActivityLog()

	a.ctx = ctx
	done := make(chan struct{})
	defer close(done)
	go a.pollEvents(done)

	a.showIntro()
	a.redraw()

	idle := time.Duration(0)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		active, err := a.step()
		if err != nil {
			return a.finish(err)
		}
		if active {
			idle = 0
			if time.Since(a.lastDraw) >= frameInterval {
				a.redraw()
			}
			continue
		}

		if a.dirty {
			a.redraw()
		}
		idle = nextIdle(idle)
		timer.Reset(idle)

		select {
		case <-ctx.Done():
			return a.finish(ctx.Err())
		case ev := <-a.events:
			timer.Stop()
			idle = 0
			if err := a.handleEvent(ev); err != nil {
				return a.finish(err)
			}
		case <-a.opts.Reload:
			a.reloadSettings()
		case <-timer.C:
			// the status line may have a flash or notice to expire
			a.dirty = true
		}
	}
}

func (a *Application) finish(err error) error {
	a.logger.Info("session ended: %s", a.Metrics())
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// nextIdle grows the idle sleep geometrically up to MaxIdle.
func nextIdle(d time.Duration) time.Duration {
	if d < minIdle {
		return minIdle
	}
	return min(d*2, MaxIdle)
}

// step polls once for a key and once for an inbound byte.
func (a *Application) step() (bool, error) {
	active := false
	select {
	case ev := <-a.events:
		active = true
		if err := a.handleEvent(ev); err != nil {
			return true, err
		}
	default:
	}

	if b, ok := a.line.Read(serial.NoWait); ok {
		active = true
		a.receive(b)
	}
	return active, nil
}

func (a *Application) pollEvents(done <-chan struct{}) {
	for {
		ev := a.console.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.events <- ev:
		case <-done:
			return
		}
	}
}

// receive processes one inbound byte. Once a byte starts an escape
// sequence the rest of it is read here, so keys are not interleaved
// with a half-received sequence.
func (a *Application) receive(b byte) {
	a.metrics.RecordInbound()
	a.clearIntro()
	if reply := a.autodate.Observe(b); reply != nil {
		a.logger.Info("answering date prompt")
		a.send(reply)
	}
	a.interp.Feed(b)
	for a.interp.InSequence() {
		c, ok := a.line.Read(SequenceTimeout)
		if !ok {
			break
		}
		a.metrics.RecordInbound()
		a.interp.Feed(c)
	}
	a.dirty = true
}

func (a *Application) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.console.Sync()
		a.dirty = true
	case *tcell.EventKey:
		a.dirty = true
		return a.handleKey(ev)
	}
	return nil
}

func (a *Application) handleKey(ev *tcell.EventKey) error {
	if a.page != nil {
		a.page = nil
		return nil
	}
	if a.commandPending {
		a.commandPending = false
		return a.command(ev)
	}
	if isCtrlA(ev) {
		a.commandPending = true
		return nil
	}

	key, ok := display.KeyFor(ev)
	if !ok {
		a.ring()
		return nil
	}
	if !a.limiter.Allow(key) {
		a.metrics.RecordKeyDropped()
		return nil
	}
	a.metrics.RecordKey()
	a.clearIntro()

	if ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2 {
		a.backspace()
		return nil
	}

	res := keyboard.Encode(key, a.keyState())
	switch res.Action {
	case keyboard.ActionSend:
		a.send(res.Bytes)
	case keyboard.ActionToggleShift:
		a.screen.ToggleMode(terminal.ModeKeypadShifted)
	case keyboard.ActionErase:
		a.screen.EraseToEndOfPage()
	case keyboard.ActionToggleOffline:
		off := a.line.ToggleOffline()
		a.notifier.Publish(notify.TopicOffline, off, "app")
	case keyboard.ActionBell:
		a.ring()
	}
	return nil
}

func isCtrlA(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlA {
		return true
	}
	r := ev.Rune()
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && (r == 'a' || r == 'A')
}

func (a *Application) keyState() keyboard.State {
	return keyboard.State{
		ANSI:      a.screen.Has(terminal.ModeANSI),
		Shifted:   a.screen.Has(terminal.ModeKeypadShifted),
		Alternate: a.screen.Has(terminal.ModeKeypadAlternate),
	}
}

// backspace runs the echo probe. At column 0, or offline, the key does
// nothing.
func (a *Application) backspace() {
	if a.screen.Cursor().Col == 0 || a.line.Offline() {
		return
	}
	a.metrics.RecordOutbound(1)
	e := a.line.ProbeBackspace()
	a.logger.Debug("backspace echo: %s", e.Result)
	a.interp.ApplyEcho(e)
}

// send writes p to the host. Write failures are logged by the line and
// otherwise ignored.
func (a *Application) send(p []byte) {
	if err := a.line.Write(p); err != nil {
		return
	}
	if !a.line.Offline() {
		a.metrics.RecordOutbound(len(p))
	}
}

func (a *Application) ring() {
	if a.bell != nil {
		a.bell.Ring()
	}
	a.notifier.Publish(notify.TopicBell, true, "app")
}

// notice shows msg on the status line.
func (a *Application) notice(msg string) {
	a.notifier.Publish(notify.TopicNotice, msg, "app")
}

// fail reports a failed auxiliary operation: log, bell and notice.
func (a *Application) fail(msg string, err error) {
	a.logger.Warn("%s: %v", msg, err)
	a.ring()
	a.notice(msg)
}

func (a *Application) applyColour(i int) {
	if i < 0 || i >= len(a.palette) {
		a.logger.Warn("colour %d outside palette of %d", i, len(a.palette))
		return
	}
	a.console.SetColour(a.palette[i])
	a.dirty = true
}

func (a *Application) reloadSettings() {
	if a.settings == nil {
		return
	}
	if err := a.settings.Reload(); err != nil {
		a.logger.Warn("reload settings: %v", err)
		return
	}
	a.logger.Info("settings reloaded")
}

func (a *Application) redraw() {
	start := time.Now()
	if a.page != nil {
		a.console.DrawPage(a.page, a.status)
	} else {
		a.console.Draw(a.screen, a.status)
	}
	a.metrics.RecordRender(time.Since(start))
	a.lastDraw = time.Now()
	a.dirty = false
}

// showIntro writes the banner shown until the first key or byte.
func (a *Application) showIntro() {
	a.screen.ClearDisplay()
	lines := []string{
		"h19term",
		"Heath H19 terminal emulator " + a.opts.Version,
		"",
		fmt.Sprintf("%s at %d baud", a.line.Name(), a.line.Baud()),
		"",
		"Ctrl-A Z for help",
	}
	for i, text := range lines {
		a.screen.SetCursor(8+i, (terminal.Cols-len(text))/2)
		for j := 0; j < len(text); j++ {
			a.screen.Put(text[j])
		}
	}
	a.screen.Home()
	a.intro = true
}

// clearIntro blanks the intro screen on the first key or inbound byte.
func (a *Application) clearIntro() {
	if !a.intro {
		return
	}
	a.intro = false
	a.screen.ClearDisplay()
}
