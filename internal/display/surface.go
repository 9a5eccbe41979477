package display

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/h19term/internal/terminal"
)

// Layout rows on the host console.
const (
	RuleRow   = terminal.Rows
	StatusRow = terminal.Rows + 1

	// MinRows and MinCols are the smallest usable console.
	MinRows = terminal.Rows + 2
	MinCols = terminal.Cols

	// beepColumn is where the bell flash sits on the status line.
	beepColumn = 75
)

// ErrTooSmall is returned when the console cannot hold the layout.
var ErrTooSmall = errors.New("console too small")

// Surface draws a terminal.Screen and a StatusLine on a tcell screen.
type Surface struct {
	mu     sync.Mutex
	screen tcell.Screen
	fg     tcell.Color
}

// NewSurface creates a surface on the real console.
func NewSurface() (*Surface, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewSurfaceOn(scr), nil
}

// NewSurfaceOn wraps an existing tcell screen, such as a simulation
// screen in tests.
func NewSurfaceOn(scr tcell.Screen) *Surface {
	return &Surface{screen: scr, fg: tcell.ColorWhite}
}

// Init takes over the console and checks its size.
func (s *Surface) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.screen.Init(); err != nil {
		return err
	}
	if w, h := s.screen.Size(); w < MinCols || h < MinRows {
		s.screen.Fini()
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrTooSmall, w, h, MinCols, MinRows)
	}
	s.screen.Clear()
	return nil
}

// Fini restores the console.
func (s *Surface) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Fini()
}

// SetColour sets the text colour.
func (s *Surface) SetColour(c tcell.Color) {
	s.mu.Lock()
	s.fg = c
	s.mu.Unlock()
}

// Colour returns the text colour.
func (s *Surface) Colour() tcell.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fg
}

// PollEvent blocks for the next console event. It returns nil after Fini.
func (s *Surface) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Sync redraws the whole console, used after a resize.
func (s *Surface) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Sync()
}

// Beep rings the console bell.
func (s *Surface) Beep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.screen.Beep() // best-effort; the console may not support it
}

// Draw renders scr and status and moves the console cursor to the
// terminal cursor.
func (s *Surface) Draw(scr *terminal.Screen, status *StatusLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := tcell.StyleDefault.Foreground(s.fg).Background(tcell.ColorBlack)
	for row := 0; row < terminal.Rows; row++ {
		line := scr.Line(row)
		for col, cell := range line {
			st := base
			if cell.Attributes.Has(terminal.AttrReverse) {
				st = st.Reverse(true)
			}
			s.screen.SetContent(col, row, cell.Rune, nil, st)
		}
	}

	s.drawStatus(base, status)
	s.placeCursor(scr)
	s.screen.Show()
}

// DrawPage shows lines in place of the terminal screen, such as the help
// text. The terminal screen is left untouched and reappears on the next
// Draw.
func (s *Surface) DrawPage(lines []string, status *StatusLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := tcell.StyleDefault.Foreground(s.fg).Background(tcell.ColorBlack)
	for row := 0; row < terminal.Rows; row++ {
		text := ""
		if row < len(lines) {
			text = lines[row]
		}
		s.putText(row, text, base)
	}
	s.drawStatus(base, status)
	s.screen.HideCursor()
	s.screen.Show()
}

func (s *Surface) drawStatus(base tcell.Style, status *StatusLine) {
	rule := base.Foreground(dim(s.fg))
	for col := 0; col < terminal.Cols; col++ {
		s.screen.SetContent(col, RuleRow, tcell.RuneHLine, nil, rule)
	}
	text := ""
	beeping := false
	if status != nil {
		text = status.Text()
		beeping = status.Beeping()
	}
	s.putText(StatusRow, text, base)
	if beeping {
		for col := beepColumn; col < min(len(text), terminal.Cols); col++ {
			s.screen.SetContent(col, StatusRow, rune(text[col]), nil, base.Reverse(true))
		}
	}
}

// putText writes text on row, blank-padded to the full width. Bytes
// outside printable ASCII show as spaces.
func (s *Surface) putText(row int, text string, st tcell.Style) {
	for col := 0; col < terminal.Cols; col++ {
		r := ' '
		if col < len(text) && text[col] >= 0x20 && text[col] < 0x7F {
			r = rune(text[col])
		}
		s.screen.SetContent(col, row, r, nil, st)
	}
}

func (s *Surface) placeCursor(scr *terminal.Screen) {
	c := scr.Cursor()
	switch scr.CursorShape() {
	case terminal.CursorHidden:
		s.screen.HideCursor()
		return
	case terminal.CursorBlock:
		s.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	default:
		s.screen.SetCursorStyle(tcell.CursorStyleSteadyUnderline)
	}
	s.screen.ShowCursor(c.Col, c.Row)
}
