package terminal

import (
	"strings"

	"github.com/dshills/h19term/internal/notify"
)

// Screen geometry.
const (
	Cols      = 80
	Rows      = 25
	StatusRow = Rows - 1

	lastCol     = Cols - 1
	lastDataRow = StatusRow - 1
	tabWidth    = 8
)

// CellAttributes are per-cell rendering attributes.
type CellAttributes uint8

const (
	AttrNone    CellAttributes = 0
	AttrReverse CellAttributes = 1 << 0
)

// Has returns true if the attribute is set.
func (a CellAttributes) Has(attr CellAttributes) bool {
	return a&attr != 0
}

// Cell is one character cell.
type Cell struct {
	Rune       rune
	Attributes CellAttributes
}

// EmptyCell returns a blank cell.
func EmptyCell() Cell {
	return Cell{Rune: ' '}
}

// Line is one screen row.
type Line [Cols]Cell

// Clear blanks the whole line.
func (l *Line) Clear() {
	l.ClearRange(0, Cols)
}

// ClearRange blanks cells in [start, end).
func (l *Line) ClearRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > Cols {
		end = Cols
	}
	for i := start; i < end; i++ {
		l[i] = EmptyCell()
	}
}

// String returns the line text with trailing blanks removed.
func (l *Line) String() string {
	var b strings.Builder
	for _, c := range l {
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

// Cursor is a screen position.
type Cursor struct {
	Row, Col int
}

// Screen is the terminal screen buffer. It has a single owner, the main
// loop, and is not safe for concurrent use.
type Screen struct {
	lines [Rows]Line

	row, col int

	saved Cursor

	modes Mode
	attrs CellAttributes

	notifier *notify.Notifier
	batch    *notify.Batch
}

// NewScreen creates a blank screen in power-up state. Status changes are
// published to notifier, which may be nil.
func NewScreen(notifier *notify.Notifier) *Screen {
	s := &Screen{notifier: notifier}
	s.reset()
	return s
}

// Reset returns the screen to power-up state: native personality, all
// modes off, blank display, cursor home. Observers see the resulting
// status as one batch.
func (s *Screen) Reset() {
	s.batch = s.notifier.NewBatch()
	s.reset()
	s.batch.Add(notify.TopicReset, true, "terminal")
	s.batch.Commit()
	s.batch = nil
}

func (s *Screen) reset() {
	for _, m := range []Mode{ModeANSI, ModeKeypadShifted, ModeKeypadAlternate, ModeBlockCursor, ModeCursorOff} {
		s.SetMode(m, false)
	}
	s.modes = 0
	s.attrs = AttrNone
	s.saved = Cursor{}
	s.ClearDisplay()
}

// publish sends a status change, through the reset batch when one is open.
func (s *Screen) publish(topic string, value any) {
	if s.batch != nil {
		s.batch.Add(topic, value, "terminal")
		return
	}
	s.notifier.Publish(topic, value, "terminal")
}

// Modes returns the current mode flags.
func (s *Screen) Modes() Mode {
	return s.modes
}

// Has reports whether mode m is set.
func (s *Screen) Has(m Mode) bool {
	return s.modes.Has(m)
}

// Personality returns the active protocol personality.
func (s *Screen) Personality() Personality {
	if s.Has(ModeANSI) {
		return ANSI
	}
	return Native
}

// CursorShape returns how the cursor should be drawn.
func (s *Screen) CursorShape() CursorShape {
	switch {
	case s.Has(ModeCursorOff):
		return CursorHidden
	case s.Has(ModeBlockCursor):
		return CursorBlock
	default:
		return CursorUnderline
	}
}

// SetMode sets or clears mode m and publishes the status lines it affects.
func (s *Screen) SetMode(m Mode, on bool) {
	before := s.modes
	if on {
		s.modes |= m
	} else {
		s.modes &^= m
	}

	if m == ModeReverseVideo {
		if on {
			s.attrs |= AttrReverse
		} else {
			s.attrs &^= AttrReverse
		}
	}

	if before == s.modes {
		return
	}
	switch m {
	case ModeANSI:
		s.publish(notify.TopicPersonality, s.Personality().String())
	case ModeKeypadShifted:
		s.publish(notify.TopicKeypadShifted, on)
	case ModeKeypadAlternate:
		s.publish(notify.TopicKeypadAlternate, on)
	case ModeBlockCursor, ModeCursorOff:
		s.publish(notify.TopicCursor, s.CursorShape().String())
	}
}

// ToggleMode flips mode m and returns its new state.
func (s *Screen) ToggleMode(m Mode) bool {
	on := !s.Has(m)
	s.SetMode(m, on)
	return on
}

// Cursor returns the cursor position.
func (s *Screen) Cursor() Cursor {
	return Cursor{Row: s.row, Col: s.col}
}

// SavedCursor returns the last saved cursor position.
func (s *Screen) SavedCursor() Cursor {
	return s.saved
}

// ScrollOK reports whether writes in the last column may wrap. Only the
// status row lacks scroll permission, however the cursor got there.
func (s *Screen) ScrollOK() bool {
	return s.row != StatusRow
}

// Cell returns the cell at (row, col), or a blank cell when out of range.
func (s *Screen) Cell(row, col int) Cell {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return EmptyCell()
	}
	return s.lines[row][col]
}

// Line returns a copy of row.
func (s *Screen) Line(row int) Line {
	if row < 0 || row >= Rows {
		var l Line
		l.Clear()
		return l
	}
	return s.lines[row]
}

// Text returns the text of row with trailing blanks removed.
func (s *Screen) Text(row int) string {
	l := s.Line(row)
	return l.String()
}

// bottom is the lowest row vertical moves may reach from the current row.
func (s *Screen) bottom() int {
	if s.row == StatusRow {
		return StatusRow
	}
	return lastDataRow
}

// Cursor movement

// Home moves the cursor to (0, 0).
func (s *Screen) Home() {
	s.row, s.col = 0, 0
}

// CursorUp moves up n rows, stopping at row 0. n < 1 moves one row.
func (s *Screen) CursorUp(n int) {
	s.row = max(s.row-atLeastOne(n), 0)
}

// CursorDown moves down n rows, stopping at the last data row. The cursor
// never moves onto the status row this way.
func (s *Screen) CursorDown(n int) {
	s.row = min(s.row+atLeastOne(n), s.bottom())
}

// CursorForward moves right n columns, stopping at column 79.
func (s *Screen) CursorForward(n int) {
	s.col = min(s.col+atLeastOne(n), lastCol)
}

// CursorBackward moves left n columns, stopping at column 0.
func (s *Screen) CursorBackward(n int) {
	s.col = max(s.col-atLeastOne(n), 0)
}

// SetCursor moves to an absolute position. Row 24 is the status row,
// which has no scroll permission; rows past 24 and columns past 79 clamp.
func (s *Screen) SetCursor(row, col int) {
	row = clamp(row, 0, StatusRow)
	col = clamp(col, 0, lastCol)
	s.row, s.col = row, col
}

// SaveCursor records the cursor position.
func (s *Screen) SaveCursor() {
	s.saved = s.Cursor()
}

// RestoreCursor returns to the saved position, (0, 0) if none was saved.
func (s *Screen) RestoreCursor() {
	s.row, s.col = s.saved.Row, s.saved.Col
}

// LineFeed moves down one row. At row 23 the data area scrolls up; on
// the status row nothing happens. With auto carriage return the cursor
// also returns to column 0.
func (s *Screen) LineFeed() {
	if s.row == StatusRow {
		return
	}
	if s.row >= lastDataRow {
		s.scrollUp(0)
		s.row = lastDataRow
	} else {
		s.row++
	}
	if s.Has(ModeAutoCarriageReturn) {
		s.col = 0
	}
}

// ReverseLineFeed moves up one row, inserting a blank row 0 when already
// at the top.
func (s *Screen) ReverseLineFeed() {
	if s.row == 0 {
		s.scrollDown(0)
		return
	}
	s.row--
}

// CarriageReturn moves to column 0, followed by a line feed when auto
// line feed is on. On the status row it only moves to column 0.
func (s *Screen) CarriageReturn() {
	s.col = 0
	if s.row == StatusRow {
		return
	}
	if s.Has(ModeAutoLinefeed) {
		s.LineFeed()
	}
}

// Tab advances to the next multiple of eight, stopping at column 79.
func (s *Screen) Tab() {
	s.col = min((s.col/tabWidth+1)*tabWidth, lastCol)
}

// Writing

// Put writes a printable byte at the cursor. Graphics mode remaps bytes
// 94-126 through the glyph table; insert mode shifts the rest of the line
// right. In column 79 the byte lands in place and the cursor either stays
// (wrap off) or moves to the start of the next row (wrap on).
func (s *Screen) Put(b byte) {
	r := rune(b)
	if s.Has(ModeGraphics) {
		r = Glyph(b)
	}
	cell := Cell{Rune: r, Attributes: s.attrs}
	line := &s.lines[s.row]

	if s.col == lastCol {
		line[lastCol] = cell
		if s.Has(ModeWrapAtEndOfLine) && s.ScrollOK() {
			s.col = 0
			s.advanceRow()
		}
		return
	}

	if s.Has(ModeInsert) {
		copy(line[s.col+1:], line[s.col:lastCol])
	}
	line[s.col] = cell
	s.col++
}

// advanceRow is a line feed without the auto carriage return coupling.
func (s *Screen) advanceRow() {
	if s.row >= lastDataRow {
		s.scrollUp(0)
		s.row = lastDataRow
		return
	}
	s.row++
}

// Erasing and editing

// ClearDisplay blanks every row, including the status row, and homes the
// cursor. Clearing twice leaves the same state as clearing once.
func (s *Screen) ClearDisplay() {
	for i := range s.lines {
		s.lines[i].Clear()
	}
	s.Home()
}

// EraseToBeginningOfDisplay blanks the current row up to and including
// the cursor column and every row above it, then homes the cursor.
func (s *Screen) EraseToBeginningOfDisplay() {
	s.lines[s.row].ClearRange(0, s.col+1)
	for i := 0; i < s.row; i++ {
		s.lines[i].Clear()
	}
	s.Home()
}

// EraseToEndOfPage blanks from the cursor to the end of its row and every
// data row below. The cursor does not move and the status row is only
// touched when the cursor is on it.
func (s *Screen) EraseToEndOfPage() {
	s.lines[s.row].ClearRange(s.col, Cols)
	for i := s.row + 1; i <= lastDataRow; i++ {
		s.lines[i].Clear()
	}
}

// EraseLine blanks the current row and moves to column 0.
func (s *Screen) EraseLine() {
	s.lines[s.row].Clear()
	s.col = 0
}

// EraseToBeginningOfLine blanks the columns left of the cursor. The
// cursor does not move.
func (s *Screen) EraseToBeginningOfLine() {
	s.lines[s.row].ClearRange(0, s.col)
}

// EraseToEndOfLine blanks from the cursor to the end of the row, then
// steps the cursor one column left unless it is in column 0.
func (s *Screen) EraseToEndOfLine() {
	s.lines[s.row].ClearRange(s.col, Cols)
	if s.col > 0 {
		s.col--
	}
}

// InsertLine inserts a blank row at the cursor, pushing the rows below it
// down and dropping row 23. The cursor moves to column 0.
func (s *Screen) InsertLine() {
	s.scrollDown(s.row)
	s.col = 0
}

// DeleteLine removes the cursor row, pulling the rows below it up and
// blanking row 23. The cursor moves to column 0.
func (s *Screen) DeleteLine() {
	s.scrollUp(s.row)
	s.col = 0
}

// DeleteChar removes the character under the cursor, shifting the rest of
// the row left.
func (s *Screen) DeleteChar() {
	s.deleteAt(s.row, s.col)
}

// Backspace erases the character left of the cursor and moves onto it.
// It does nothing in column 0.
func (s *Screen) Backspace() {
	if s.col == 0 {
		return
	}
	s.col--
	s.deleteAt(s.row, s.col)
}

func (s *Screen) deleteAt(row, col int) {
	line := &s.lines[row]
	copy(line[col:], line[col+1:])
	line[lastCol] = EmptyCell()
}

// scrollUp moves rows top+1..23 up one and blanks row 23. On the status
// row it only blanks that row.
func (s *Screen) scrollUp(top int) {
	if top == StatusRow {
		s.lines[StatusRow].Clear()
		return
	}
	copy(s.lines[top:lastDataRow], s.lines[top+1:lastDataRow+1])
	s.lines[lastDataRow].Clear()
}

// scrollDown moves rows top..22 down one and blanks row top. On the
// status row it only blanks that row.
func (s *Screen) scrollDown(top int) {
	if top == StatusRow {
		s.lines[StatusRow].Clear()
		return
	}
	copy(s.lines[top+1:lastDataRow+1], s.lines[top:lastDataRow])
	s.lines[top].Clear()
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
