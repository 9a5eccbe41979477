package terminal

import (
	"strings"
	"testing"

	"github.com/dshills/h19term/internal/notify"
)

func writeString(s *Screen, text string) {
	for i := 0; i < len(text); i++ {
		s.Put(text[i])
	}
}

func fill(s *Screen) {
	for row := 0; row < Rows; row++ {
		s.SetCursor(row, 0)
		writeString(s, strings.Repeat(string(rune('a'+row)), 10))
	}
}

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(nil)

	for row := 0; row < Rows; row++ {
		if s.Text(row) != "" {
			t.Fatalf("row %d not blank: %q", row, s.Text(row))
		}
	}
	if s.Cursor() != (Cursor{}) {
		t.Errorf("cursor = %+v, want home", s.Cursor())
	}
	if s.Modes() != 0 {
		t.Errorf("modes = %v, want none", s.Modes())
	}
	if s.Personality() != Native {
		t.Error("default personality is not native")
	}
}

func TestCursorMovesClamp(t *testing.T) {
	tests := []struct {
		name  string
		start Cursor
		move  func(s *Screen)
		want  Cursor
	}{
		{"up", Cursor{5, 5}, func(s *Screen) { s.CursorUp(2) }, Cursor{3, 5}},
		{"up past top", Cursor{1, 5}, func(s *Screen) { s.CursorUp(10) }, Cursor{0, 5}},
		{"up zero is one", Cursor{5, 5}, func(s *Screen) { s.CursorUp(0) }, Cursor{4, 5}},
		{"down", Cursor{5, 5}, func(s *Screen) { s.CursorDown(3) }, Cursor{8, 5}},
		{"down past data area", Cursor{20, 5}, func(s *Screen) { s.CursorDown(10) }, Cursor{23, 5}},
		{"down on status row", Cursor{24, 5}, func(s *Screen) { s.CursorDown(1) }, Cursor{24, 5}},
		{"forward", Cursor{5, 5}, func(s *Screen) { s.CursorForward(4) }, Cursor{5, 9}},
		{"forward past edge", Cursor{5, 75}, func(s *Screen) { s.CursorForward(10) }, Cursor{5, 79}},
		{"backward", Cursor{5, 5}, func(s *Screen) { s.CursorBackward(2) }, Cursor{5, 3}},
		{"backward past edge", Cursor{5, 3}, func(s *Screen) { s.CursorBackward(10) }, Cursor{5, 0}},
		{"home", Cursor{9, 9}, func(s *Screen) { s.Home() }, Cursor{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(nil)
			s.SetCursor(tt.start.Row, tt.start.Col)
			tt.move(s)
			if got := s.Cursor(); got != tt.want {
				t.Errorf("cursor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	s := NewScreen(nil)
	moves := []func(){
		func() { s.CursorUp(100) },
		func() { s.CursorDown(100) },
		func() { s.CursorForward(100) },
		func() { s.CursorBackward(100) },
		func() { s.SetCursor(99, 99) },
		func() { s.SetCursor(-5, -5) },
		func() { s.LineFeed() },
		func() { s.ReverseLineFeed() },
		func() { s.Tab() },
	}

	for i := 0; i < 200; i++ {
		moves[i%len(moves)]()
		c := s.Cursor()
		if c.Row < 0 || c.Row > StatusRow || c.Col < 0 || c.Col > 79 {
			t.Fatalf("step %d: cursor out of bounds: %+v", i, c)
		}
	}
}

func TestSetCursor(t *testing.T) {
	s := NewScreen(nil)

	s.SetCursor(5, 10)
	if s.Cursor() != (Cursor{5, 10}) || !s.ScrollOK() {
		t.Errorf("cursor = %+v scrollOK = %v", s.Cursor(), s.ScrollOK())
	}

	s.SetCursor(24, 3)
	if s.Cursor() != (Cursor{24, 3}) {
		t.Errorf("cursor = %+v, want status row", s.Cursor())
	}
	if s.ScrollOK() {
		t.Error("status row should drop scroll permission")
	}

	s.SetCursor(30, 100)
	if s.Cursor() != (Cursor{24, 79}) {
		t.Errorf("cursor = %+v, want clamped to (24,79)", s.Cursor())
	}

	s.SetCursor(2, 2)
	if !s.ScrollOK() {
		t.Error("data row should restore scroll permission")
	}
}

func TestWrapAfterLeavingStatusRow(t *testing.T) {
	tests := []struct {
		name  string
		leave func(s *Screen)
		want  Cursor
	}{
		{"cursor up", func(s *Screen) { s.CursorUp(3); s.CursorForward(Cols) }, Cursor{22, 0}},
		{"reverse line feed", func(s *Screen) { s.ReverseLineFeed(); s.ReverseLineFeed(); s.CursorForward(Cols) }, Cursor{23, 0}},
		{"restore cursor", func(s *Screen) { s.RestoreCursor() }, Cursor{4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(nil)
			s.SetMode(ModeWrapAtEndOfLine, true)
			s.SetCursor(3, 79)
			s.SaveCursor()
			s.SetCursor(24, 0)
			tt.leave(s)
			if !s.ScrollOK() {
				t.Fatalf("no scroll permission at %+v", s.Cursor())
			}
			s.Put('Q')
			if s.Cursor() != tt.want {
				t.Errorf("cursor = %+v, want %+v", s.Cursor(), tt.want)
			}
		})
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	s := NewScreen(nil)

	s.RestoreCursor()
	if s.Cursor() != (Cursor{}) {
		t.Error("restore without save should go home")
	}

	s.SetCursor(3, 4)
	s.SaveCursor()
	s.SetCursor(7, 8)
	s.SaveCursor()
	s.Home()
	s.RestoreCursor()
	if s.Cursor() != (Cursor{7, 8}) {
		t.Errorf("cursor = %+v, want last saved (7,8)", s.Cursor())
	}
}

func TestLineFeed(t *testing.T) {
	s := NewScreen(nil)
	fill(s)

	s.SetCursor(10, 5)
	s.LineFeed()
	if s.Cursor() != (Cursor{11, 5}) {
		t.Errorf("cursor = %+v, want (11,5)", s.Cursor())
	}

	s.SetCursor(23, 5)
	s.LineFeed()
	if s.Cursor() != (Cursor{23, 5}) {
		t.Errorf("cursor = %+v, want (23,5)", s.Cursor())
	}
	if s.Text(0) != strings.Repeat("b", 10) {
		t.Errorf("row 0 = %q, data area did not scroll", s.Text(0))
	}
	if s.Text(23) != "" {
		t.Errorf("row 23 = %q, want blank", s.Text(23))
	}
	if s.Text(StatusRow) != strings.Repeat("y", 10) {
		t.Errorf("status row = %q, must not scroll", s.Text(StatusRow))
	}

	s.SetCursor(24, 5)
	s.LineFeed()
	if s.Cursor() != (Cursor{24, 5}) {
		t.Errorf("line feed on status row moved cursor to %+v", s.Cursor())
	}
}

func TestLineFeedAutoCarriageReturn(t *testing.T) {
	s := NewScreen(nil)
	s.SetMode(ModeAutoCarriageReturn, true)

	s.SetCursor(3, 40)
	s.LineFeed()
	if s.Cursor() != (Cursor{4, 0}) {
		t.Errorf("cursor = %+v, want (4,0)", s.Cursor())
	}
}

func TestCarriageReturn(t *testing.T) {
	s := NewScreen(nil)

	s.SetCursor(3, 40)
	s.CarriageReturn()
	if s.Cursor() != (Cursor{3, 0}) {
		t.Errorf("cursor = %+v, want (3,0)", s.Cursor())
	}

	s.SetMode(ModeAutoLinefeed, true)
	s.SetCursor(3, 40)
	s.CarriageReturn()
	if s.Cursor() != (Cursor{4, 0}) {
		t.Errorf("auto LF: cursor = %+v, want (4,0)", s.Cursor())
	}

	s.SetCursor(24, 40)
	s.CarriageReturn()
	if s.Cursor() != (Cursor{24, 0}) {
		t.Errorf("status row: cursor = %+v, want (24,0)", s.Cursor())
	}
}

func TestReverseLineFeed(t *testing.T) {
	s := NewScreen(nil)
	fill(s)

	s.SetCursor(5, 2)
	s.ReverseLineFeed()
	if s.Cursor() != (Cursor{4, 2}) {
		t.Errorf("cursor = %+v, want (4,2)", s.Cursor())
	}

	s.SetCursor(0, 2)
	s.ReverseLineFeed()
	if s.Cursor() != (Cursor{0, 2}) {
		t.Errorf("cursor = %+v, want (0,2)", s.Cursor())
	}
	if s.Text(0) != "" || s.Text(1) != strings.Repeat("a", 10) {
		t.Errorf("rows 0,1 = %q,%q; expected inserted blank row", s.Text(0), s.Text(1))
	}
	if s.Text(23) != strings.Repeat("w", 10) {
		t.Errorf("row 23 = %q, want old row 22", s.Text(23))
	}
	if s.Text(StatusRow) != strings.Repeat("y", 10) {
		t.Error("status row changed")
	}
}

func TestTab(t *testing.T) {
	s := NewScreen(nil)

	s.Tab()
	if s.Cursor().Col != 8 {
		t.Errorf("col = %d, want 8", s.Cursor().Col)
	}
	s.SetCursor(0, 13)
	s.Tab()
	if s.Cursor().Col != 16 {
		t.Errorf("col = %d, want 16", s.Cursor().Col)
	}
	s.SetCursor(0, 75)
	s.Tab()
	if s.Cursor().Col != 79 {
		t.Errorf("col = %d, want 79", s.Cursor().Col)
	}
}

func TestPutDiscardAtEndOfLine(t *testing.T) {
	s := NewScreen(nil)

	s.SetCursor(4, 77)
	writeString(s, "XY")
	if s.Cursor() != (Cursor{4, 79}) {
		t.Fatalf("cursor = %+v, want (4,79)", s.Cursor())
	}

	s.Put('Z')
	if s.Cursor() != (Cursor{4, 79}) {
		t.Errorf("cursor = %+v, want to stay at (4,79)", s.Cursor())
	}
	if s.Cell(4, 78).Rune != 'Y' {
		t.Errorf("col 78 = %q, want Y preserved", s.Cell(4, 78).Rune)
	}
	if s.Cell(4, 79).Rune != 'Z' {
		t.Errorf("col 79 = %q, want Z", s.Cell(4, 79).Rune)
	}

	s.Put('W')
	if s.Cell(4, 79).Rune != 'W' || s.Cell(4, 78).Rune != 'Y' {
		t.Error("repeated writes at col 79 should replace only col 79")
	}
}

func TestPutWrapAtEndOfLine(t *testing.T) {
	s := NewScreen(nil)
	s.SetMode(ModeWrapAtEndOfLine, true)

	s.SetCursor(4, 79)
	s.Put('Z')
	if s.Cursor() != (Cursor{5, 0}) {
		t.Errorf("cursor = %+v, want (5,0)", s.Cursor())
	}
	if s.Cell(4, 79).Rune != 'Z' {
		t.Error("wrapped character not written at col 79")
	}

	s.SetCursor(23, 79)
	s.Put('Q')
	if s.Cursor() != (Cursor{23, 0}) {
		t.Errorf("cursor = %+v, want (23,0) after scroll", s.Cursor())
	}
	if s.Cell(22, 79).Rune != 'Q' {
		t.Error("data area did not scroll on wrap from row 23")
	}

	s.SetCursor(24, 79)
	s.Put('S')
	if s.Cursor() != (Cursor{24, 79}) {
		t.Errorf("status row wrapped to %+v", s.Cursor())
	}
}

func TestPutInsertMode(t *testing.T) {
	s := NewScreen(nil)
	writeString(s, "ABCD")
	s.SetMode(ModeInsert, true)
	s.SetCursor(0, 1)
	s.Put('x')

	if s.Text(0) != "AxBCD" {
		t.Errorf("row = %q, want AxBCD", s.Text(0))
	}
	if s.Cursor() != (Cursor{0, 2}) {
		t.Errorf("cursor = %+v, want (0,2)", s.Cursor())
	}
}

func TestPutGraphics(t *testing.T) {
	s := NewScreen(nil)
	s.SetMode(ModeGraphics, true)

	writeString(s, "`a]A")
	want := []rune{Glyph(96), Glyph(97), ']', 'A'}
	for i, r := range want {
		if got := s.Cell(0, i).Rune; got != r {
			t.Errorf("col %d = %q, want %q", i, got, r)
		}
	}
	if s.Cell(0, 0).Rune != graphicsGlyphs[96-GraphicsFirst] || s.Cell(0, 0).Rune == '`' {
		t.Error("byte 96 should render glyph table entry 2")
	}
}

func TestGlyphTable(t *testing.T) {
	if len(graphicsGlyphs) != 33 {
		t.Fatalf("glyph table has %d entries, want 33", len(graphicsGlyphs))
	}
	if Glyph(94) != '⚫' || Glyph(96) != '│' || Glyph(126) != '¶' {
		t.Error("glyph table endpoints wrong")
	}
	if Glyph('A') != 'A' || Glyph(127) != 127 {
		t.Error("bytes outside the range must pass through")
	}
}

func TestPutReverseVideo(t *testing.T) {
	s := NewScreen(nil)
	s.SetMode(ModeReverseVideo, true)
	s.Put('R')
	s.SetMode(ModeReverseVideo, false)
	s.Put('N')

	if !s.Cell(0, 0).Attributes.Has(AttrReverse) {
		t.Error("expected reverse attribute on first cell")
	}
	if s.Cell(0, 1).Attributes.Has(AttrReverse) {
		t.Error("unexpected reverse attribute on second cell")
	}
}

func TestClearDisplayIdempotent(t *testing.T) {
	once := NewScreen(nil)
	twice := NewScreen(nil)
	fill(once)
	fill(twice)

	once.ClearDisplay()
	twice.ClearDisplay()
	twice.ClearDisplay()

	if once.lines != twice.lines || once.Cursor() != twice.Cursor() {
		t.Error("clearing twice differs from clearing once")
	}
	for row := 0; row < Rows; row++ {
		if once.Text(row) != "" {
			t.Errorf("row %d not blank", row)
		}
	}
	if once.Cursor() != (Cursor{}) {
		t.Errorf("cursor = %+v, want home", once.Cursor())
	}
}

func TestEraseVariants(t *testing.T) {
	line := strings.Repeat("x", 20)

	tests := []struct {
		name       string
		erase      func(s *Screen)
		wantCursor Cursor
		wantRows   map[int]string
	}{
		{
			name:       "to beginning of display",
			erase:      (*Screen).EraseToBeginningOfDisplay,
			wantCursor: Cursor{0, 0},
			wantRows:   map[int]string{4: "", 5: "      " + line[6:], 6: line, 24: line},
		},
		{
			name:       "to end of page",
			erase:      (*Screen).EraseToEndOfPage,
			wantCursor: Cursor{5, 5},
			wantRows:   map[int]string{4: line, 5: line[:5], 6: "", 23: "", 24: line},
		},
		{
			name:       "line",
			erase:      (*Screen).EraseLine,
			wantCursor: Cursor{5, 0},
			wantRows:   map[int]string{4: line, 5: "", 6: line},
		},
		{
			name:       "to beginning of line",
			erase:      (*Screen).EraseToBeginningOfLine,
			wantCursor: Cursor{5, 5},
			wantRows:   map[int]string{5: "     " + line[5:]},
		},
		{
			name:       "to end of line",
			erase:      (*Screen).EraseToEndOfLine,
			wantCursor: Cursor{5, 4},
			wantRows:   map[int]string{5: line[:5], 6: line},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(nil)
			for row := 0; row < Rows; row++ {
				s.SetCursor(row, 0)
				writeString(s, line)
			}
			s.SetCursor(5, 5)

			tt.erase(s)

			if s.Cursor() != tt.wantCursor {
				t.Errorf("cursor = %+v, want %+v", s.Cursor(), tt.wantCursor)
			}
			for row, want := range tt.wantRows {
				if got := s.Text(row); got != want {
					t.Errorf("row %d = %q, want %q", row, got, want)
				}
			}
		})
	}
}

func TestEraseToEndOfLineAtColumnZero(t *testing.T) {
	s := NewScreen(nil)
	writeString(s, "abc")
	s.SetCursor(0, 0)
	s.EraseToEndOfLine()

	if s.Text(0) != "" || s.Cursor() != (Cursor{0, 0}) {
		t.Errorf("row = %q cursor = %+v", s.Text(0), s.Cursor())
	}
}

func TestEraseToEndOfPageOnStatusRow(t *testing.T) {
	s := NewScreen(nil)
	fill(s)
	s.SetCursor(24, 4)
	s.EraseToEndOfPage()

	if s.Text(24) != "yyyy" {
		t.Errorf("status row = %q, want yyyy", s.Text(24))
	}
	if s.Text(23) != strings.Repeat("x", 10) {
		t.Error("data rows changed when erasing from the status row")
	}
}

func TestInsertDeleteLine(t *testing.T) {
	s := NewScreen(nil)
	fill(s)

	s.SetCursor(3, 4)
	s.InsertLine()
	if s.Cursor() != (Cursor{3, 0}) {
		t.Errorf("cursor = %+v, want (3,0)", s.Cursor())
	}
	if s.Text(3) != "" || s.Text(4) != strings.Repeat("d", 10) {
		t.Errorf("rows 3,4 = %q,%q", s.Text(3), s.Text(4))
	}
	if s.Text(23) != strings.Repeat("w", 10) {
		t.Errorf("row 23 = %q, want old row 22", s.Text(23))
	}
	if s.Text(24) != strings.Repeat("y", 10) {
		t.Error("insert line touched the status row")
	}

	s.SetCursor(3, 4)
	s.DeleteLine()
	if s.Text(3) != strings.Repeat("d", 10) {
		t.Errorf("row 3 = %q after delete", s.Text(3))
	}
	if s.Text(23) != "" {
		t.Errorf("row 23 = %q, want blank", s.Text(23))
	}
	if s.Text(24) != strings.Repeat("y", 10) {
		t.Error("delete line touched the status row")
	}
}

func TestDeleteCharAndBackspace(t *testing.T) {
	s := NewScreen(nil)
	writeString(s, "ABCDE")

	s.SetCursor(0, 1)
	s.DeleteChar()
	if s.Text(0) != "ACDE" || s.Cursor() != (Cursor{0, 1}) {
		t.Errorf("row = %q cursor = %+v", s.Text(0), s.Cursor())
	}

	s.SetCursor(0, 3)
	s.Backspace()
	if s.Text(0) != "ACE" || s.Cursor() != (Cursor{0, 2}) {
		t.Errorf("row = %q cursor = %+v", s.Text(0), s.Cursor())
	}

	s.SetCursor(0, 0)
	s.Backspace()
	if s.Text(0) != "ACE" || s.Cursor() != (Cursor{0, 0}) {
		t.Error("backspace at column 0 should do nothing")
	}
}

func TestModePublishesStatus(t *testing.T) {
	n := notify.New()
	var got []notify.Change
	n.Subscribe(func(c notify.Change) { got = append(got, c) })

	s := NewScreen(n)
	s.SetMode(ModeKeypadShifted, true)
	s.SetMode(ModeKeypadShifted, true)
	s.SetMode(ModeANSI, true)
	s.SetMode(ModeInsert, true)
	s.SetMode(ModeBlockCursor, true)

	want := []struct {
		topic string
		value any
	}{
		{notify.TopicKeypadShifted, true},
		{notify.TopicPersonality, "ANSI"},
		{notify.TopicCursor, "block"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d changes, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Topic != w.topic || got[i].Value != w.value {
			t.Errorf("change %d = %+v, want %s=%v", i, got[i], w.topic, w.value)
		}
	}
}

func TestResetRestoresPowerUpState(t *testing.T) {
	n := notify.New()
	s := NewScreen(n)
	fill(s)
	s.SetMode(ModeANSI, true)
	s.SetMode(ModeKeypadAlternate, true)
	s.SetMode(ModeWrapAtEndOfLine, true)
	s.SetMode(ModeReverseVideo, true)
	s.SetCursor(6, 6)
	s.SaveCursor()

	var topics []string
	n.Subscribe(func(c notify.Change) { topics = append(topics, c.Topic) })

	s.Reset()

	if s.Modes() != 0 {
		t.Errorf("modes = %v after reset", s.Modes())
	}
	if s.Cursor() != (Cursor{}) || s.SavedCursor() != (Cursor{}) {
		t.Error("cursor state not reset")
	}
	for row := 0; row < Rows; row++ {
		if s.Text(row) != "" {
			t.Fatalf("row %d not cleared", row)
		}
	}
	s.Put('a')
	if s.Cell(0, 0).Attributes.Has(AttrReverse) {
		t.Error("reverse video survived reset")
	}

	want := []string{notify.TopicPersonality, notify.TopicKeypadAlternate, notify.TopicReset}
	if strings.Join(topics, ",") != strings.Join(want, ",") {
		t.Errorf("reset published %v, want %v", topics, want)
	}
}
