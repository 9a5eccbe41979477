package terminal

// Graphics character range. With graphics mode on, printable bytes in
// this range render through the glyph table.
const (
	GraphicsFirst = 94
	GraphicsLast  = 126
)

var graphicsGlyphs = [GraphicsLast - GraphicsFirst + 1]rune{
	'⚫', // 94  black circle
	'◥', // 95  upper right triangle
	'│', // 96  vertical line
	'─', // 97  horizontal line
	'┼', // 98  cross
	'┐', // 99  upper right corner
	'┘', // 100 lower right corner
	'└', // 101 lower left corner
	'┌', // 102 upper left corner
	'±', // 103 plus minus
	'→', // 104 right arrow
	'▒', // 105 medium shade
	'▚', // 106 quadrant upper left and lower right
	'↓', // 107 down arrow
	'▗', // 108 quadrant lower right
	'▖', // 109 quadrant lower left
	'▘', // 110 quadrant upper left
	'▝', // 111 quadrant upper right
	'▀', // 112 upper half block
	'▐', // 113 right half block
	'◤', // 114 upper left triangle
	'┬', // 115 down and horizontal
	'┤', // 116 vertical and left
	'┴', // 117 up and horizontal
	'├', // 118 vertical and right
	'╳', // 119 diagonal cross
	'╱', // 120 diagonal upper right to lower left
	'╲', // 121 diagonal upper left to lower right
	'▔', // 122 upper one eighth block
	'▁', // 123 lower one eighth block
	'▏', // 124 left one eighth block
	'▕', // 125 right one eighth block
	'¶', // 126 pilcrow
}

// Glyph returns the line-drawing rune for b, or b itself when b is
// outside the graphics range.
func Glyph(b byte) rune {
	if b < GraphicsFirst || b > GraphicsLast {
		return rune(b)
	}
	return graphicsGlyphs[b-GraphicsFirst]
}
