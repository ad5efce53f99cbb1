package draw

import (
	"fmt"
	"io"
	"math"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// Fit computes the largest canvas that shows a logicalWidth x logicalHeight
// area without distortion inside a terminal of the given size, reserving
// reservedRows rows for text. Half-block sub-pixels are assumed square. The
// offsets center the canvas in the terminal.
func Fit(termWidth, termHeight, reservedRows int, logicalWidth, logicalHeight float64) (width, height, offsetCol, offsetRow int) {
	available := termHeight - reservedRows
	if termWidth <= 0 || available <= 0 {
		return 0, 0, 0, 0
	}

	ratio := logicalHeight / logicalWidth
	height = available
	width = int(math.Round(float64(2*height) / ratio))
	if width > termWidth {
		width = termWidth
		height = int(math.Round(float64(width) * ratio / 2))
	}
	width = max(width, 1)
	height = max(height, 1)

	offsetCol = (termWidth - width) / 2
	offsetRow = (available - height) / 2
	return width, height, offsetCol, offsetRow
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
