// Package draw renders logical-space shapes to an ANSI terminal using
// half-block characters, which gives two square-ish sub-pixels per cell.
package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Point is a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Canvas is a drawing buffer scaled from logical coordinates to terminal
// sub-pixels. Render only emits cells that changed since the previous frame.
type Canvas struct {
	cols    int // Terminal columns
	rows    int // Terminal rows
	subRows int // rows * 2
	pixels  []bool
	prev    []rune // Cells as last written to the terminal
	dirty   bool   // Next Render rewrites every cell

	logicalW float64
	logicalH float64
	scaleX   float64
	scaleY   float64

	offsetCol int
	offsetRow int

	out     strings.Builder
	numBuf  [20]byte
	scanBuf []float64
}

// NewCanvas creates a canvas of cols x rows terminal cells mapping a
// logicalW x logicalH coordinate space.
func NewCanvas(cols, rows int, logicalW, logicalH float64) *Canvas {
	c := &Canvas{logicalW: logicalW, logicalH: logicalH}
	c.Resize(cols, rows)
	return c
}

// Resize changes the terminal area while keeping the logical size. A size
// change forces a full redraw.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.cols, c.rows, c.subRows = cols, rows, rows*2
		c.pixels = make([]bool, c.subRows*cols)
		c.prev = make([]rune, rows*cols)
		c.dirty = true
	}
	c.scaleX = float64(cols) / c.logicalW
	c.scaleY = float64(c.subRows) / c.logicalH
}

// SetOffset sets the 0-based terminal offset of the canvas origin.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.offsetCol, c.offsetRow = col, row
		c.dirty = true
	}
}

// Offset returns the terminal offset set by SetOffset.
func (c *Canvas) Offset() (col, row int) {
	return c.offsetCol, c.offsetRow
}

// Cols returns the canvas width in terminal columns.
func (c *Canvas) Cols() int {
	return c.cols
}

// Rows returns the canvas height in terminal rows.
func (c *Canvas) Rows() int {
	return c.rows
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.dirty = true
}

// MarkTextDirty makes the next Render rewrite n cells starting at the 1-based
// canvas cell (col, row). Call it after writing text over the canvas so the
// text is erased once it is no longer drawn.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.rows {
		return
	}
	for x := max(col-1, 0); x < min(col-1+n, c.cols); x++ {
		c.prev[r*c.cols+x] = -1
	}
}

// Clear resets all pixels.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Pixel reports whether the sub-pixel at (x, y) is set.
func (c *Canvas) Pixel(x, y int) bool {
	if x < 0 || x >= c.cols || y < 0 || y >= c.subRows {
		return false
	}
	return c.pixels[y*c.cols+x]
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.subRows {
		c.pixels[y*c.cols+x] = true
	}
}

// SetFloat sets the sub-pixel under a logical point.
func (c *Canvas) SetFloat(x, y float64) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)))
}

// FillRect fills a logical rectangle. Anything with a positive size covers at
// least one sub-pixel.
func (c *Canvas) FillRect(x, y, w, h float64) {
	x0, x1 := c.span(x, w, c.scaleX)
	y0, y1 := c.span(y, h, c.scaleY)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.setPixel(px, py)
		}
	}
}

func (c *Canvas) span(start, size, scale float64) (lo, hi int) {
	lo = int(math.Floor(start * scale))
	hi = int(math.Ceil((start+size)*scale)) - 1
	return lo, max(hi, lo)
}

// FillPolygon fills a closed polygon with an even-odd scanline pass in
// sub-pixel space.
func (c *Canvas) FillPolygon(points []Point) {
	if len(points) < 3 {
		return
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minY = min(minY, p.Y*c.scaleY)
		maxY = max(maxY, p.Y*c.scaleY)
	}

	for py := int(math.Floor(minY)); py <= int(math.Ceil(maxY)); py++ {
		scan := float64(py) + 0.5
		xs := c.scanBuf[:0]
		for i := range points {
			a, b := points[i], points[(i+1)%len(points)]
			ay, by := a.Y*c.scaleY, b.Y*c.scaleY
			if (ay <= scan) == (by <= scan) {
				continue
			}
			t := (scan - ay) / (by - ay)
			xs = append(xs, (a.X+t*(b.X-a.X))*c.scaleX)
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for px := int(math.Ceil(xs[i])); px <= int(math.Floor(xs[i+1])); px++ {
				c.setPixel(px, py)
			}
		}
		c.scanBuf = xs
	}
}

// cell returns the half-block character for a terminal cell.
func (c *Canvas) cell(col, row int) rune {
	top := c.pixels[row*2*c.cols+col]
	bottom := c.pixels[(row*2+1)*c.cols+col]
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	default:
		return BlockEmpty
	}
}

// Render writes the cells that changed since the last Render. Runs of
// adjacent changed cells share one cursor move.
func (c *Canvas) Render(w io.Writer) error {
	c.out.Reset()

	for row := 0; row < c.rows; row++ {
		inRun := false
		for col := 0; col < c.cols; col++ {
			i := row*c.cols + col
			ch := c.cell(col, row)
			if !c.dirty && c.prev[i] == ch {
				inRun = false
				continue
			}
			if !inRun {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
				inRun = true
			}
			c.out.WriteRune(ch)
			c.prev[i] = ch
		}
	}
	c.dirty = false

	if c.out.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(w, c.out.String())
	return err
}

func (c *Canvas) moveCursor(col, row int) {
	c.out.WriteString("\033[")
	c.out.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.out.WriteByte(';')
	c.out.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.out.WriteByte('H')
}

// RenderBorder frames the canvas when it is offset inside a larger terminal.
// Horizontal bars need a row offset, vertical bars a column offset.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasSides := c.offsetCol >= 1
	hasBars := c.offsetRow >= 1
	if !hasSides && !hasBars {
		return nil
	}

	left := c.offsetCol
	right := c.offsetCol + c.cols + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.rows + 1
	bar := strings.Repeat("─", c.cols)

	c.out.Reset()
	if hasBars {
		if hasSides {
			c.moveCursor(left, top)
			c.out.WriteString("┌" + bar + "┐")
			c.moveCursor(left, bottom)
			c.out.WriteString("└" + bar + "┘")
		} else {
			c.moveCursor(left+1, top)
			c.out.WriteString(bar)
			c.moveCursor(left+1, bottom)
			c.out.WriteString(bar)
		}
	}
	if hasSides {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.rows; row++ {
			c.moveCursor(left, row)
			c.out.WriteString("│")
			c.moveCursor(right, row)
			c.out.WriteString("│")
		}
	}
	_, err := io.WriteString(w, c.out.String())
	return err
}

// LogicalToTerminal converts a logical point to a 1-based canvas cell
// (col, row), before offset. Use it to place text over drawn shapes.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}
