package viz

import (
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set turns on the sub-pixel at (x, y). The canvas is Width*2 by Height*4
// sub-pixels; anything outside is ignored.
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// IsSet reports whether the sub-pixel at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDisc fills a circle of radius r sub-pixels.
func (c *Canvas) DrawDisc(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// Plot draws consecutive points as connected segments.
func (c *Canvas) Plot(v Viewport, points []dynamo.Vector2) {
	for i, p := range points {
		x, y := v.Project(c, p)
		if i == 0 {
			c.Set(x, y)
			continue
		}
		px, py := v.Project(c, points[i-1])
		c.DrawLine(px, py, x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto a canvas: Center lands in the middle
// and Span world units fit the shorter side. y grows upwards.
type Viewport struct {
	Center dynamo.Vector2
	Span   float64
}

// FitViewport centers on center and leaves a margin around every point.
func FitViewport(center dynamo.Vector2, points []dynamo.Vector2) Viewport {
	r := 0.0
	for _, p := range points {
		r = math.Max(r, p.Sub(center).Len())
	}
	if r == 0 {
		r = 1
	}
	return Viewport{Center: center, Span: 2.4 * r}
}

func (v Viewport) scale(c *Canvas) float64 {
	side := math.Min(float64(c.Width*2), float64(c.Height*4))
	return side / v.Span
}

// Project returns sub-pixel coordinates for p.
func (v Viewport) Project(c *Canvas, p dynamo.Vector2) (int, int) {
	s := v.scale(c)
	x := float64(c.Width*2)/2 + (p.X-v.Center.X)*s
	y := float64(c.Height*4)/2 - (p.Y-v.Center.Y)*s
	return int(math.Round(x)), int(math.Round(y))
}

// Pixels converts a world length to sub-pixels, never less than 1.
func (v Viewport) Pixels(c *Canvas, length float64) int {
	return max(1, int(math.Round(length*v.scale(c))))
}
