package render

import (
	"image"
	"image/color"
	"math"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

// strokeLine draws a thick Bresenham line.
func strokeLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
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
		setThickPixel(img, x0, y0, thick, col)
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

// strokeDashedLine walks the segment in on/off runs of dash pixels at any
// angle. A dash of 1 with a wide gap reads as dotted.
func strokeDashedLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick, dash, gap int) {
	if dash <= 0 {
		strokeLine(img, x0, y0, x1, y1, col, thick)
		return
	}
	length := math.Hypot(float64(x1-x0), float64(y1-y0))
	if length == 0 {
		setThickPixel(img, x0, y0, thick, col)
		return
	}
	ux := float64(x1-x0) / length
	uy := float64(y1-y0) / length
	for start := 0.0; start <= length; start += float64(dash + gap) {
		end := start + float64(dash)
		if end > length {
			end = length
		}
		sx := x0 + int(math.Round(ux*start))
		sy := y0 + int(math.Round(uy*start))
		ex := x0 + int(math.Round(ux*end))
		ey := y0 + int(math.Round(uy*end))
		strokeLine(img, sx, sy, ex, ey, col, thick)
	}
}

// strokeRect draws the four edges of a rectangle outline.
func strokeRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int, stroke lineStroke) {
	stroke(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	stroke(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	stroke(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	stroke(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// lineStroke is a line drawing function; solid and patterned strokes share
// the rect/ellipse walkers through this signature.
type lineStroke func(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int)

func solidStroke(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	strokeLine(img, x0, y0, x1, y1, col, thick)
}

func dashedStroke(dash, gap int) lineStroke {
	return func(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
		strokeDashedLine(img, x0, y0, x1, y1, col, thick, dash, gap)
	}
}

// strokeCircle approximates the circle with short line segments so any
// stroke pattern can be reused.
func strokeCircle(img *image.RGBA, cx, cy, r int, col color.Color, thick int, stroke lineStroke) {
	if r <= 0 {
		setThickPixel(img, cx, cy, thick, col)
		return
	}
	steps := int(math.Ceil(2 * math.Pi * float64(r)))
	if steps < 8 {
		steps = 8
	}
	var prevX, prevY int
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Cos(angle)*float64(r))
		y := cy + int(math.Sin(angle)*float64(r))
		if i > 0 {
			stroke(img, prevX, prevY, x, y, col, thick)
		}
		prevX, prevY = x, y
	}
}

// fillCircle paints a filled disc.
func fillCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px := cx + dx
				py := cy + dy
				if image.Pt(px, py).In(img.Bounds()) {
					img.Set(px, py, col)
				}
			}
		}
	}
}

// fillRect paints a filled rectangle clipped to the image bounds.
func fillRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Set(x, y, col)
		}
	}
}

// strokeArrow draws a line with two head wings at the (x1, y1) end.
func strokeArrow(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int, stroke lineStroke) {
	stroke(img, x0, y0, x1, y1, col, thick)
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	size := float64(6 + thick*2)
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	x2 := x1 - int(math.Cos(a1)*size)
	y2 := y1 - int(math.Sin(a1)*size)
	x3 := x1 - int(math.Cos(a2)*size)
	y3 := y1 - int(math.Sin(a2)*size)
	// The head stays solid even on dashed strokes so the direction reads.
	strokeLine(img, x1, y1, x2, y2, col, thick)
	strokeLine(img, x1, y1, x3, y3, col, thick)
}
