package viewer

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/theme"
)

const (
	buttonHeight    = 24
	statusHeight    = 24
	minToolbarWidth = 48
)

// toolButton is one toolbar entry. Tool buttons carry the annotation type
// they arm; mode buttons carry only the action name.
type toolButton struct {
	label  string
	action string
	tool   annotation.Type
}

func defaultButtons() []toolButton {
	return []toolButton{
		{label: "V:Pan", action: "pan"},
		{label: "X:Rect", action: "tool-rect", tool: annotation.TypeRect},
		{label: "O:Circle", action: "tool-circle", tool: annotation.TypeCircle},
		{label: "L:Line", action: "tool-line", tool: annotation.TypeLine},
		{label: "A:Arrow", action: "tool-arrow", tool: annotation.TypeArrow},
		{label: "T:Text", action: "tool-text", tool: annotation.TypeText},
		{label: "C:Compare", action: "compare"},
		{label: "I:Invert", action: "invert"},
	}
}

// toolbarWidthFor sizes the toolbar so no button label is clipped.
func toolbarWidthFor(labels []string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := minToolbarWidth
	for _, lbl := range labels {
		w := d.MeasureString(lbl).Ceil() + 8 // padding
		if w > max {
			max = w
		}
	}
	return max
}

// buttonIndexAt maps a toolbar-local y coordinate to a button index, or -1
// when the position is below the last button.
func buttonIndexAt(y, count int) int {
	if y < 0 {
		return -1
	}
	idx := y / buttonHeight
	if idx >= count {
		return -1
	}
	return idx
}

func blend(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
		A: 255,
	}
}

type toolbarState struct {
	buttons   []toolButton
	width     int
	active    annotation.Type
	compareOn bool
	inverted  bool
	hover     int
}

func drawToolbar(dst *image.RGBA, thm *theme.Theme, tb toolbarState, height int) {
	draw.Draw(dst, image.Rect(0, 0, tb.width, height), &image.Uniform{thm.ToolbarBackground}, image.Point{}, draw.Src)
	for i, btn := range tb.buttons {
		rect := image.Rect(0, i*buttonHeight, tb.width, (i+1)*buttonHeight)
		bg := thm.ButtonBackground
		switch {
		case btn.tool != "" && btn.tool == tb.active,
			btn.action == "compare" && tb.compareOn,
			btn.action == "invert" && tb.inverted:
			bg = thm.ButtonActive
		case i == tb.hover:
			bg = blend(thm.ButtonBackground, thm.ButtonActive)
		}
		draw.Draw(dst, rect.Inset(1), &image.Uniform{bg}, image.Point{}, draw.Src)
		drawBorder(dst, rect, thm.ButtonBorder)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(thm.ButtonText), Face: basicfont.Face7x13}
		d.Dot = fixed.P(rect.Min.X+4, rect.Min.Y+16)
		d.DrawString(btn.label)
	}
}

func drawStatusBar(dst *image.RGBA, thm *theme.Theme, width, height int, left, right string) {
	rect := image.Rect(0, height-statusHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{thm.ToolbarBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(thm.Foreground), Face: basicfont.Face7x13}
	if left != "" {
		d.Dot = fixed.P(rect.Min.X+4, rect.Max.Y-8)
		d.DrawString(left)
	}
	if right != "" {
		w := d.MeasureString(right).Ceil()
		d.Dot = fixed.P(rect.Max.X-w-4, rect.Max.Y-8)
		d.DrawString(right)
	}
}

func drawBorder(dst *image.RGBA, rect image.Rectangle, col color.RGBA) {
	for x := rect.Min.X; x < rect.Max.X; x++ {
		dst.SetRGBA(x, rect.Min.Y, col)
		dst.SetRGBA(x, rect.Max.Y-1, col)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		dst.SetRGBA(rect.Min.X, y, col)
		dst.SetRGBA(rect.Max.X-1, y, col)
	}
}
