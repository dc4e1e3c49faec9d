package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/geom"
	"github.com/example/slateview/internal/render"
	"github.com/example/slateview/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before one is allowed to finish.
const frameDropThreshold = 10

// frameState is the immutable snapshot a frame is drawn from. The UI task
// keeps mutating its own state while the paint goroutine works, so nothing
// in here may be shared mutable data.
type frameState struct {
	width, height int
	toolbar       toolbarState
	thm           *theme.Theme
	background    color.RGBA
	view          geom.ViewState
	minZoom       float64
	maxZoom       float64

	img     image.Image
	loadErr string

	anns     []*annotation.Annotation
	preview  *annotation.Annotation
	selected *annotation.Annotation

	compareOn   bool
	compareBase image.Image     // nil compares annotated against clean
	sliderX     int             // canvas x of the divider
	overlayClip image.Rectangle // canvas region showing the after side
	imgRect     image.Rectangle // canvas rectangle the image occupies

	textCursor bool

	message      string
	messageUntil time.Time
}

func (st frameState) canvasSize() (int, int) {
	return st.width - st.toolbar.width, st.height - statusHeight
}

func (st frameState) rendererOptions() render.Options {
	cw, ch := st.canvasSize()
	return render.Options{
		Width:        cw,
		Height:       ch,
		Background:   st.background,
		MinZoom:      st.minZoom,
		MaxZoom:      st.maxZoom,
		CheckerLight: st.thm.CheckerLight,
		CheckerDark:  st.thm.CheckerDark,
	}
}

// renderFrame composes a full window frame into dst. It returns early when
// ctx is canceled; the caller checks ctx before publishing.
func renderFrame(ctx context.Context, dst *image.RGBA, st frameState) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{st.thm.Background}, image.Point{}, draw.Src)

	r := render.New(st.rendererOptions())
	r.SetView(st.view)
	r.DrawBackdrop()
	if ctx.Err() != nil {
		return
	}

	switch {
	case st.loadErr != "":
		r.DrawErrorPlaceholder(st.loadErr)
	case st.img == nil:
		// Nothing loaded yet, the backdrop is the whole scene.
	case st.compareOn:
		renderComparison(ctx, r, st)
	default:
		r.DrawImage(st.img)
		if ctx.Err() != nil {
			return
		}
		for _, a := range st.anns {
			r.DrawAnnotation(a)
		}
		if st.selected != nil {
			r.DrawSelectionHighlight(st.selected, st.thm.SelectionOutline)
		}
		drawPreview(r, st)
	}
	if ctx.Err() != nil {
		return
	}

	cw, ch := st.canvasSize()
	canvasRect := image.Rect(st.toolbar.width, 0, st.toolbar.width+cw, ch)
	draw.Draw(dst, canvasRect, r.Canvas(), image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	drawToolbar(dst, st.thm, st.toolbar, st.height)
	drawStatusBar(dst, st.thm, st.width, st.height, statusLeft(st), statusRight(st))
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessageBox(dst, st.thm, st.width, st.height, st.message)
	}
}

// renderComparison draws the before image full-width and the after side
// restricted to the overlay clip, then the divider on top.
func renderComparison(ctx context.Context, r *render.Renderer, st frameState) {
	base := st.compareBase
	if base == nil {
		base = st.img
	}
	r.DrawImage(base)
	if ctx.Err() != nil {
		return
	}

	if st.compareBase != nil {
		r.DrawImageClipped(st.img, st.overlayClip)
	}
	if ctx.Err() != nil {
		return
	}

	// Annotations belong to the after side only.
	overlay := render.New(st.rendererOptions())
	overlay.SetView(st.view)
	for _, a := range st.anns {
		overlay.DrawAnnotation(a)
	}
	drawPreview(overlay, st)
	clip := st.overlayClip.Intersect(r.Canvas().Bounds())
	draw.Draw(r.Canvas(), clip, overlay.Canvas(), clip.Min, draw.Over)
	if ctx.Err() != nil {
		return
	}

	drawSlider(r.Canvas(), st.thm, st.sliderX, st.imgRect)
}

func drawPreview(r *render.Renderer, st frameState) {
	if st.preview == nil {
		return
	}
	p := *st.preview
	if st.textCursor {
		p.Text += "|"
	}
	r.DrawAnnotation(&p)
}

// drawSlider paints the comparison divider across the image's vertical
// extent with a grab handle at its middle.
func drawSlider(dst *image.RGBA, thm *theme.Theme, x int, imgRect image.Rectangle) {
	b := dst.Bounds()
	y0 := imgRect.Min.Y
	y1 := imgRect.Max.Y
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	line := image.Rect(x-1, y0, x+1, y1)
	draw.Draw(dst, line, &image.Uniform{thm.SliderLine}, image.Point{}, draw.Src)
	mid := (y0 + y1) / 2
	handle := image.Rect(x-4, mid-10, x+4, mid+10)
	draw.Draw(dst, handle, &image.Uniform{thm.SliderHandle}, image.Point{}, draw.Src)
	drawBorder(dst, handle, thm.SliderLine)
}

func statusLeft(st frameState) string {
	switch {
	case st.compareOn:
		return "compare"
	case st.toolbar.active != "":
		return string(st.toolbar.active)
	default:
		return "pan"
	}
}

func statusRight(st frameState) string {
	return fmt.Sprintf("%d%%", int(st.view.Scale*100+0.5))
}

func drawMessageBox(dst *image.RGBA, thm *theme.Theme, width, height int, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(thm.Foreground), Face: basicfont.Face7x13}
	w := d.MeasureString(msg).Ceil()
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	descent := basicfont.Face7x13.Metrics().Descent.Ceil()
	px := (width - w) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+w+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{thm.ToolbarBackground}, image.Point{}, draw.Over)
	drawBorder(dst, rect, thm.ButtonBorder)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

// drawFrame renders one frame into a fresh window buffer and publishes it,
// abandoning the work as soon as a newer frame cancels the context.
func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st frameState) {
	b, err := s.NewBuffer(image.Point{X: st.width, Y: st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	renderFrame(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
