package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/cull"
	"github.com/example/slateview/internal/event"
	"github.com/example/slateview/internal/geom"
)

// CullMargin is the world-space margin used when culling annotations so
// shapes just off screen are ready before a pan reveals them.
const CullMargin = 64.0

// Renderer owns the canvas surface and the view state. Zoom and pan mutate
// only through its methods; every other component works from the ViewState
// snapshot View returns.
type Renderer struct {
	canvas       *image.RGBA
	view         geom.ViewState
	background   color.RGBA
	minZoom      float64
	maxZoom      float64
	checkerLight color.RGBA
	checkerDark  color.RGBA

	ZoomChanged event.Feed[float64]
	PanChanged  event.Feed[geom.Point]
}

// Options configures a Renderer.
type Options struct {
	Width, Height int
	Background    color.RGBA
	MinZoom       float64 // defaults to 0.1
	MaxZoom       float64 // defaults to 10

	// Checker colors for the transparency backdrop; zero values fall back
	// to the builtin grays.
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// New creates a renderer with a fresh canvas.
func New(opts Options) *Renderer {
	if opts.MinZoom <= 0 {
		opts.MinZoom = 0.1
	}
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = 10
	}
	if opts.CheckerLight.A == 0 {
		opts.CheckerLight = color.RGBA{220, 220, 220, 255}
	}
	if opts.CheckerDark.A == 0 {
		opts.CheckerDark = color.RGBA{192, 192, 192, 255}
	}
	r := &Renderer{
		canvas:       image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		view:         geom.ViewState{Scale: 1},
		background:   opts.Background,
		minZoom:      opts.MinZoom,
		maxZoom:      opts.MaxZoom,
		checkerLight: opts.CheckerLight,
		checkerDark:  opts.CheckerDark,
	}
	return r
}

// Canvas returns the backing surface.
func (r *Renderer) Canvas() *image.RGBA { return r.canvas }

// SetView restores a previously captured view state without publishing
// change events. Frame composition uses it to draw from a snapshot.
func (r *Renderer) SetView(v geom.ViewState) { r.view = v }

// View returns the current view state snapshot.
func (r *Renderer) View() geom.ViewState { return r.view }

// Resize replaces the canvas with one of the new size.
func (r *Renderer) Resize(width, height int) {
	r.canvas = image.NewRGBA(image.Rect(0, 0, width, height))
}

// PointerToWorld translates a canvas-local pointer position into world
// coordinates under the current view.
func (r *Renderer) PointerToWorld(p geom.Point) geom.Point {
	return geom.ScreenToWorld(p, r.view)
}

// SetZoom sets the scale clamped to the configured range and fires
// ZoomChanged when the value moved.
func (r *Renderer) SetZoom(scale float64) {
	scale = geom.Clamp(scale, r.minZoom, r.maxZoom)
	if scale == r.view.Scale {
		return
	}
	r.view.Scale = scale
	r.ZoomChanged.Publish(scale)
}

// ZoomAt scales by factor keeping the world point under the screen anchor
// stationary, the usual scroll-wheel zoom.
func (r *Renderer) ZoomAt(anchor geom.Point, factor float64) {
	oldScale := r.view.Scale
	newScale := geom.Clamp(oldScale*factor, r.minZoom, r.maxZoom)
	if newScale == oldScale {
		return
	}
	world := geom.ScreenToWorld(anchor, r.view)
	r.view.Scale = newScale
	r.view.OffsetX = anchor.X - world.X*newScale
	r.view.OffsetY = anchor.Y - world.Y*newScale
	r.ZoomChanged.Publish(newScale)
	r.PanChanged.Publish(geom.Point{X: r.view.OffsetX, Y: r.view.OffsetY})
}

// SetPan sets the view offset and fires PanChanged when it moved.
func (r *Renderer) SetPan(offsetX, offsetY float64) {
	if offsetX == r.view.OffsetX && offsetY == r.view.OffsetY {
		return
	}
	r.view.OffsetX = offsetX
	r.view.OffsetY = offsetY
	r.PanChanged.Publish(geom.Point{X: offsetX, Y: offsetY})
}

// PanBy shifts the view offset by a screen-space delta.
func (r *Renderer) PanBy(dx, dy float64) {
	r.SetPan(r.view.OffsetX+dx, r.view.OffsetY+dy)
}

// FitImage picks the zoom that fits an image of the given size entirely in
// the canvas and centers it.
func (r *Renderer) FitImage(imgW, imgH int) {
	if imgW <= 0 || imgH <= 0 {
		return
	}
	cw := float64(r.canvas.Bounds().Dx())
	ch := float64(r.canvas.Bounds().Dy())
	zx := cw / float64(imgW)
	zy := ch / float64(imgH)
	scale := math.Min(zx, zy)
	r.SetZoom(scale)
	scale = r.view.Scale
	r.SetPan((cw-float64(imgW)*scale)/2, (ch-float64(imgH)*scale)/2)
}

// Viewport returns the world rectangle currently visible on the canvas.
func (r *Renderer) Viewport() geom.Rect {
	min := geom.ScreenToWorld(geom.Point{}, r.view)
	max := geom.ScreenToWorld(geom.Point{
		X: float64(r.canvas.Bounds().Dx()),
		Y: float64(r.canvas.Bounds().Dy()),
	}, r.view)
	return geom.Rect{X: min.X, Y: min.Y, Width: max.X - min.X, Height: max.Y - min.Y}
}

// Clear fills the canvas with the background color.
func (r *Renderer) Clear() {
	draw.Draw(r.canvas, r.canvas.Bounds(), &image.Uniform{r.background}, image.Point{}, draw.Src)
}

// DrawBackdrop fills the canvas with a checkerboard so transparent images
// read as transparent.
func (r *Renderer) DrawBackdrop() {
	b := r.canvas.Bounds()
	const size = 8
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				r.canvas.Set(x, y, r.checkerLight)
			} else {
				r.canvas.Set(x, y, r.checkerDark)
			}
		}
	}
}

// DrawSelectionHighlight strokes a dashed box around an annotation's screen
// bounds so the selected shape stands out without altering it.
func (r *Renderer) DrawSelectionHighlight(a *annotation.Annotation, col color.RGBA) {
	sr := geom.WorldToScreenRect(a.Bounds(), r.view)
	rect := image.Rect(int(sr.X), int(sr.Y), int(sr.X+sr.Width), int(sr.Y+sr.Height)).Inset(-3)
	strokeRect(r.canvas, rect, col, 1, dashedStroke(4, 4))
}

// ImageScreenRect returns the canvas rectangle the image occupies under the
// current view.
func (r *Renderer) ImageScreenRect(img image.Image) image.Rectangle {
	b := img.Bounds()
	sr := geom.WorldToScreenRect(geom.R(0, 0, float64(b.Dx()), float64(b.Dy())), r.view)
	return image.Rect(int(sr.X), int(sr.Y), int(sr.X+sr.Width), int(sr.Y+sr.Height))
}

// DrawImage paints img scaled into the viewport.
func (r *Renderer) DrawImage(img image.Image) {
	if img == nil {
		return
	}
	dst := r.ImageScreenRect(img)
	xdraw.NearestNeighbor.Scale(r.canvas, dst, img, img.Bounds(), draw.Over, nil)
}

// DrawImageClipped paints img scaled, restricted to the clip rectangle in
// canvas coordinates. The comparison divider is built on this.
func (r *Renderer) DrawImageClipped(img image.Image, clip image.Rectangle) {
	if img == nil {
		return
	}
	dst := r.ImageScreenRect(img)
	clipped := r.canvas.SubImage(clip.Intersect(r.canvas.Bounds())).(*image.RGBA)
	xdraw.NearestNeighbor.Scale(clipped, dst, img, img.Bounds(), draw.Over, nil)
}

// DrawErrorPlaceholder fills the canvas with the background and a centered
// message, the fallback for a failed image load.
func (r *Renderer) DrawErrorPlaceholder(msg string) {
	r.Clear()
	w, h, _, err := MeasureText(msg, 16)
	if err != nil {
		log.Printf("placeholder text: %v", err)
		return
	}
	b := r.canvas.Bounds()
	x := b.Min.X + (b.Dx()-w)/2
	y := b.Min.Y + (b.Dy()-h)/2
	if err := drawText(r.canvas, x, y, msg, color.RGBA{96, 96, 96, 255}, 16); err != nil {
		log.Printf("placeholder text: %v", err)
	}
}

// indexCellSize is the world-unit grid cell used when DrawAnnotations falls
// back to the spatial index on large annotation counts.
const indexCellSize = 256.0

// DrawAnnotations paints the store's annotations in z-order, culled against
// the current viewport with a margin. Small sets linear-scan; above
// cull.IndexThreshold a grid index narrows the candidates first.
func (r *Renderer) DrawAnnotations(anns []*annotation.Annotation) {
	vp := cull.ExpandViewport(r.Viewport(), CullMargin/math.Max(r.view.Scale, 1e-9))
	visible := cullAnnotations(anns, vp)
	for _, a := range visible {
		r.DrawAnnotation(a)
	}
}

func cullAnnotations(anns []*annotation.Annotation, vp geom.Rect) []*annotation.Annotation {
	if len(anns) <= cull.IndexThreshold {
		return cull.Objects(anns, vp)
	}
	return cull.NewSpatialIndex(anns, indexCellSize).Query(vp)
}

// DrawAnnotation paints one annotation, transforming its world geometry to
// the canvas under the current view. Stroke widths stay in screen pixels so
// lines keep their weight while zooming.
func (r *Renderer) DrawAnnotation(a *annotation.Annotation) {
	if a.Style.ShadowColor.A > 0 {
		r.drawAnnotationShadow(a)
	}
	r.paintAnnotation(r.canvas, a, r.view)
}

func (r *Renderer) drawAnnotationShadow(a *annotation.Annotation) {
	sprite := image.NewRGBA(r.canvas.Bounds())
	r.paintAnnotation(sprite, a, r.view)
	blur := a.Style.ShadowBlur
	if blur < 0 {
		blur = 0
	}
	shadow := shadowSprite(sprite, a.Style.ShadowColor, blur)
	if shadow == nil {
		return
	}
	// The sprite carries a blur-sized pad on every side.
	off := image.Pt(int(a.Style.ShadowOffset.X)-blur, int(a.Style.ShadowOffset.Y)-blur)
	draw.Draw(r.canvas, shadow.Bounds().Add(off), shadow, shadow.Bounds().Min, draw.Over)
}

func (r *Renderer) paintAnnotation(dst *image.RGBA, a *annotation.Annotation, view geom.ViewState) {
	stroke := strokeFor(a.Style.LineStyle, a.Style.StrokeWidth)
	col := a.Style.StrokeColor
	pts := make([]image.Point, len(a.Points))
	for i, p := range a.Points {
		sp := geom.WorldToScreen(p, view)
		pts[i] = image.Pt(int(sp.X), int(sp.Y))
	}
	switch a.Type {
	case annotation.TypeRect:
		if len(pts) < 2 {
			return
		}
		rect := image.Rect(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y).Canon()
		if a.Style.FillColor.A > 0 {
			fillRect(dst, rect, a.Style.FillColor)
		}
		strokeRect(dst, rect, col, a.Style.StrokeWidth, stroke)
	case annotation.TypeCircle:
		if len(a.Points) < 2 {
			return
		}
		center, radius := annotation.CircleGeometry(a.Points[0], a.Points[1])
		sc := geom.WorldToScreen(center, view)
		sr := int(radius * view.Scale)
		if a.Style.FillColor.A > 0 {
			fillCircle(dst, int(sc.X), int(sc.Y), sr, a.Style.FillColor)
		}
		strokeCircle(dst, int(sc.X), int(sc.Y), sr, col, a.Style.StrokeWidth, stroke)
	case annotation.TypeLine:
		if len(pts) < 2 {
			return
		}
		stroke(dst, pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, col, a.Style.StrokeWidth)
	case annotation.TypeArrow:
		if len(pts) < 2 {
			return
		}
		strokeArrow(dst, pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, col, a.Style.StrokeWidth, stroke)
	case annotation.TypeText:
		if len(pts) < 1 || a.Text == "" {
			return
		}
		size := a.Style.FontSize * view.Scale
		if err := drawText(dst, pts[0].X, pts[0].Y, a.Text, col, size); err != nil {
			log.Printf("draw text annotation %s: %v", a.ID, err)
		}
	}
}

func strokeFor(style annotation.LineStyle, width int) lineStroke {
	switch style {
	case annotation.LineDashed:
		return dashedStroke(4+width, 4+width)
	case annotation.LineDotted:
		return dashedStroke(width, 2+width)
	default:
		return solidStroke
	}
}
