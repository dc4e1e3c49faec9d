package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/cull"
	"github.com/example/slateview/internal/geom"
)

func newTestRenderer() *Renderer {
	return New(Options{Width: 200, Height: 100, Background: color.RGBA{255, 255, 255, 255}})
}

func TestSetZoomClamps(t *testing.T) {
	r := newTestRenderer()
	r.SetZoom(100)
	if got := r.View().Scale; got != 10 {
		t.Errorf("scale = %v, want clamped to 10", got)
	}
	r.SetZoom(0.0001)
	if got := r.View().Scale; got != 0.1 {
		t.Errorf("scale = %v, want clamped to 0.1", got)
	}
}

func TestSetZoomFiresOnlyOnChange(t *testing.T) {
	r := newTestRenderer()
	fired := 0
	r.ZoomChanged.Subscribe(func(float64) { fired++ })
	r.SetZoom(2)
	r.SetZoom(2)
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
}

func TestZoomAtKeepsAnchorStationary(t *testing.T) {
	r := newTestRenderer()
	r.SetPan(10, 20)
	anchor := geom.Point{X: 50, Y: 40}
	before := r.PointerToWorld(anchor)
	r.ZoomAt(anchor, 2)
	after := r.PointerToWorld(anchor)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Errorf("anchor world point moved from %v to %v", before, after)
	}
}

func TestZoomAtClampedNoChange(t *testing.T) {
	r := newTestRenderer()
	r.SetZoom(10)
	fired := 0
	r.PanChanged.Subscribe(func(geom.Point) { fired++ })
	r.ZoomAt(geom.Point{X: 50, Y: 40}, 2)
	if fired != 0 {
		t.Errorf("pan fired %d times on clamped zoom, want 0", fired)
	}
}

func TestPanByAccumulates(t *testing.T) {
	r := newTestRenderer()
	r.PanBy(5, -3)
	r.PanBy(5, -3)
	v := r.View()
	if v.OffsetX != 10 || v.OffsetY != -6 {
		t.Errorf("offset = (%v, %v), want (10, -6)", v.OffsetX, v.OffsetY)
	}
}

func TestFitImageCenters(t *testing.T) {
	r := newTestRenderer()
	r.FitImage(100, 100)
	v := r.View()
	if v.Scale != 1 {
		t.Fatalf("scale = %v, want 1 for 100x100 in 200x100", v.Scale)
	}
	if v.OffsetX != 50 || v.OffsetY != 0 {
		t.Errorf("offset = (%v, %v), want (50, 0)", v.OffsetX, v.OffsetY)
	}
}

func TestViewportTracksView(t *testing.T) {
	r := newTestRenderer()
	r.SetZoom(2)
	r.SetPan(-100, -50)
	vp := r.Viewport()
	want := geom.R(50, 25, 100, 50)
	if vp != want {
		t.Errorf("viewport = %v, want %v", vp, want)
	}
}

func TestDrawImagePlacesPixels(t *testing.T) {
	r := newTestRenderer()
	r.Clear()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	r.SetPan(20, 30)
	r.DrawImage(img)
	if got := r.Canvas().RGBAAt(25, 35); got.G == 0 {
		t.Errorf("pixel inside image rect = %v, want green", got)
	}
	if got := r.Canvas().RGBAAt(5, 5); got.G != 255 || got.R != 255 {
		t.Errorf("pixel outside image rect = %v, want background", got)
	}
}

func TestDrawImageClippedRespectsClip(t *testing.T) {
	r := newTestRenderer()
	r.Clear()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 200, 255})
		}
	}
	r.DrawImageClipped(img, image.Rect(0, 0, 50, 100))
	if got := r.Canvas().RGBAAt(25, 50); got.B == 0 {
		t.Errorf("inside clip = %v, want blue", got)
	}
	if got := r.Canvas().RGBAAt(75, 50); got.B == 200 {
		t.Errorf("outside clip = %v, want untouched background", got)
	}
}

func TestDrawAnnotationRect(t *testing.T) {
	r := newTestRenderer()
	r.Clear()
	a := &annotation.Annotation{
		ID:     "a-1",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 10, Y: 10}, {X: 60, Y: 40}},
		Style:  annotation.DefaultStyle(),
	}
	r.DrawAnnotation(a)
	if got := r.Canvas().RGBAAt(10, 10); got.R != 255 || got.G != 0 {
		t.Errorf("corner = %v, want stroke color", got)
	}
	if got := r.Canvas().RGBAAt(35, 25); got.R != 255 || got.G != 255 {
		t.Errorf("interior = %v, want untouched without fill", got)
	}
}

func TestDrawAnnotationRectFill(t *testing.T) {
	r := newTestRenderer()
	r.Clear()
	style := annotation.DefaultStyle()
	style.FillColor = color.RGBA{0, 0, 255, 255}
	a := &annotation.Annotation{
		ID:     "a-1",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 10, Y: 10}, {X: 60, Y: 40}},
		Style:  style,
	}
	r.DrawAnnotation(a)
	if got := r.Canvas().RGBAAt(35, 25); got.B != 255 {
		t.Errorf("interior = %v, want fill color", got)
	}
}

func TestDrawAnnotationScalesWithView(t *testing.T) {
	r := newTestRenderer()
	r.Clear()
	r.SetZoom(2)
	a := &annotation.Annotation{
		ID:     "a-1",
		Type:   annotation.TypeLine,
		Points: []geom.Point{{X: 10, Y: 10}, {X: 40, Y: 10}},
		Style:  annotation.DefaultStyle(),
	}
	r.DrawAnnotation(a)
	if got := r.Canvas().RGBAAt(40, 20); got.R != 255 || got.G != 0 {
		t.Errorf("scaled midpoint = %v, want stroke color", got)
	}
}

func TestDrawAnnotationsCulls(t *testing.T) {
	r := newTestRenderer()
	r.Clear()
	far := &annotation.Annotation{
		ID:     "a-1",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 5000, Y: 5000}, {X: 5050, Y: 5050}},
		Style:  annotation.DefaultStyle(),
	}
	near := &annotation.Annotation{
		ID:     "a-2",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 10, Y: 10}, {X: 60, Y: 40}},
		Style:  annotation.DefaultStyle(),
	}
	r.DrawAnnotations([]*annotation.Annotation{far, near})
	if got := r.Canvas().RGBAAt(10, 10); got.R != 255 || got.G != 0 {
		t.Errorf("visible annotation not drawn: %v", got)
	}
}

func TestCullAnnotationsIndexedPathKeepsOrder(t *testing.T) {
	// Enough annotations to take the indexed path instead of the scan.
	vp := geom.R(0, 0, 100, 100)
	var anns []*annotation.Annotation
	for i := 0; i < cull.IndexThreshold+8; i++ {
		x := float64(1000 + i*100)
		if i < 3 {
			// The three visible ones, placed out of cell order.
			x = float64(60 - i*20)
		}
		anns = append(anns, &annotation.Annotation{
			ID:     fmt.Sprintf("a-%d", i),
			Type:   annotation.TypeRect,
			Points: []geom.Point{{X: x, Y: 10}, {X: x + 30, Y: 40}},
			Style:  annotation.DefaultStyle(),
		})
	}
	got := cullAnnotations(anns, vp)
	if len(got) != 3 {
		t.Fatalf("expected 3 visible annotations, got %d", len(got))
	}
	for i, want := range []string{"a-0", "a-1", "a-2"} {
		if got[i].ID != want {
			t.Errorf("visible[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestDrawAnnotationShadowOffset(t *testing.T) {
	r := newTestRenderer()
	r.Clear()
	style := annotation.DefaultStyle()
	style.StrokeColor = color.RGBA{255, 0, 0, 255}
	style.ShadowColor = color.RGBA{0, 0, 0, 255}
	style.ShadowOffset = geom.Point{X: 5, Y: 5}
	a := &annotation.Annotation{
		ID:     "a-1",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 20, Y: 20}, {X: 60, Y: 60}},
		Style:  style,
	}
	r.DrawAnnotation(a)
	// Shadow sits under the offset corner, shape color on top of the shape.
	if got := r.Canvas().RGBAAt(65, 65); got.R != 0 || got.A != 255 {
		t.Errorf("offset corner = %v, want shadow", got)
	}
	if got := r.Canvas().RGBAAt(20, 20); got.R != 255 {
		t.Errorf("shape corner = %v, want stroke color", got)
	}
}

func TestDrawTextAnnotation(t *testing.T) {
	r := newTestRenderer()
	r.Clear()
	a := &annotation.Annotation{
		ID:     "a-1",
		Type:   annotation.TypeText,
		Points: []geom.Point{{X: 10, Y: 10}},
		Style:  annotation.DefaultStyle(),
		Text:   "hello",
	}
	r.DrawAnnotation(a)
	found := false
	for y := 5; y < 40 && !found; y++ {
		for x := 5; x < 100 && !found; x++ {
			c := r.Canvas().RGBAAt(x, y)
			if c.R > 200 && c.G < 100 && c.B < 100 {
				found = true
			}
		}
	}
	if !found {
		t.Error("no text pixels in stroke color")
	}
}

func TestDrawErrorPlaceholder(t *testing.T) {
	r := newTestRenderer()
	r.DrawErrorPlaceholder("failed to load")
	found := false
	b := r.Canvas().Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X && !found; x++ {
			c := r.Canvas().RGBAAt(x, y)
			if c.R != 255 || c.G != 255 || c.B != 255 {
				found = true
			}
		}
	}
	if !found {
		t.Error("placeholder drew nothing")
	}
}

func TestResizeReplacesCanvas(t *testing.T) {
	r := newTestRenderer()
	r.Resize(50, 60)
	b := r.Canvas().Bounds()
	if b.Dx() != 50 || b.Dy() != 60 {
		t.Errorf("bounds = %v, want 50x60", b)
	}
}
