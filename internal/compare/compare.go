// Package compare implements the before/after divider: two images composited
// on one canvas, split by a draggable vertical slider.
package compare

import (
	"image"

	"github.com/example/slateview/internal/event"
	"github.com/example/slateview/internal/geom"
)

// DefaultHitTolerance is the pixel radius around the slider line that
// engages a drag. It is a fixed screen distance, not scaled with the image.
const DefaultHitTolerance = 10.0

// State is the observable slider state. SliderPosition is a percentage of
// the image's rendered width, 0 at the left edge and 100 at the right.
type State struct {
	SliderPosition float64
	Dragging       bool
	ComparisonMode bool
}

// Controller tracks the divider between the before and after images.
//
// In normal mode the before image fills the canvas and the after image is
// clipped to the right of the slider. In comparison mode the clip flips: the
// after image (the annotated view) shows to the left of the slider instead.
// Both modes share the one slider position, so toggling the mode swaps the
// clip side without moving the divider.
type Controller struct {
	state        State
	before       image.Image
	after        image.Image
	hitTolerance float64

	Changed event.Feed[State]
}

// Option configures a Controller.
type Option func(*Controller)

// WithHitTolerance overrides the slider grab radius in pixels.
func WithHitTolerance(px float64) Option {
	return func(c *Controller) { c.hitTolerance = px }
}

// WithSliderPosition sets the starting position, clamped to [0, 100].
func WithSliderPosition(pos float64) Option {
	return func(c *Controller) { c.state.SliderPosition = geom.Clamp(pos, 0, 100) }
}

// NewController returns a controller with the slider at 50.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state:        State{SliderPosition: 50},
		hitTolerance: DefaultHitTolerance,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current slider state.
func (c *Controller) State() State { return c.state }

// SetImages assigns the image pair. Before is the base drawn across the full
// canvas, after is the overlay drawn inside the clip.
func (c *Controller) SetImages(before, after image.Image) {
	c.before = before
	c.after = after
}

// Before returns the base image.
func (c *Controller) Before() image.Image { return c.before }

// After returns the overlay image.
func (c *Controller) After() image.Image { return c.after }

// SetSliderPosition moves the divider, clamped to [0, 100], and fires
// Changed when the value moved.
func (c *Controller) SetSliderPosition(pos float64) {
	pos = geom.Clamp(pos, 0, 100)
	if pos == c.state.SliderPosition {
		return
	}
	c.state.SliderPosition = pos
	c.Changed.Publish(c.state)
}

// SetComparisonMode flips the clip side. The slider position is preserved.
func (c *Controller) SetComparisonMode(on bool) {
	if on == c.state.ComparisonMode {
		return
	}
	c.state.ComparisonMode = on
	c.Changed.Publish(c.state)
}

// SliderScreenX returns the divider's canvas x-coordinate for the image's
// rendered rectangle.
func (c *Controller) SliderScreenX(imageRect image.Rectangle) float64 {
	return float64(imageRect.Min.X) + float64(imageRect.Dx())*c.state.SliderPosition/100
}

// PointerDown engages a drag when the pointer is within the grab radius of
// the divider and inside the image's vertical extent. Clicks above or below
// the rendered image never grab the slider, even when horizontally aligned.
func (c *Controller) PointerDown(p geom.Point, imageRect image.Rectangle) bool {
	if imageRect.Empty() {
		return false
	}
	if p.Y < float64(imageRect.Min.Y) || p.Y > float64(imageRect.Max.Y) {
		return false
	}
	sx := c.SliderScreenX(imageRect)
	if p.X < sx-c.hitTolerance || p.X > sx+c.hitTolerance {
		return false
	}
	c.state.Dragging = true
	c.Changed.Publish(c.state)
	return true
}

// PointerMove updates the slider while dragging. The new position is the
// pointer's percentage across the image's rendered width; when the image
// rectangle is empty the canvas width is the fallback reference.
func (c *Controller) PointerMove(p geom.Point, imageRect, canvas image.Rectangle) {
	if !c.state.Dragging {
		return
	}
	ref := imageRect
	if ref.Empty() {
		ref = canvas
	}
	if ref.Dx() == 0 {
		return
	}
	pct := (p.X - float64(ref.Min.X)) / float64(ref.Dx()) * 100
	c.SetSliderPosition(pct)
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() {
	if !c.state.Dragging {
		return
	}
	c.state.Dragging = false
	c.Changed.Publish(c.state)
}

// OverlayClip returns the canvas rectangle the after image is clipped to.
// Normal mode clips from the divider to the right canvas edge; comparison
// mode clips from the left canvas edge to the divider.
func (c *Controller) OverlayClip(imageRect, canvas image.Rectangle) image.Rectangle {
	ref := imageRect
	if ref.Empty() {
		ref = canvas
	}
	sx := int(c.SliderScreenX(ref))
	if c.state.ComparisonMode {
		return image.Rect(canvas.Min.X, canvas.Min.Y, sx, canvas.Max.Y)
	}
	return image.Rect(sx, canvas.Min.Y, canvas.Max.X, canvas.Max.Y)
}
