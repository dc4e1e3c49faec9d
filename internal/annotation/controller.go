package annotation

import (
	"fmt"

	"github.com/example/slateview/internal/event"
	"github.com/example/slateview/internal/geom"
)

// DefaultMinExtent is the minimum gesture size, in world units, below which
// a finished two-point shape is treated as an accidental click.
const DefaultMinExtent = 3.0

// ControllerConfig is assembled by the caller at construction time; the
// controller holds no process-wide state.
type ControllerConfig struct {
	// MinExtent overrides DefaultMinExtent when positive.
	MinExtent float64
	// DefaultStyle is layered over the built-in defaults for every tool.
	DefaultStyle *StylePatch
	// ToolStyles are per-tool overrides, closest to the annotation so they
	// win over DefaultStyle.
	ToolStyles map[Type]*StylePatch
}

// Controller owns which tool is active, routes pointer events to it, and
// enforces the geometric policies (image-bounds gating, minimum size) before
// handing finished annotations to the store.
type Controller struct {
	cfg    ControllerConfig
	store  *Store
	bounds geom.Rect // image bounds in world space
	active *tool
	nextID int

	// Added fires after a finished annotation lands in the store. Removed
	// fires after an explicit removal. ToolChanged fires on activate and
	// deactivate with the new type ("" when no tool is armed).
	Added       event.Feed[*Annotation]
	Removed     event.Feed[string]
	ToolChanged event.Feed[Type]
}

// NewController creates a controller writing into store.
func NewController(store *Store, cfg ControllerConfig) *Controller {
	if cfg.MinExtent <= 0 {
		cfg.MinExtent = DefaultMinExtent
	}
	return &Controller{cfg: cfg, store: store}
}

// SetImageBounds updates the world rectangle pointer events are gated to.
func (c *Controller) SetImageBounds(r geom.Rect) { c.bounds = r }

// ActiveTool returns the armed tool type, or "" when inactive.
func (c *Controller) ActiveTool() Type {
	if c.active == nil {
		return ""
	}
	return c.active.typ
}

// Drawing reports whether a gesture is currently in progress.
func (c *Controller) Drawing() bool {
	return c.active != nil && c.active.drawing()
}

// ActivateTool arms a tool type. Unknown types return false and leave the
// current tool in place. Switching tools cancels any gesture in progress.
func (c *Controller) ActivateTool(typ Type) bool {
	if !knownTypes[typ] {
		return false
	}
	if c.active != nil && c.active.drawing() {
		c.active.cancel()
	}
	c.active = newTool(typ)
	c.ToolChanged.Publish(typ)
	return true
}

// DeactivateTool disarms the controller, cancelling any in-progress gesture
// without touching the store.
func (c *Controller) DeactivateTool() {
	if c.active == nil {
		return
	}
	if c.active.drawing() {
		c.active.cancel()
	}
	c.active = nil
	c.ToolChanged.Publish("")
}

// PointerDown begins a gesture at the world point. Events with no armed tool
// or outside the image bounds are ignored.
func (c *Controller) PointerDown(world geom.Point) {
	if c.active == nil || c.active.drawing() {
		return
	}
	if !c.bounds.Contains(world) {
		return
	}
	c.active.start(world)
}

// PointerMove updates the in-progress gesture, clamping the point to the
// image bounds so shapes never leak past the image edge.
func (c *Controller) PointerMove(world geom.Point) {
	if c.active == nil || !c.active.drawing() {
		return
	}
	c.active.track(c.clampToBounds(world))
}

// SetText attaches the text payload to an in-progress text gesture.
func (c *Controller) SetText(s string) {
	if c.active == nil || !c.active.drawing() {
		return
	}
	c.active.setText(s)
}

// PointerUp finishes the gesture. Shapes smaller than the minimum extent and
// text annotations with no text are discarded as accidental clicks;
// everything else is styled, stored, and announced through Added.
func (c *Controller) PointerUp(world geom.Point) (*Annotation, bool) {
	if c.active == nil || !c.active.drawing() {
		return nil, false
	}
	typ := c.active.typ
	points, text, ok := c.active.finish(c.clampToBounds(world))
	if !ok {
		return nil, false
	}
	a := &Annotation{
		Type:   typ,
		Points: points,
		Style:  c.styleFor(typ),
		Text:   text,
	}
	if typ == TypeText {
		if a.Text == "" {
			return nil, false
		}
	} else if a.Extent() < c.cfg.MinExtent {
		return nil, false
	}
	c.nextID++
	a.ID = fmt.Sprintf("a-%d", c.nextID)
	c.store.Add(a)
	c.Added.Publish(a)
	return a, true
}

// Preview returns a transient annotation describing the gesture in progress,
// styled as the finished annotation would be. It is never placed in the
// store; callers draw it and throw it away.
func (c *Controller) Preview() (*Annotation, bool) {
	if c.active == nil || !c.active.drawing() {
		return nil, false
	}
	pts := make([]geom.Point, len(c.active.points))
	copy(pts, c.active.points)
	return &Annotation{
		Type:   c.active.typ,
		Points: pts,
		Style:  c.styleFor(c.active.typ),
		Text:   c.active.text,
	}, true
}

// Cancel aborts the current gesture, e.g. on focus loss, without disarming
// the tool.
func (c *Controller) Cancel() {
	if c.active != nil && c.active.drawing() {
		c.active.cancel()
	}
}

// Remove deletes an annotation by id and fires Removed when it existed.
func (c *Controller) Remove(id string) bool {
	if !c.store.Remove(id) {
		return false
	}
	c.Removed.Publish(id)
	return true
}

// styleFor resolves builtin defaults, controller defaults, then the per-tool
// override, closest last.
func (c *Controller) styleFor(typ Type) Style {
	return ResolveStyle(DefaultStyle(), c.cfg.DefaultStyle, c.cfg.ToolStyles[typ])
}

func (c *Controller) clampToBounds(p geom.Point) geom.Point {
	return geom.Point{
		X: geom.Clamp(p.X, c.bounds.X, c.bounds.X+c.bounds.Width),
		Y: geom.Clamp(p.Y, c.bounds.Y, c.bounds.Y+c.bounds.Height),
	}
}
