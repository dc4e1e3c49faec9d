package annotation

import (
	"image/color"
	"testing"

	"github.com/example/slateview/internal/geom"
)

func newTestController(cfg ControllerConfig) (*Controller, *Store) {
	store := NewStore()
	c := NewController(store, cfg)
	c.SetImageBounds(geom.R(0, 0, 800, 600))
	return c, store
}

func TestActivateUnknownTool(t *testing.T) {
	c, _ := newTestController(ControllerConfig{})
	if c.ActivateTool("scribble") {
		t.Fatal("unknown tool type should not activate")
	}
	if c.ActiveTool() != "" {
		t.Fatalf("no tool should be armed, got %q", c.ActiveTool())
	}
}

func TestDrawWithNoActiveToolIsNoop(t *testing.T) {
	c, store := newTestController(ControllerConfig{})
	c.PointerDown(geom.Point{X: 10, Y: 10})
	c.PointerMove(geom.Point{X: 50, Y: 50})
	if _, ok := c.PointerUp(geom.Point{X: 50, Y: 50}); ok {
		t.Fatal("pointer events without a tool should produce nothing")
	}
	if store.Len() != 0 {
		t.Fatalf("store should be empty, has %d", store.Len())
	}
}

func TestRectangleDrawLifecycle(t *testing.T) {
	c, store := newTestController(ControllerConfig{})
	if !c.ActivateTool(TypeRect) {
		t.Fatal("rect tool should activate")
	}
	c.PointerDown(geom.Point{X: 10, Y: 10})
	if !c.Drawing() {
		t.Fatal("expected drawing state after pointer down")
	}
	c.PointerMove(geom.Point{X: 60, Y: 40})
	a, ok := c.PointerUp(geom.Point{X: 100, Y: 100})
	if !ok {
		t.Fatal("expected finished annotation")
	}
	if a.Type != TypeRect {
		t.Errorf("type = %q", a.Type)
	}
	if len(a.Points) != 2 || a.Points[0] != (geom.Point{X: 10, Y: 10}) || a.Points[1] != (geom.Point{X: 100, Y: 100}) {
		t.Errorf("points = %+v", a.Points)
	}
	if store.Len() != 1 {
		t.Fatalf("store should hold 1, has %d", store.Len())
	}
	if c.Drawing() {
		t.Error("controller should be idle after finish")
	}
}

func TestZeroSizeGestureDiscarded(t *testing.T) {
	c, store := newTestController(ControllerConfig{})
	c.ActivateTool(TypeRect)
	c.PointerDown(geom.Point{X: 10, Y: 10})
	if _, ok := c.PointerUp(geom.Point{X: 10, Y: 10}); ok {
		t.Fatal("zero-extent gesture should be discarded")
	}
	if store.Len() != 0 {
		t.Fatalf("store should be empty, has %d", store.Len())
	}
	if c.Drawing() {
		t.Error("controller should return to idle after a discard")
	}
}

func TestPointerDownOutsideImageIgnored(t *testing.T) {
	c, _ := newTestController(ControllerConfig{})
	c.ActivateTool(TypeLine)
	c.PointerDown(geom.Point{X: -5, Y: 100})
	if c.Drawing() {
		t.Fatal("down outside image bounds must not start a gesture")
	}
}

func TestPointerMoveClampsToImageBounds(t *testing.T) {
	c, _ := newTestController(ControllerConfig{})
	c.ActivateTool(TypeLine)
	c.PointerDown(geom.Point{X: 100, Y: 100})
	c.PointerMove(geom.Point{X: 2000, Y: -50})
	a, ok := c.PointerUp(geom.Point{X: 2000, Y: -50})
	if !ok {
		t.Fatal("expected finished annotation")
	}
	end := a.Points[1]
	if end.X != 800 || end.Y != 0 {
		t.Errorf("endpoint not clamped: %+v", end)
	}
}

func TestDeactivateCancelsInProgress(t *testing.T) {
	c, store := newTestController(ControllerConfig{})
	c.ActivateTool(TypeArrow)
	c.PointerDown(geom.Point{X: 10, Y: 10})
	c.DeactivateTool()
	if c.ActiveTool() != "" {
		t.Fatalf("expected no active tool, got %q", c.ActiveTool())
	}
	if store.Len() != 0 {
		t.Fatal("cancelled gesture must not reach the store")
	}
	// A pointer up after deactivation must not resurrect the gesture.
	if _, ok := c.PointerUp(geom.Point{X: 50, Y: 50}); ok {
		t.Fatal("pointer up after deactivate should be a no-op")
	}
}

func TestTextToolRequiresText(t *testing.T) {
	c, store := newTestController(ControllerConfig{})
	c.ActivateTool(TypeText)
	c.PointerDown(geom.Point{X: 40, Y: 40})
	if _, ok := c.PointerUp(geom.Point{X: 40, Y: 40}); ok {
		t.Fatal("empty text annotation should be discarded")
	}

	c.PointerDown(geom.Point{X: 40, Y: 40})
	c.SetText("hello")
	a, ok := c.PointerUp(geom.Point{X: 40, Y: 40})
	if !ok {
		t.Fatal("text annotation with payload should finish")
	}
	if a.Text != "hello" || len(a.Points) != 1 {
		t.Errorf("annotation = %+v", a)
	}
	if store.Len() != 1 {
		t.Fatalf("store should hold 1, has %d", store.Len())
	}
}

func TestStyleResolutionOrder(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}

	c, _ := newTestController(ControllerConfig{
		DefaultStyle: &StylePatch{StrokeColor: &red},
		ToolStyles: map[Type]*StylePatch{
			TypeRect: {StrokeColor: &green},
		},
	})

	c.ActivateTool(TypeRect)
	c.PointerDown(geom.Point{X: 10, Y: 10})
	a, _ := c.PointerUp(geom.Point{X: 100, Y: 100})
	if a.Style.StrokeColor != green {
		t.Errorf("per-tool override should win, got %v", a.Style.StrokeColor)
	}

	c.ActivateTool(TypeLine)
	c.PointerDown(geom.Point{X: 10, Y: 10})
	b, _ := c.PointerUp(geom.Point{X: 100, Y: 100})
	if b.Style.StrokeColor != red {
		t.Errorf("controller default should apply, got %v", b.Style.StrokeColor)
	}
	// Untouched fields fall through to the built-in defaults.
	if b.Style.StrokeWidth != DefaultStyle().StrokeWidth {
		t.Errorf("stroke width should come from builtin default, got %d", b.Style.StrokeWidth)
	}
}

func TestAddedEventFires(t *testing.T) {
	c, _ := newTestController(ControllerConfig{})
	var gotID string
	c.Added.Subscribe(func(a *Annotation) { gotID = a.ID })
	c.ActivateTool(TypeRect)
	c.PointerDown(geom.Point{X: 0, Y: 0})
	a, _ := c.PointerUp(geom.Point{X: 50, Y: 50})
	if gotID == "" || gotID != a.ID {
		t.Fatalf("Added event id = %q, annotation id = %q", gotID, a.ID)
	}
}

func TestUniqueIDs(t *testing.T) {
	c, _ := newTestController(ControllerConfig{})
	c.ActivateTool(TypeRect)
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		c.PointerDown(geom.Point{X: 0, Y: 0})
		a, ok := c.PointerUp(geom.Point{X: 100, Y: 100})
		if !ok {
			t.Fatal("expected annotation")
		}
		if seen[a.ID] {
			t.Fatalf("duplicate id %q", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestCircleGeometry(t *testing.T) {
	center, radius := CircleGeometry(geom.Point{X: 10, Y: 10}, geom.Point{X: 50, Y: 30})
	if center != (geom.Point{X: 30, Y: 20}) {
		t.Errorf("center = %+v", center)
	}
	if radius != 10 {
		t.Errorf("radius = %v, want min dimension / 2", radius)
	}
}
