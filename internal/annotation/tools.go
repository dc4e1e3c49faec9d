package annotation

import "github.com/example/slateview/internal/geom"

// toolState is the drawing lifecycle of a single gesture.
type toolState int

const (
	stateIdle toolState = iota
	stateDrawing
)

// tool is one armed drawing tool. Finish and Cancel both return it to idle
// for the next gesture.
type tool struct {
	typ    Type
	state  toolState
	points []geom.Point
	text   string
}

func newTool(typ Type) *tool {
	return &tool{typ: typ}
}

// start seeds the gesture at the pointer-down position. Every shape begins
// degenerate: two-point shapes anchor both corners at p, text anchors once.
func (t *tool) start(p geom.Point) {
	t.state = stateDrawing
	t.text = ""
	switch t.typ {
	case TypeText:
		t.points = []geom.Point{p}
	default:
		t.points = []geom.Point{p, p}
	}
}

// track moves the trailing point to follow the cursor.
func (t *tool) track(p geom.Point) {
	if t.state != stateDrawing {
		return
	}
	if t.typ == TypeText {
		t.points[0] = p
		return
	}
	t.points[len(t.points)-1] = p
}

// finish ends the gesture at p and returns the shape geometry. The caller
// owns validation; finish only reports the raw result.
func (t *tool) finish(p geom.Point) (points []geom.Point, text string, ok bool) {
	if t.state != stateDrawing {
		return nil, "", false
	}
	t.track(p)
	points = append([]geom.Point(nil), t.points...)
	text = t.text
	t.reset()
	return points, text, true
}

// cancel discards the in-progress gesture.
func (t *tool) cancel() { t.reset() }

func (t *tool) reset() {
	t.state = stateIdle
	t.points = nil
	t.text = ""
}

// drawing reports whether a gesture is in progress.
func (t *tool) drawing() bool { return t.state == stateDrawing }

// setText attaches the out-of-band text payload while a text gesture is in
// progress. Ignored for other tool types.
func (t *tool) setText(s string) {
	if t.typ == TypeText {
		t.text = s
	}
}

// CircleGeometry derives a circle from the two stored corner points: the
// center is the box midpoint and the radius is half the smaller box
// dimension.
func CircleGeometry(corner0, corner1 geom.Point) (center geom.Point, radius float64) {
	center = geom.CenterPoint(corner0, corner1)
	w := corner1.X - corner0.X
	if w < 0 {
		w = -w
	}
	h := corner1.Y - corner0.Y
	if h < 0 {
		h = -h
	}
	if w < h {
		return center, w / 2
	}
	return center, h / 2
}
