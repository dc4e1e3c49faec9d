// Package annotation holds the annotation data model, the per-tool drawing
// state machines, and the controller that turns pointer gestures into
// finished annotations.
package annotation

import (
	"image/color"

	"github.com/example/slateview/internal/geom"
)

// Type identifies an annotation shape. The set is closed; tools dispatch on
// the tag rather than on polymorphism.
type Type string

const (
	TypeRect   Type = "rect"
	TypeCircle Type = "circle"
	TypeLine   Type = "line"
	TypeArrow  Type = "arrow"
	TypeText   Type = "text"
)

// knownTypes lists every valid annotation type.
var knownTypes = map[Type]bool{
	TypeRect:   true,
	TypeCircle: true,
	TypeLine:   true,
	TypeArrow:  true,
	TypeText:   true,
}

// KnownType reports whether t names one of the annotation types.
func KnownType(t Type) bool { return knownTypes[t] }

// LineStyle selects the stroke pattern.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// Annotation is a finished shape in world coordinates. Point semantics vary
// by type: rect and circle store two opposite corners of the bounding box,
// line and arrow store their endpoints, text stores a single anchor. Shape
// is immutable once finished; style and text change only through Store.Patch.
type Annotation struct {
	ID     string
	Type   Type
	Points []geom.Point
	Style  Style
	Text   string
}

// Bounds returns the world-space bounding box, padded by the stroke width so
// thick strokes stay inside their dirty region.
func (a *Annotation) Bounds() geom.Rect {
	r := geom.BoundingRect(a.Points)
	pad := float64(a.Style.StrokeWidth)
	if a.Type == TypeArrow {
		// Room for the arrow head wings.
		pad += 6 + 2*float64(a.Style.StrokeWidth)
	}
	return r.Expand(pad)
}

// Extent is the geometric size of the gesture that produced the annotation:
// the distance between the first and last point. Used for the minimum-size
// check that separates a drag from an accidental click.
func (a *Annotation) Extent() float64 {
	if len(a.Points) < 2 {
		return 0
	}
	return geom.Distance(a.Points[0], a.Points[len(a.Points)-1])
}

// Style is the resolved visual appearance of an annotation.
type Style struct {
	StrokeColor  color.RGBA
	StrokeWidth  int
	FillColor    color.RGBA // zero alpha means no fill
	LineStyle    LineStyle
	FontSize     float64
	FontFamily   string
	ShadowColor  color.RGBA // zero alpha disables the shadow
	ShadowBlur   int
	ShadowOffset geom.Point
}

// StylePatch is a partial style; nil fields leave the base value untouched.
type StylePatch struct {
	StrokeColor  *color.RGBA
	StrokeWidth  *int
	FillColor    *color.RGBA
	LineStyle    *LineStyle
	FontSize     *float64
	FontFamily   *string
	ShadowColor  *color.RGBA
	ShadowBlur   *int
	ShadowOffset *geom.Point
}

// DefaultStyle returns the built-in appearance used when neither the
// controller nor the tool overrides a field.
func DefaultStyle() Style {
	return Style{
		StrokeColor: color.RGBA{255, 0, 0, 255},
		StrokeWidth: 2,
		LineStyle:   LineSolid,
		FontSize:    16,
		FontFamily:  "goregular",
	}
}

// ResolveStyle layers patches over base in order, so the last (closest)
// patch wins for every field it sets.
func ResolveStyle(base Style, patches ...*StylePatch) Style {
	out := base
	for _, p := range patches {
		if p == nil {
			continue
		}
		if p.StrokeColor != nil {
			out.StrokeColor = *p.StrokeColor
		}
		if p.StrokeWidth != nil {
			out.StrokeWidth = *p.StrokeWidth
		}
		if p.FillColor != nil {
			out.FillColor = *p.FillColor
		}
		if p.LineStyle != nil {
			out.LineStyle = *p.LineStyle
		}
		if p.FontSize != nil {
			out.FontSize = *p.FontSize
		}
		if p.FontFamily != nil {
			out.FontFamily = *p.FontFamily
		}
		if p.ShadowColor != nil {
			out.ShadowColor = *p.ShadowColor
		}
		if p.ShadowBlur != nil {
			out.ShadowBlur = *p.ShadowBlur
		}
		if p.ShadowOffset != nil {
			out.ShadowOffset = *p.ShadowOffset
		}
	}
	return out
}
