// Package cull decides which bounded objects intersect a viewport so render
// and hit-test work can skip everything off screen.
package cull

import (
	"math"
	"sort"

	"github.com/example/slateview/internal/geom"
)

// Bounded is anything with an axis-aligned bounding box in world space.
type Bounded interface {
	Bounds() geom.Rect
}

// IndexThreshold is the object count above which callers should prefer a
// SpatialIndex over a linear scan.
const IndexThreshold = 256

// IsVisible reports whether the object's bounds intersect the viewport.
func IsVisible(obj Bounded, viewport geom.Rect) bool {
	return obj.Bounds().Intersects(viewport)
}

// Objects filters objs down to those visible in viewport, preserving order.
func Objects[T Bounded](objs []T, viewport geom.Rect) []T {
	out := make([]T, 0, len(objs))
	for _, o := range objs {
		if IsVisible(o, viewport) {
			out = append(out, o)
		}
	}
	return out
}

// ExpandViewport grows the viewport by margin on all sides. Rendering a
// little past the visible frame hides pop-in while panning.
func ExpandViewport(viewport geom.Rect, margin float64) geom.Rect {
	return viewport.Expand(margin)
}

type cellKey struct {
	x, y int
}

// SpatialIndex buckets objects into a uniform grid so viewport queries only
// touch the cells the viewport overlaps.
type SpatialIndex[T Bounded] struct {
	cellSize float64
	items    []T
	cells    map[cellKey][]int
}

// NewSpatialIndex builds a grid index over objs. Each object is registered in
// every cell its bounds span. cellSize must be positive.
func NewSpatialIndex[T Bounded](objs []T, cellSize float64) *SpatialIndex[T] {
	idx := &SpatialIndex[T]{
		cellSize: cellSize,
		items:    objs,
		cells:    make(map[cellKey][]int),
	}
	for i, o := range objs {
		eachCell(o.Bounds(), cellSize, func(k cellKey) {
			idx.cells[k] = append(idx.cells[k], i)
		})
	}
	return idx
}

func eachCell(b geom.Rect, cellSize float64, fn func(cellKey)) {
	x0 := int(math.Floor(b.X / cellSize))
	y0 := int(math.Floor(b.Y / cellSize))
	x1 := int(math.Floor((b.X + b.Width) / cellSize))
	y1 := int(math.Floor((b.Y + b.Height) / cellSize))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(cellKey{x, y})
		}
	}
}

// Query returns the objects visible in viewport, preserving their original
// order so callers drawing in z-order can use the result directly. Candidates
// are collected from the overlapped cells, deduplicated (an object spanning
// several cells appears once), then refined with the exact intersection test
// to drop grid false positives.
func (idx *SpatialIndex[T]) Query(viewport geom.Rect) []T {
	seen := make(map[int]struct{})
	var hits []int
	eachCell(viewport, idx.cellSize, func(k cellKey) {
		for _, i := range idx.cells[k] {
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}
			if IsVisible(idx.items[i], viewport) {
				hits = append(hits, i)
			}
		}
	})
	sort.Ints(hits)
	out := make([]T, len(hits))
	for n, i := range hits {
		out[n] = idx.items[i]
	}
	return out
}

// Metrics reports how effective a culling pass was.
type Metrics struct {
	Total   int
	Visible int
	Ratio   float64 // fraction of objects culled, 0 when Total is 0
}

// CullingMetrics summarizes a pass that kept visible out of total objects.
func CullingMetrics(total, visible int) Metrics {
	m := Metrics{Total: total, Visible: visible}
	if total > 0 {
		m.Ratio = float64(total-visible) / float64(total)
	}
	return m
}
