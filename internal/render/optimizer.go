package render

import (
	"sort"
	"time"

	"github.com/example/slateview/internal/cull"
	"github.com/example/slateview/internal/geom"
)

// Region is a bounded area of the canvas tracked for re-rendering. A region
// flips between clean and dirty; it persists until explicitly removed.
type Region struct {
	ID             string
	Bounds         geom.Rect
	Priority       int
	Dirty          bool
	LastRenderTime time.Time
}

type regionBox struct{ r *Region }

func (b regionBox) Bounds() geom.Rect { return b.r.Bounds }

// Optimizer tracks dirty regions and bounds per-frame render work. It is not
// safe for concurrent use; everything runs on the UI task.
type Optimizer struct {
	regions map[string]*Region
	order   []string // insertion order, used for stable priority sorting
	clock   func() time.Time
}

// NewOptimizer returns an empty optimizer.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		regions: make(map[string]*Region),
		clock:   time.Now,
	}
}

// AddRegion registers or replaces a region. Replacing keeps the original
// insertion position so equal-priority regions render oldest first.
func (o *Optimizer) AddRegion(id string, bounds geom.Rect, priority int, dirty bool) {
	if _, ok := o.regions[id]; !ok {
		o.order = append(o.order, id)
	}
	o.regions[id] = &Region{
		ID:       id,
		Bounds:   bounds,
		Priority: priority,
		Dirty:    dirty,
	}
}

// RemoveRegion drops a region. Removing an unknown id is a no-op.
func (o *Optimizer) RemoveRegion(id string) {
	if _, ok := o.regions[id]; !ok {
		return
	}
	delete(o.regions, id)
	for i, oid := range o.order {
		if oid == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// MarkDirty flags the region as needing a redraw. Unknown ids are ignored.
func (o *Optimizer) MarkDirty(id string) {
	if r, ok := o.regions[id]; ok {
		r.Dirty = true
	}
}

// MarkClean records that the region was rendered just now.
func (o *Optimizer) MarkClean(id string) {
	if r, ok := o.regions[id]; ok {
		r.Dirty = false
		r.LastRenderTime = o.clock()
	}
}

// MarkAllDirty flags every region, e.g. after an image reload.
func (o *Optimizer) MarkAllDirty() {
	for _, r := range o.regions {
		r.Dirty = true
	}
}

// Region returns a copy of the region with the given id.
func (o *Optimizer) Region(id string) (Region, bool) {
	r, ok := o.regions[id]
	if !ok {
		return Region{}, false
	}
	return *r, true
}

// Len returns the number of tracked regions.
func (o *Optimizer) Len() int { return len(o.regions) }

// FrameOptions controls the RegionsToRender pipeline.
type FrameOptions struct {
	DirtyOnly   bool
	Cull        bool
	CullMargin  float64
	MaxPerFrame int // 0 means unlimited
}

// RegionsToRender returns the regions worth drawing this frame: optionally
// dirty-only, optionally culled against the (margin-expanded) viewport,
// sorted by descending priority with insertion order as the tie-break, and
// truncated to MaxPerFrame. The truncation bounds worst-case frame cost even
// when a bulk mutation dirtied everything at once.
func (o *Optimizer) RegionsToRender(viewport geom.Rect, opts FrameOptions) []Region {
	out := make([]Region, 0, len(o.order))
	vp := viewport
	if opts.Cull {
		vp = cull.ExpandViewport(viewport, opts.CullMargin)
	}
	for _, id := range o.order {
		r := o.regions[id]
		if opts.DirtyOnly && !r.Dirty {
			continue
		}
		if opts.Cull && !cull.IsVisible(regionBox{r}, vp) {
			continue
		}
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	if opts.MaxPerFrame > 0 && len(out) > opts.MaxPerFrame {
		out = out[:opts.MaxPerFrame]
	}
	return out
}

// MergeOverlapping unions intersecting regions into their bounding superset,
// keeping the max priority, the earliest render time, and dirty if either
// side was dirty. Passes repeat until a full pass produces no merge, so the
// result is the transitive closure, not a single sweep.
func MergeOverlapping(regions []Region) []Region {
	out := append([]Region(nil), regions...)
	for {
		merged := false
		for i := 0; i < len(out) && !merged; i++ {
			for j := i + 1; j < len(out); j++ {
				if !out[i].Bounds.Intersects(out[j].Bounds) {
					continue
				}
				out[i] = mergeRegions(out[i], out[j])
				out = append(out[:j], out[j+1:]...)
				merged = true
				break
			}
		}
		if !merged {
			return out
		}
	}
}

func mergeRegions(a, b Region) Region {
	m := a
	m.Bounds = a.Bounds.Union(b.Bounds)
	if b.Priority > m.Priority {
		m.Priority = b.Priority
	}
	m.Dirty = a.Dirty || b.Dirty
	// Literal minimum: a zero time means never rendered and stays zero so
	// the merged region is not mistaken for an up-to-date one.
	if b.LastRenderTime.Before(m.LastRenderTime) {
		m.LastRenderTime = b.LastRenderTime
	}
	return m
}

// Batch splits regions into chunks of batchSize for staged submission. A
// non-positive batchSize returns a single batch.
func Batch(regions []Region, batchSize int) [][]Region {
	if len(regions) == 0 {
		return nil
	}
	if batchSize <= 0 {
		return [][]Region{regions}
	}
	var out [][]Region
	for start := 0; start < len(regions); start += batchSize {
		end := start + batchSize
		if end > len(regions) {
			end = len(regions)
		}
		out = append(out, regions[start:end])
	}
	return out
}
