package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/geom"
	"github.com/example/slateview/internal/render"
)

func TestMatchShortcut(t *testing.T) {
	bindings := map[KeyShortcut]string{
		{Rune: 'x'}:                            "tool-rect",
		{Rune: 's', Modifiers: key.ModControl}: "save",
		{Code: key.CodeDeleteForward}:          "delete",
	}
	tests := []struct {
		name   string
		event  key.Event
		want   string
		wantOK bool
	}{
		{"lowercase rune", key.Event{Rune: 'x', Code: key.CodeX}, "tool-rect", true},
		{"uppercase folds", key.Event{Rune: 'X', Code: key.CodeX}, "tool-rect", true},
		{"ctrl binding", key.Event{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl}, "save", true},
		{"code binding", key.Event{Rune: -1, Code: key.CodeDeleteForward}, "delete", true},
		{"modifier mismatch", key.Event{Rune: 'x', Code: key.CodeX, Modifiers: key.ModControl}, "", false},
		{"unbound", key.Event{Rune: 'z', Code: key.CodeZ}, "", false},
	}
	for _, tt := range tests {
		got, ok := matchShortcut(bindings, tt.event)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%s: matchShortcut = %q, %v, want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestHitAnnotationTopmost(t *testing.T) {
	bottom := &annotation.Annotation{
		ID:     "bottom",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 50, Y: 50}},
	}
	top := &annotation.Annotation{
		ID:     "top",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 25, Y: 25}, {X: 75, Y: 75}},
	}
	anns := []*annotation.Annotation{bottom, top}

	if id, ok := hitAnnotation(anns, geom.Point{X: 30, Y: 30}); !ok || id != "top" {
		t.Errorf("overlap hit = %q, %v, want top", id, ok)
	}
	if id, ok := hitAnnotation(anns, geom.Point{X: 5, Y: 5}); !ok || id != "bottom" {
		t.Errorf("bottom-only hit = %q, %v, want bottom", id, ok)
	}
	if _, ok := hitAnnotation(anns, geom.Point{X: 200, Y: 200}); ok {
		t.Error("miss reported a hit")
	}
}

func TestSavePath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	if got := savePath("out.png", "/tmp/shots", now); got != "out.png" {
		t.Errorf("explicit output = %q", got)
	}
	if got := savePath("", "", now); got != "slateview-20240309-140506.png" {
		t.Errorf("bare name = %q", got)
	}
	got := savePath("", "/tmp/shots", now)
	if !strings.HasPrefix(got, "/tmp/shots/") || !strings.HasSuffix(got, ".png") {
		t.Errorf("dir join = %q", got)
	}
}

func TestTrimLastRune(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abc", "ab"},
		{"a", ""},
		{"héllo", "héll"},
		{"日本語", "日本"},
	}
	for _, tt := range tests {
		if got := trimLastRune(tt.in); got != tt.want {
			t.Errorf("trimLastRune(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderAnnotatedFlattens(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	fill := color.RGBA{0, 128, 0, 255}
	anns := []*annotation.Annotation{{
		ID:     "a1",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 5, Y: 5}, {X: 15, Y: 15}},
		Style: annotation.Style{
			StrokeColor: color.RGBA{0, 0, 0, 255},
			StrokeWidth: 1,
			FillColor:   fill,
		},
	}}

	flat := renderAnnotated(img, anns)
	if flat.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v, want %v", flat.Bounds(), img.Bounds())
	}
	if got := flat.RGBAAt(10, 10); got != fill {
		t.Errorf("inside rect = %v, want %v", got, fill)
	}
	if got := flat.RGBAAt(2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside rect = %v, want white", got)
	}
}

func TestSnapshotFrameCullsAndMarksClean(t *testing.T) {
	v := New()
	vr := render.New(render.Options{Width: 100, Height: 100})

	near := &annotation.Annotation{
		ID:     "near",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 10, Y: 10}, {X: 30, Y: 30}},
	}
	far := &annotation.Annotation{
		ID:     "far",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 5000, Y: 5000}, {X: 5050, Y: 5050}},
	}
	v.store.Add(near)
	v.store.Add(far)
	v.opt.AddRegion("ann:near", near.Bounds(), 1, true)
	v.opt.AddRegion("ann:far", far.Bounds(), 1, true)

	st := v.snapshotFrame(vr, frameInputs{
		width: 180, height: 124,
		toolbarWidth: 80,
		buttons:      defaultButtons(),
		hover:        -1,
	})
	if len(st.anns) != 1 || st.anns[0].ID != "near" {
		t.Fatalf("anns = %v, want [near]", st.anns)
	}
	if rg, ok := v.opt.Region("ann:near"); !ok || rg.Dirty {
		t.Errorf("rendered region still dirty")
	}
	if rg, ok := v.opt.Region("ann:far"); !ok || !rg.Dirty {
		t.Errorf("culled region lost its dirty flag")
	}
}

func TestSnapshotFrameSelectionAndPreview(t *testing.T) {
	v := New()
	vr := render.New(render.Options{Width: 100, Height: 100})
	a := &annotation.Annotation{
		ID:     "a1",
		Type:   annotation.TypeRect,
		Points: []geom.Point{{X: 1, Y: 1}, {X: 9, Y: 9}},
	}
	v.store.Add(a)
	v.store.Select("a1")
	v.tools.SetImageBounds(geom.R(0, 0, 100, 100))
	v.tools.ActivateTool(annotation.TypeLine)
	v.tools.PointerDown(geom.Point{X: 2, Y: 2})
	v.tools.PointerMove(geom.Point{X: 40, Y: 40})

	st := v.snapshotFrame(vr, frameInputs{width: 180, height: 124, toolbarWidth: 80, hover: -1})
	if st.selected == nil || st.selected.ID != "a1" {
		t.Errorf("selected = %v, want a1", st.selected)
	}
	if st.preview == nil || st.preview.Type != annotation.TypeLine {
		t.Fatalf("preview = %v, want in-progress line", st.preview)
	}
}
