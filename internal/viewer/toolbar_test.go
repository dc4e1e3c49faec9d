package viewer

import (
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/slateview/internal/annotation"
)

func TestToolbarWidthFitsLabels(t *testing.T) {
	labels := []string{"V:Pan", "C:Compare", "X:Rect"}
	got := toolbarWidthFor(labels)
	d := &font.Drawer{Face: basicfont.Face7x13}
	for _, lbl := range labels {
		if need := d.MeasureString(lbl).Ceil() + 8; got < need {
			t.Errorf("width %d clips %q (needs %d)", got, lbl, need)
		}
	}
}

func TestToolbarWidthMinimum(t *testing.T) {
	if got := toolbarWidthFor([]string{"a"}); got != minToolbarWidth {
		t.Errorf("width = %d, want minimum %d", got, minToolbarWidth)
	}
}

func TestButtonIndexAt(t *testing.T) {
	tests := []struct {
		y, count, want int
	}{
		{0, 5, 0},
		{buttonHeight - 1, 5, 0},
		{buttonHeight, 5, 1},
		{buttonHeight*5 - 1, 5, 4},
		{buttonHeight * 5, 5, -1},
		{-3, 5, -1},
	}
	for _, tt := range tests {
		if got := buttonIndexAt(tt.y, tt.count); got != tt.want {
			t.Errorf("buttonIndexAt(%d, %d) = %d, want %d", tt.y, tt.count, got, tt.want)
		}
	}
}

func TestDefaultButtonsToolsAreKnown(t *testing.T) {
	for _, b := range defaultButtons() {
		if b.tool != "" && !annotation.KnownType(b.tool) {
			t.Errorf("button %q arms unknown tool %q", b.label, b.tool)
		}
		if b.action == "" {
			t.Errorf("button %q has no action", b.label)
		}
	}
}
