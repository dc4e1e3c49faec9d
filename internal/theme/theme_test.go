package theme

import (
	"image/color"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	src := `Name: Test
Background: #112233
SliderLine: #FF000080
# comment line
Unknown: #000000
`
	th, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Test" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x11, 0x22, 0x33, 255}) {
		t.Errorf("Background = %v", th.Background)
	}
	if th.SliderLine != (color.RGBA{255, 0, 0, 0x80}) {
		t.Errorf("SliderLine = %v", th.SliderLine)
	}
	if th.Foreground != Default().Foreground {
		t.Errorf("untouched field lost default: %v", th.Foreground)
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: red")); err == nil {
		t.Fatal("want error for non-hex color")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FFAA00", color.RGBA{255, 170, 0, 255}, false},
		{"#FFAA0080", color.RGBA{255, 170, 0, 128}, false},
		{"FFAA00", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#ZZZZZZ", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{{1, 2, 3, 255}, {10, 20, 30, 40}} {
		got, err := ParseColor(FormatColor(c))
		if err != nil {
			t.Fatalf("round trip %v: %v", c, err)
		}
		if got != c {
			t.Errorf("round trip %v = %v", c, got)
		}
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	l := NewLoader()
	for _, name := range []string{"light", "dark"} {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name == "" {
			t.Errorf("Load(%q): empty name", name)
		}
	}
}

func TestLoadUnknownTheme(t *testing.T) {
	l := &Loader{ConfigDir: t.TempDir(), SystemDir: t.TempDir()}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("want error for unknown theme")
	}
}

func TestLoadEmptyNameFallsBack(t *testing.T) {
	l := NewLoader()
	th, err := l.Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if th.Name != "Default" {
		t.Errorf("Name = %q, want Default", th.Name)
	}
}
