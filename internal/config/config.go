package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/theme"
)

// Viewer holds window and view settings.
type Viewer struct {
	Width      int
	Height     int
	Background string // Hex color; empty falls back to the theme's background
	MinZoom    float64
	MaxZoom    float64
}

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Viewer  Viewer
	Notify  Notify

	// MinExtent is the smallest world-space gesture that still creates an
	// annotation.
	MinExtent float64
	// ToolDefaults overlays the built-in style for every tool.
	ToolDefaults *annotation.StylePatch
	// ToolOverrides overlays ToolDefaults per tool type.
	ToolOverrides map[annotation.Type]*annotation.StylePatch

	Themes map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Viewer: Viewer{
			Width:   1024,
			Height:  768,
			MinZoom: 0.1,
			MaxZoom: 10,
		},
		MinExtent:     annotation.DefaultMinExtent,
		ToolOverrides: make(map[annotation.Type]*annotation.StylePatch),
		Themes:        make(map[string]*theme.Theme),
	}
}

// ToolConfig assembles the tool controller settings from this config.
func (c *Config) ToolConfig() annotation.ControllerConfig {
	return annotation.ControllerConfig{
		MinExtent:    c.MinExtent,
		DefaultStyle: c.ToolDefaults,
		ToolStyles:   c.ToolOverrides,
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	// Viewer section
	sb.WriteString("[viewer]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Viewer.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Viewer.Height)
	if c.Viewer.Background != "" {
		fmt.Fprintf(&sb, "background = %s\n", c.Viewer.Background)
	}
	fmt.Fprintf(&sb, "min_zoom = %g\n", c.Viewer.MinZoom)
	fmt.Fprintf(&sb, "max_zoom = %g\n", c.Viewer.MaxZoom)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Tools section
	sb.WriteString("[tools]\n")
	fmt.Fprintf(&sb, "min_extent = %g\n", c.MinExtent)
	writeStylePatch(&sb, c.ToolDefaults)
	sb.WriteString("\n")

	var toolNames []string
	for typ := range c.ToolOverrides {
		toolNames = append(toolNames, string(typ))
	}
	sort.Strings(toolNames)
	for _, name := range toolNames {
		fmt.Fprintf(&sb, "[tool.%s]\n", name)
		writeStylePatch(&sb, c.ToolOverrides[annotation.Type(name)])
		sb.WriteString("\n")
	}

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fmt.Fprintf(&sb, "Background: %s\n", theme.FormatColor(t.Background))
		fmt.Fprintf(&sb, "Foreground: %s\n", theme.FormatColor(t.Foreground))
		fmt.Fprintf(&sb, "ToolbarBackground: %s\n", theme.FormatColor(t.ToolbarBackground))
		fmt.Fprintf(&sb, "ButtonBackground: %s\n", theme.FormatColor(t.ButtonBackground))
		fmt.Fprintf(&sb, "ButtonActive: %s\n", theme.FormatColor(t.ButtonActive))
		fmt.Fprintf(&sb, "ButtonText: %s\n", theme.FormatColor(t.ButtonText))
		fmt.Fprintf(&sb, "ButtonBorder: %s\n", theme.FormatColor(t.ButtonBorder))
		fmt.Fprintf(&sb, "CheckerLight: %s\n", theme.FormatColor(t.CheckerLight))
		fmt.Fprintf(&sb, "CheckerDark: %s\n", theme.FormatColor(t.CheckerDark))
		fmt.Fprintf(&sb, "SelectionOutline: %s\n", theme.FormatColor(t.SelectionOutline))
		fmt.Fprintf(&sb, "SliderLine: %s\n", theme.FormatColor(t.SliderLine))
		fmt.Fprintf(&sb, "SliderHandle: %s\n", theme.FormatColor(t.SliderHandle))
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeStylePatch(sb *strings.Builder, p *annotation.StylePatch) {
	if p == nil {
		return
	}
	if p.StrokeColor != nil {
		fmt.Fprintf(sb, "stroke_color = %s\n", theme.FormatColor(*p.StrokeColor))
	}
	if p.StrokeWidth != nil {
		fmt.Fprintf(sb, "stroke_width = %d\n", *p.StrokeWidth)
	}
	if p.FillColor != nil {
		fmt.Fprintf(sb, "fill_color = %s\n", theme.FormatColor(*p.FillColor))
	}
	if p.LineStyle != nil {
		fmt.Fprintf(sb, "line_style = %s\n", *p.LineStyle)
	}
	if p.FontSize != nil {
		fmt.Fprintf(sb, "font_size = %g\n", *p.FontSize)
	}
	if p.FontFamily != nil {
		fmt.Fprintf(sb, "font_family = %s\n", *p.FontFamily)
	}
	if p.ShadowColor != nil {
		fmt.Fprintf(sb, "shadow_color = %s\n", theme.FormatColor(*p.ShadowColor))
	}
	if p.ShadowBlur != nil {
		fmt.Fprintf(sb, "shadow_blur = %d\n", *p.ShadowBlur)
	}
}
