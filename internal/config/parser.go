package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme
	var currentPatch *annotation.StylePatch

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil
			currentPatch = nil

			switch {
			case strings.HasPrefix(currentSection, "theme."):
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			case strings.HasPrefix(currentSection, "tool."):
				toolName := annotation.Type(strings.TrimPrefix(currentSection, "tool."))
				if !annotation.KnownType(toolName) {
					return nil, fmt.Errorf("unknown tool type in section [%s]", currentSection)
				}
				currentPatch = &annotation.StylePatch{}
				cfg.ToolOverrides[toolName] = currentPatch
			case currentSection == "tools":
				if cfg.ToolDefaults == nil {
					cfg.ToolDefaults = &annotation.StylePatch{}
				}
				currentPatch = cfg.ToolDefaults
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = setThemeField(currentTheme, key, value)
		case currentPatch != nil:
			err = setStyleField(cfg, currentPatch, key, value)
		case currentSection == "viewer":
			err = setViewerField(&cfg.Viewer, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setViewerField(v *Viewer, key, value string) error {
	switch strings.ToLower(key) {
	case "width", "height":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		if n <= 0 {
			return fmt.Errorf("key %s must be positive, got %d", key, n)
		}
		if strings.EqualFold(key, "width") {
			v.Width = n
		} else {
			v.Height = n
		}
	case "background":
		if _, err := theme.ParseColor(value); err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		v.Background = value
	case "min_zoom", "max_zoom":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		if f <= 0 {
			return fmt.Errorf("key %s must be positive, got %g", key, f)
		}
		if strings.EqualFold(key, "min_zoom") {
			v.MinZoom = f
		} else {
			v.MaxZoom = f
		}
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "capture":
		n.Capture = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setStyleField(cfg *Config, p *annotation.StylePatch, key, value string) error {
	switch strings.ToLower(key) {
	case "min_extent":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		cfg.MinExtent = f
	case "stroke_color":
		c, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		p.StrokeColor = &c
	case "stroke_width":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		p.StrokeWidth = &n
	case "fill_color":
		c, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		p.FillColor = &c
	case "line_style":
		ls := annotation.LineStyle(value)
		switch ls {
		case annotation.LineSolid, annotation.LineDashed, annotation.LineDotted:
		default:
			return fmt.Errorf("invalid line style %q", value)
		}
		p.LineStyle = &ls
	case "font_size":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		p.FontSize = &f
	case "font_family":
		p.FontFamily = &value
	case "shadow_color":
		c, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		p.ShadowColor = &c
	case "shadow_blur":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		p.ShadowBlur = &n
	}
	return nil
}

func setThemeField(t *theme.Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}

	val := reflect.ValueOf(t).Elem()

	// Case-insensitive field lookup
	typ := val.Type()
	var fieldName string
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if strings.EqualFold(f.Name, key) {
			fieldName = f.Name
			break
		}
	}

	if fieldName == "" {
		return nil // Ignore unknown fields
	}

	field := val.FieldByName(fieldName)
	if !field.IsValid() {
		return nil
	}

	if field.Type() == reflect.TypeOf(color.RGBA{}) {
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		field.Set(reflect.ValueOf(col))
	}
	return nil
}
