package theme

import (
	"image/color"
)

// Theme defines the color palette for the viewer UI.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background behind the canvas
	Foreground color.RGBA // Main text color

	// Toolbar
	ToolbarBackground color.RGBA
	ButtonBackground  color.RGBA
	ButtonActive      color.RGBA // Background of the armed tool's button
	ButtonText        color.RGBA
	ButtonBorder      color.RGBA

	// Canvas
	CheckerLight     color.RGBA
	CheckerDark      color.RGBA
	SelectionOutline color.RGBA // Outline around the selected annotation

	// Comparison divider
	SliderLine   color.RGBA
	SliderHandle color.RGBA
}

// Default returns the hardcoded light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{220, 220, 220, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		ToolbarBackground: color.RGBA{220, 220, 220, 255},
		ButtonBackground:  color.RGBA{200, 200, 200, 255},
		ButtonActive:      color.RGBA{150, 150, 150, 255},
		ButtonText:        color.RGBA{0, 0, 0, 255},
		ButtonBorder:      color.RGBA{0, 0, 0, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
		SelectionOutline:  color.RGBA{30, 120, 255, 255},
		SliderLine:        color.RGBA{255, 255, 255, 255},
		SliderHandle:      color.RGBA{64, 64, 64, 255},
	}
}
