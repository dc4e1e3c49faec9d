// Package capture grabs the desktop so a live screen can feed the viewer as
// a before image. The freedesktop portal is preferred; a direct X11 root
// grab is the fallback when no portal answers.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// Options controls how a screen grab is taken.
type Options struct {
	// Interactive lets the portal show its own picker dialog.
	Interactive bool
	// IncludeCursor embeds the pointer in the grabbed image.
	IncludeCursor bool
}

// MonitorInfo describes one attached display.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
}

var backend = newBackend()

var errNoMonitors = errors.New("no monitors available")

// Seams for tests.
var (
	portalScreenshotFn = portalScreenshot
	x11ScreenshotFn    = x11Screenshot
)

// ListMonitors reports the attached displays.
func ListMonitors() ([]MonitorInfo, error) {
	return backend.ListMonitors()
}

// Screen captures the desktop. When a display selector is provided the
// result is cropped to the matching monitor.
func Screen(display string, opts Options) (*image.RGBA, error) {
	img, err := portalScreenshotFn(opts)
	if err != nil {
		if !isPortalUnsupportedError(err) || runningOnWayland() {
			return nil, err
		}
		img, err = x11ScreenshotFn()
		if err != nil {
			return nil, err
		}
	}
	if display == "" {
		return img, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return nil, err
	}
	monitor, err := FindMonitor(monitors, display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, monitor.Rect)
}

// FindMonitor matches a selector against the monitor list. The selector may
// be empty (first monitor), "primary", an index like "1" or "#1", or a
// substring of the output name.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := normalizeSelector(selector)
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, ok := parseIndexSelector(sel); ok {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if containsFold(mon.Name, sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	bounded := rect.Intersect(src.Bounds())
	if bounded.Empty() {
		return nil, fmt.Errorf("monitor region %v outside captured bounds %v", rect, src.Bounds())
	}
	out := image.NewRGBA(image.Rect(0, 0, bounded.Dx(), bounded.Dy()))
	draw.Draw(out, out.Bounds(), src, bounded.Min, draw.Src)
	return out, nil
}
