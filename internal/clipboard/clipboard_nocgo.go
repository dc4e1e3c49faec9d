//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"image"
	"os"
	"sync"
)

// The X11/Wayland backend needs cgo, so this build can only report why the
// clipboard is out of reach. A missing display is the more specific cause
// and wins over the generic cgo error.
var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errNeedsCgo  = errors.New("clipboard access needs a cgo-enabled build")
)

func ensureInit() error {
	initOnce.Do(func() {
		if displayPresent() {
			initErr = errNeedsCgo
			return
		}
		initErr = errNoDisplay
	})
	return initErr
}

func displayPresent() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func WriteImage(image.Image) error {
	return ensureInit()
}

func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return nil, errNeedsCgo
}

func WriteText(string) error {
	return ensureInit()
}

func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	return "", errNeedsCgo
}
