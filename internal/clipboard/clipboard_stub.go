//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

// errUnsupported is what every clipboard call returns on platforms without
// a backend. Callers surface it as a status message rather than failing.
var errUnsupported = errors.New("clipboard is not available on this platform")

func WriteImage(image.Image) error {
	return errUnsupported
}

func ReadImage() (image.Image, error) {
	return nil, errUnsupported
}

func WriteText(string) error {
	return errUnsupported
}

func ReadText() (string, error) {
	return "", errUnsupported
}
