//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

type x11Backend struct{}

func newBackend() platformBackend {
	return x11Backend{}
}

func runningOnWayland() bool {
	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	if sessionType == "wayland" {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

func (x11Backend) ListMonitors() ([]MonitorInfo, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}

	monitors, err := fetchMonitors(conn, screen.Root)
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

func fetchMonitors(conn *xgb.Conn, root xproto.Window) ([]MonitorInfo, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	primaryOutput := randr.Output(0)
	if primary, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primaryOutput = primary.Output
	}
	monitors := make([]MonitorInfo, 0, len(res.Outputs))
	idx := 0
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		monitors = append(monitors, MonitorInfo{
			Index: idx,
			Name:  strings.TrimSpace(string(info.Name)),
			Rect: image.Rect(
				int(crtc.X),
				int(crtc.Y),
				int(crtc.X)+int(crtc.Width),
				int(crtc.Y)+int(crtc.Height),
			),
			Primary: output == primaryOutput,
		})
		idx++
	}
	return monitors, nil
}

// x11Screenshot grabs the whole root window in one GetImage round trip.
func x11Screenshot() (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}

	width := int(screen.WidthInPixels)
	height := int(screen.HeightInPixels)
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap,
		xproto.Drawable(screen.Root), 0, 0,
		screen.WidthInPixels, screen.HeightInPixels, 0xFFFFFFFF).Reply()
	if err != nil {
		return nil, fmt.Errorf("screen pixels: %w", err)
	}
	return xImageToRGBA(setup, reply, width, height, "screen")
}

func xImageToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int, kind string) (*image.RGBA, error) {
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%s has empty geometry", kind)
	}
	if reply == nil {
		return nil, fmt.Errorf("%s pixels: missing reply", kind)
	}
	if len(reply.Data) == 0 {
		return nil, fmt.Errorf("%s pixels: empty image data", kind)
	}

	bitsPerPixel := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bitsPerPixel = int(format.BitsPerPixel)
			break
		}
	}
	if bitsPerPixel == 0 {
		return nil, fmt.Errorf("unsupported %s depth %d", kind, reply.Depth)
	}
	bytesPerPixel := bitsPerPixel / 8
	if bytesPerPixel < 3 {
		return nil, fmt.Errorf("unsupported %s pixel format %d bpp", kind, bitsPerPixel)
	}

	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) {
		return nil, fmt.Errorf("%s pixels: unexpected stride", kind)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			off := x * bytesPerPixel
			if off+3 > len(row) {
				break
			}
			b := row[off]
			g := row[off+1]
			r := row[off+2]
			a := byte(0xFF)
			if bytesPerPixel >= 4 && off+3 < len(row) {
				a = row[off+3]
			}
			pix := img.PixOffset(x, y)
			img.Pix[pix+0] = r
			img.Pix[pix+1] = g
			img.Pix[pix+2] = b
			img.Pix[pix+3] = a
		}
	}
	return img, nil
}
