package render

import (
	"image"
	"image/color"
	"image/draw"
)

// shadowSprite renders a blurred silhouette of src in the shadow color. The
// result is positioned by the caller; bounds match src padded by the blur
// radius. Annotation shadows draw this sprite offset behind the shape.
func shadowSprite(src *image.RGBA, shadow color.RGBA, blur int) *image.RGBA {
	if src == nil || src.Bounds().Empty() || shadow.A == 0 {
		return nil
	}
	if blur < 0 {
		blur = 0
	}

	srcBounds := src.Bounds()
	padded := srcBounds
	if blur > 0 {
		padded = padded.Inset(-blur)
	}

	mask := image.NewGray(padded.Sub(padded.Min))
	for y := srcBounds.Min.Y; y < srcBounds.Max.Y; y++ {
		for x := srcBounds.Min.X; x < srcBounds.Max.X; x++ {
			a := src.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
		}
	}
	blurred := blurGray(mask, blur)

	// DrawMask reads the mask's alpha channel, and Gray pixels report full
	// alpha, so the blurred values must move to an alpha plane first.
	alphaMask := image.NewAlpha(blurred.Bounds())
	copy(alphaMask.Pix, blurred.Pix)

	out := image.NewRGBA(blurred.Bounds())
	tint := color.RGBA{shadow.R, shadow.G, shadow.B, 255}
	draw.DrawMask(out, out.Bounds(), image.NewUniform(tint), image.Point{}, alphaMask, alphaMask.Bounds().Min, draw.Src)
	if shadow.A < 255 {
		scaleAlpha(out, shadow.A)
	}
	return out
}

// scaleAlpha multiplies every pixel's alpha (and premultiplied channels) by
// a/255.
func scaleAlpha(img *image.RGBA, a uint8) {
	f := uint32(a)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(uint32(img.Pix[i]) * f / 255)
		img.Pix[i+1] = uint8(uint32(img.Pix[i+1]) * f / 255)
		img.Pix[i+2] = uint8(uint32(img.Pix[i+2]) * f / 255)
		img.Pix[i+3] = uint8(uint32(img.Pix[i+3]) * f / 255)
	}
}

// blurGray applies a separable box blur with the given radius using running
// prefix sums per row and column.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	for y := 0; y < h; y++ {
		rowStart := y * src.Stride
		tmpStart := y * tmp.Stride
		prefix := make([]int, w+1)
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x])
		}
		for x := 0; x < w; x++ {
			x0 := x - radius
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + radius
			if x1 >= w {
				x1 = w - 1
			}
			sum := prefix[x1+1] - prefix[x0]
			tmp.Pix[tmpStart+x] = uint8(sum / (x1 - x0 + 1))
		}
	}

	for x := 0; x < w; x++ {
		prefix := make([]int, h+1)
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := y - radius
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + radius
			if y1 >= h {
				y1 = h - 1
			}
			sum := prefix[y1+1] - prefix[y0]
			dst.Pix[y*dst.Stride+x] = uint8(sum / (y1 - y0 + 1))
		}
	}

	return dst
}
