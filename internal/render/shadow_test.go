package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestShadowSpriteNilCases(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if got := shadowSprite(nil, color.RGBA{0, 0, 0, 128}, 2); got != nil {
		t.Errorf("nil src: got sprite, want nil")
	}
	if got := shadowSprite(src, color.RGBA{0, 0, 0, 0}, 2); got != nil {
		t.Errorf("zero alpha: got sprite, want nil")
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if got := shadowSprite(empty, color.RGBA{0, 0, 0, 128}, 2); got != nil {
		t.Errorf("empty src: got sprite, want nil")
	}
}

func TestShadowSpriteTintsSilhouette(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	draw.Draw(src, image.Rect(5, 5, 15, 15), image.NewUniform(color.RGBA{255, 0, 0, 255}), image.Point{}, draw.Src)

	sprite := shadowSprite(src, color.RGBA{0, 0, 255, 255}, 0)
	if sprite == nil {
		t.Fatal("got nil sprite")
	}
	if sprite.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds = %v, want unpadded source bounds", sprite.Bounds())
	}
	got := sprite.RGBAAt(10, 10)
	if got.B == 0 || got.R != 0 {
		t.Errorf("center = %v, want blue tint", got)
	}
	if out := sprite.RGBAAt(1, 1); out.A != 0 {
		t.Errorf("outside silhouette got alpha %d, want 0", out.A)
	}
}

func TestShadowSpriteMaskFollowsSourceAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(5, 5, color.RGBA{0, 0, 0, 255})
	src.SetRGBA(7, 7, color.RGBA{0, 0, 0, 96})

	sprite := shadowSprite(src, color.RGBA{0, 0, 0, 255}, 0)
	if sprite == nil {
		t.Fatal("got nil sprite")
	}
	if got := sprite.RGBAAt(5, 5).A; got != 255 {
		t.Errorf("opaque pixel alpha = %d, want 255", got)
	}
	if got := sprite.RGBAAt(7, 7).A; got != 96 {
		t.Errorf("translucent pixel alpha = %d, want 96", got)
	}
	if got := sprite.RGBAAt(2, 2).A; got != 0 {
		t.Errorf("uncovered pixel alpha = %d, want 0", got)
	}
}

func TestShadowSpritePadsForBlur(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 255}), image.Point{}, draw.Src)

	sprite := shadowSprite(src, color.RGBA{0, 0, 0, 255}, 3)
	if sprite == nil {
		t.Fatal("got nil sprite")
	}
	if got, want := sprite.Bounds().Dx(), 26; got != want {
		t.Errorf("width = %d, want %d", got, want)
	}
	// Blur bleeds alpha into the pad but keeps it below the interior.
	edge := sprite.RGBAAt(1, 13).A
	center := sprite.RGBAAt(13, 13).A
	if edge == 0 {
		t.Error("pad got no bleed from blur")
	}
	if edge >= center {
		t.Errorf("pad alpha %d not below interior alpha %d", edge, center)
	}
}

func TestScaleAlphaHalves(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{200, 100, 0, 200})
	scaleAlpha(img, 128)
	got := img.RGBAAt(0, 0)
	if got.A != 100 || got.R != 100 {
		t.Errorf("got %v, want channels scaled to about half", got)
	}
}

func TestBlurGrayZeroRadiusCopies(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(2, 2, color.Gray{Y: 200})
	dst := blurGray(src, 0)
	if dst.GrayAt(2, 2).Y != 200 {
		t.Errorf("copy lost pixel: %d", dst.GrayAt(2, 2).Y)
	}
	dst.SetGray(2, 2, color.Gray{Y: 0})
	if src.GrayAt(2, 2).Y != 200 {
		t.Error("blurGray shares pixels with source")
	}
}

func TestBlurGraySpreads(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 9, 9))
	src.SetGray(4, 4, color.Gray{Y: 255})
	dst := blurGray(src, 1)
	if dst.GrayAt(4, 4).Y == 0 {
		t.Error("center vanished")
	}
	if dst.GrayAt(5, 4).Y == 0 {
		t.Error("neighbor got no spread")
	}
	if dst.GrayAt(4, 4).Y <= dst.GrayAt(8, 8).Y {
		t.Error("far corner should stay darker than center")
	}
}
