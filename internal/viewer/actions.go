package viewer

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/capture"
	"github.com/example/slateview/internal/clipboard"
	"github.com/example/slateview/internal/render"
)

// renderAnnotated flattens the image and its annotations at scale 1, the
// form used for saving and the clipboard.
func renderAnnotated(img image.Image, anns []*annotation.Annotation) *image.RGBA {
	b := img.Bounds()
	r := render.New(render.Options{Width: b.Dx(), Height: b.Dy()})
	r.DrawImage(img)
	for _, a := range anns {
		r.DrawAnnotation(a)
	}
	return r.Canvas()
}

// savePath picks the output file: an explicit path wins, otherwise a
// timestamped name under dir (or the working directory).
func savePath(output, dir string, now time.Time) string {
	if output != "" {
		return output
	}
	name := fmt.Sprintf("slateview-%s.png", now.Format("20060102-150405"))
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func (v *Viewer) registerFileActions(
	register func(name string, keys KeyboardShortcuts, fn func()),
	current func() image.Image,
	setImage func(image.Image, bool),
	showMessage func(string),
) {
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		img := current()
		if img == nil {
			return
		}
		path := savePath(v.output, v.cfg.SaveDir, time.Now())
		out, err := os.Create(path)
		if err != nil {
			log.Printf("save: %v", err)
			return
		}
		flat := renderAnnotated(img, v.store.List())
		if err := png.Encode(out, flat); err != nil {
			log.Printf("save: %v", err)
			if cerr := out.Close(); cerr != nil {
				log.Printf("save: closing file: %v", cerr)
			}
			return
		}
		if err := out.Close(); err != nil {
			log.Printf("save: closing file: %v", err)
			return
		}
		showMessage(fmt.Sprintf("saved %s", path))
		v.notifier.Save(path)
	})

	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		img := current()
		if img == nil {
			return
		}
		if err := clipboard.WriteImage(renderAnnotated(img, v.store.List())); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		showMessage("image copied to clipboard")
		v.notifier.Copy("annotated image")
	})

	register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, func() {
		img, err := clipboard.ReadImage()
		if err != nil {
			log.Printf("paste: %v", err)
			return
		}
		setImage(img, true)
		showMessage("pasted image from clipboard")
	})

	register("capture", shortcutList{{Rune: 'n', Modifiers: key.ModControl}}, func() {
		img, err := capture.Screen("", capture.Options{})
		if err != nil {
			log.Printf("capture screenshot: %v", err)
			return
		}
		setImage(img, true)
		showMessage("captured screenshot")
		v.notifier.Capture("screen", img)
	})
}
