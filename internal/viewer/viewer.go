// Package viewer runs the interactive canvas window: it owns the shiny
// event loop and wires the view transform, the annotation tools, the
// comparison slider and the render pipeline together.
package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/compare"
	"github.com/example/slateview/internal/config"
	"github.com/example/slateview/internal/geom"
	"github.com/example/slateview/internal/imageload"
	"github.com/example/slateview/internal/notify"
	"github.com/example/slateview/internal/render"
	"github.com/example/slateview/internal/theme"
)

const zoomStep = 1.25

// Viewer holds everything the window needs before the event loop starts.
type Viewer struct {
	cfg      *config.Config
	thm      *theme.Theme
	output   string
	imgPath  string
	img      image.Image
	cmpBase  image.Image
	notifier *notify.Notifier

	store  *annotation.Store
	tools  *annotation.Controller
	cmp    *compare.Controller
	opt    *render.Optimizer
	loader *imageload.Loader

	updateCh  chan struct{}
	onClose   func()
	closeOnce sync.Once
}

// Option modifies a Viewer during creation.
type Option func(*Viewer)

// WithImage sets the image displayed by the viewer.
func WithImage(img image.Image) Option { return func(v *Viewer) { v.img = img } }

// WithImagePath loads the displayed image asynchronously from disk.
func WithImagePath(path string) Option { return func(v *Viewer) { v.imgPath = path } }

// WithCompareImage sets the before image for the comparison slider. Without
// it, comparing shows the clean image against the annotated one.
func WithCompareImage(img image.Image) Option { return func(v *Viewer) { v.cmpBase = img } }

// WithConfig applies a loaded configuration.
func WithConfig(cfg *config.Config) Option { return func(v *Viewer) { v.cfg = cfg } }

// WithTheme sets the color palette.
func WithTheme(t *theme.Theme) Option { return func(v *Viewer) { v.thm = t } }

// WithOutput sets the file path used when saving the annotated image.
func WithOutput(path string) Option { return func(v *Viewer) { v.output = path } }

// WithNotifier routes capture, save and copy notifications.
func WithNotifier(n *notify.Notifier) Option { return func(v *Viewer) { v.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(v *Viewer) { v.onClose = fn } }

// New creates a Viewer with the provided options.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		cfg:      config.New(),
		thm:      theme.Default(),
		store:    annotation.NewStore(),
		opt:      render.NewOptimizer(),
		loader:   imageload.New(),
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(v)
	}
	v.tools = annotation.NewController(v.store, v.cfg.ToolConfig())
	v.cmp = compare.NewController()
	return v
}

// Store exposes the annotation store, mainly for tests and the CLI.
func (v *Viewer) Store() *annotation.Store { return v.store }

// RequestRepaint asks the UI loop for a redraw from another goroutine.
func (v *Viewer) RequestRepaint() {
	select {
	case v.updateCh <- struct{}{}:
	default:
	}
}

func (v *Viewer) notifyClose() {
	v.closeOnce.Do(func() {
		if v.onClose != nil {
			v.onClose()
		}
	})
}

func (v *Viewer) backgroundColor() color.RGBA {
	if v.cfg.Viewer.Background != "" {
		if c, err := theme.ParseColor(v.cfg.Viewer.Background); err == nil {
			return c
		}
		log.Printf("config: bad background %q, using theme", v.cfg.Viewer.Background)
	}
	return v.thm.Background
}

// Run executes the UI loop using shiny's driver.
func (v *Viewer) Run() { driver.Main(v.Main) }

func (v *Viewer) Main(s screen.Screen) {
	buttons := defaultButtons()
	labels := make([]string, 0, len(buttons)+1)
	labels = append(labels, "SlateView")
	for _, b := range buttons {
		labels = append(labels, b.label)
	}
	tbw := toolbarWidthFor(labels)

	width := v.cfg.Viewer.Width
	height := v.cfg.Viewer.Height
	if v.img != nil {
		width = v.img.Bounds().Dx() + tbw
		height = v.img.Bounds().Dy() + statusHeight
	}

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "SlateView"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer v.notifyClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-v.updateCh:
				w.Send(paint.Event{})
			case res := <-v.loader.Results():
				w.Send(res)
			case <-done:
				return
			}
		}
	}()

	vr := render.New(render.Options{
		Width:      width - tbw,
		Height:     height - statusHeight,
		Background: v.backgroundColor(),
		MinZoom:    v.cfg.Viewer.MinZoom,
		MaxZoom:    v.cfg.Viewer.MaxZoom,
	})

	var (
		img             = v.img
		loadErr         string
		compareOn       bool
		panDrag         bool
		panStart        geom.Point
		panOrigin       geom.Point
		textInputActive bool
		textInput       string
		textAnchor      geom.Point
		message         string
		messageUntil    time.Time
		hover           = -1
	)

	showMessage := func(s string) {
		message = s
		log.Print(message)
		messageUntil = time.Now().Add(2 * time.Second)
	}

	setImage := func(newImg image.Image, fit bool) {
		img = newImg
		loadErr = ""
		b := img.Bounds()
		world := geom.R(0, 0, float64(b.Dx()), float64(b.Dy()))
		v.tools.SetImageBounds(world)
		v.opt.AddRegion("image", world, 0, true)
		if v.cmpBase != nil {
			v.cmp.SetImages(v.cmpBase, img)
		} else {
			v.cmp.SetImages(img, nil)
		}
		if fit {
			vr.FitImage(b.Dx(), b.Dy())
		}
		v.opt.MarkAllDirty()
	}

	v.tools.Added.Subscribe(func(a *annotation.Annotation) {
		v.opt.AddRegion("ann:"+a.ID, a.Bounds(), 1, true)
	})
	v.tools.Removed.Subscribe(func(id string) {
		v.opt.RemoveRegion("ann:" + id)
		v.opt.MarkDirty("image")
	})
	vr.ZoomChanged.Subscribe(func(float64) { v.opt.MarkAllDirty() })
	vr.PanChanged.Subscribe(func(geom.Point) { v.opt.MarkAllDirty() })
	v.cmp.Changed.Subscribe(func(compare.State) { v.opt.MarkDirty("image") })

	if img != nil {
		setImage(img, true)
	} else if v.imgPath != "" {
		v.loader.Load(context.Background(), v.imgPath)
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan frameState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	keyboardAction := map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}
	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	armTool := func(typ annotation.Type) func() {
		return func() {
			if img == nil {
				return
			}
			textInputActive = false
			v.tools.ActivateTool(typ)
		}
	}

	register("pan", shortcutList{{Rune: 'v'}}, func() {
		textInputActive = false
		v.tools.DeactivateTool()
	})
	register("tool-rect", shortcutList{{Rune: 'x'}}, armTool(annotation.TypeRect))
	register("tool-circle", shortcutList{{Rune: 'o'}}, armTool(annotation.TypeCircle))
	register("tool-line", shortcutList{{Rune: 'l'}}, armTool(annotation.TypeLine))
	register("tool-arrow", shortcutList{{Rune: 'a'}}, armTool(annotation.TypeArrow))
	register("tool-text", shortcutList{{Rune: 't'}}, armTool(annotation.TypeText))

	register("compare", shortcutList{{Rune: 'c'}}, func() {
		if img == nil {
			return
		}
		compareOn = !compareOn
		if compareOn {
			v.tools.DeactivateTool()
			textInputActive = false
		}
	})
	register("invert", shortcutList{{Rune: 'i'}}, func() {
		if !compareOn {
			return
		}
		v.cmp.SetComparisonMode(!v.cmp.State().ComparisonMode)
	})

	register("zoom-in", shortcutList{{Rune: '+'}, {Rune: '='}}, func() {
		vr.ZoomAt(canvasCenter(vr), zoomStep)
	})
	register("zoom-out", shortcutList{{Rune: '-'}}, func() {
		vr.ZoomAt(canvasCenter(vr), 1/zoomStep)
	})
	register("fit", shortcutList{{Rune: 'f'}, {Rune: '0'}}, func() {
		if img != nil {
			vr.FitImage(img.Bounds().Dx(), img.Bounds().Dy())
		}
	})

	register("delete", shortcutList{{Code: key.CodeDeleteForward}}, func() {
		if id, ok := v.store.Selected(); ok {
			v.tools.Remove(id)
		}
	})

	v.registerFileActions(register, func() image.Image { return img }, setImage, showMessage)

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			vr.Resize(width-tbw, height-statusHeight)
			v.opt.MarkAllDirty()
			w.Send(paint.Event{})
		case imageload.Result:
			if e.Err != nil {
				loadErr = fmt.Sprintf("cannot load %s: %v", filepath.Base(e.Path), e.Err)
				log.Print(loadErr)
			} else {
				setImage(e.Img, true)
				showMessage(fmt.Sprintf("loaded %s (%s)", filepath.Base(e.Path), e.Format))
			}
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := v.snapshotFrame(vr, frameInputs{
				width: width, height: height,
				toolbarWidth: tbw, buttons: buttons, hover: hover,
				img: img, loadErr: loadErr,
				compareOn: compareOn, textInputActive: textInputActive,
				message: message, messageUntil: messageUntil,
			})
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			if int(e.Y) >= height-statusHeight {
				continue
			}
			if int(e.X) < tbw {
				idx := buttonIndexAt(int(e.Y), len(buttons))
				if idx != hover {
					hover = idx
					w.Send(paint.Event{})
				}
				if idx >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					handleShortcut(buttons[idx].action)
				}
				continue
			}
			if hover != -1 {
				hover = -1
				w.Send(paint.Event{})
			}

			p := geom.Point{X: float64(e.X) - float64(tbw), Y: float64(e.Y)}

			if e.Direction == mouse.DirPress && (e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown) {
				factor := zoomStep
				if e.Button == mouse.ButtonWheelDown {
					factor = 1 / zoomStep
				}
				vr.ZoomAt(p, factor)
				w.Send(paint.Event{})
				continue
			}

			if compareOn && img != nil {
				ref := v.cmp.Before()
				if ref == nil {
					ref = img
				}
				imgRect := vr.ImageScreenRect(ref)
				canvas := vr.Canvas().Bounds()
				switch {
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
					if v.cmp.PointerDown(p, imgRect) {
						w.Send(paint.Event{})
						continue
					}
				case e.Direction == mouse.DirNone && v.cmp.State().Dragging:
					v.cmp.PointerMove(p, imgRect, canvas)
					w.Send(paint.Event{})
					continue
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease && v.cmp.State().Dragging:
					v.cmp.PointerUp()
					w.Send(paint.Event{})
					continue
				}
			}

			world := vr.PointerToWorld(p)
			typ := v.tools.ActiveTool()
			switch {
			case typ != "" && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				v.tools.PointerDown(world)
				if typ == annotation.TypeText && v.tools.Drawing() {
					textInputActive = true
					textInput = ""
					textAnchor = world
				}
				w.Send(paint.Event{})
			case typ != "" && typ != annotation.TypeText && e.Direction == mouse.DirNone && v.tools.Drawing():
				v.tools.PointerMove(world)
				w.Send(paint.Event{})
			case typ != "" && typ != annotation.TypeText && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				v.tools.PointerUp(world)
				w.Send(paint.Event{})
			case typ == "" && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				if id, ok := hitAnnotation(v.store.List(), world); ok {
					v.store.Select(id)
				} else {
					v.store.ClearSelection()
					panDrag = true
					panStart = p
					view := vr.View()
					panOrigin = geom.Point{X: view.OffsetX, Y: view.OffsetY}
				}
				w.Send(paint.Event{})
			case typ == "" && e.Direction == mouse.DirNone && panDrag:
				vr.SetPan(panOrigin.X+p.X-panStart.X, panOrigin.Y+p.Y-panStart.Y)
				w.Send(paint.Event{})
			case typ == "" && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				panDrag = false
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if textInputActive {
				switch e.Code {
				case key.CodeReturnEnter:
					v.tools.SetText(textInput)
					v.tools.PointerUp(textAnchor)
					textInputActive = false
					w.Send(paint.Event{})
					continue
				case key.CodeEscape:
					v.tools.Cancel()
					textInputActive = false
					w.Send(paint.Event{})
					continue
				case key.CodeDeleteBackspace:
					if len(textInput) > 0 {
						textInput = trimLastRune(textInput)
						v.tools.SetText(textInput)
						w.Send(paint.Event{})
					}
					continue
				}
				if e.Rune > 0 {
					textInput += string(e.Rune)
					v.tools.SetText(textInput)
					w.Send(paint.Event{})
				}
				continue
			}
			if action, ok := matchShortcut(keyboardAction, e); ok {
				handleShortcut(action)
				continue
			}
			switch e.Rune {
			case 'q', 'Q':
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			case -1:
				switch e.Code {
				case key.CodeEscape:
					if v.tools.Drawing() {
						v.tools.Cancel()
					} else if compareOn {
						compareOn = false
					} else {
						v.tools.DeactivateTool()
						v.store.ClearSelection()
					}
					w.Send(paint.Event{})
				case key.CodeLeftArrow:
					vr.PanBy(10, 0)
					w.Send(paint.Event{})
				case key.CodeRightArrow:
					vr.PanBy(-10, 0)
					w.Send(paint.Event{})
				case key.CodeUpArrow:
					vr.PanBy(0, 10)
					w.Send(paint.Event{})
				case key.CodeDownArrow:
					vr.PanBy(0, -10)
					w.Send(paint.Event{})
				}
			}
		}
	}
}

type frameInputs struct {
	width, height   int
	toolbarWidth    int
	buttons         []toolButton
	hover           int
	img             image.Image
	loadErr         string
	compareOn       bool
	textInputActive bool
	message         string
	messageUntil    time.Time
}

// snapshotFrame assembles the immutable state a frame is drawn from. The
// optimizer decides which annotation regions are worth painting; returned
// regions are marked clean so only future mutations dirty them again.
func (v *Viewer) snapshotFrame(vr *render.Renderer, in frameInputs) frameState {
	view := vr.View()
	margin := render.CullMargin / math.Max(view.Scale, 1e-9)
	regions := v.opt.RegionsToRender(vr.Viewport(), render.FrameOptions{
		Cull:       true,
		CullMargin: margin,
	})
	anns := make([]*annotation.Annotation, 0, len(regions))
	for _, rg := range regions {
		if id, ok := strings.CutPrefix(rg.ID, "ann:"); ok {
			if a, found := v.store.Get(id); found {
				anns = append(anns, a)
			}
		}
		v.opt.MarkClean(rg.ID)
	}

	st := frameState{
		width:  in.width,
		height: in.height,
		toolbar: toolbarState{
			buttons:   in.buttons,
			width:     in.toolbarWidth,
			active:    v.tools.ActiveTool(),
			compareOn: in.compareOn,
			inverted:  v.cmp.State().ComparisonMode,
			hover:     in.hover,
		},
		thm:          v.thm,
		background:   v.backgroundColor(),
		view:         view,
		minZoom:      v.cfg.Viewer.MinZoom,
		maxZoom:      v.cfg.Viewer.MaxZoom,
		img:          in.img,
		loadErr:      in.loadErr,
		anns:         anns,
		compareOn:    in.compareOn,
		compareBase:  v.cmpBase,
		textCursor:   in.textInputActive,
		message:      in.message,
		messageUntil: in.messageUntil,
	}
	if a, ok := v.tools.Preview(); ok {
		st.preview = a
	}
	if id, ok := v.store.Selected(); ok {
		if a, found := v.store.Get(id); found {
			st.selected = a
		}
	}
	if in.compareOn && in.img != nil {
		ref := v.cmpBase
		if ref == nil {
			ref = in.img
		}
		st.imgRect = vr.ImageScreenRect(ref)
		st.sliderX = int(v.cmp.SliderScreenX(st.imgRect))
		st.overlayClip = v.cmp.OverlayClip(st.imgRect, vr.Canvas().Bounds())
	}
	return st
}

// matchShortcut resolves a key event against the registry; rune bindings
// win over code bindings so printable keys behave the same across layouts.
func matchShortcut(keyboardAction map[KeyShortcut]string, e key.Event) (string, bool) {
	if r := unicode.ToLower(e.Rune); r > 0 {
		if a, ok := keyboardAction[KeyShortcut{Rune: r, Modifiers: e.Modifiers}]; ok {
			return a, true
		}
	}
	if a, ok := keyboardAction[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]; ok {
		return a, true
	}
	return "", false
}

// hitAnnotation returns the topmost annotation whose bounds contain the
// world point. Later insertions sit on top.
func hitAnnotation(anns []*annotation.Annotation, world geom.Point) (string, bool) {
	for i := len(anns) - 1; i >= 0; i-- {
		if anns[i].Bounds().Contains(world) {
			return anns[i].ID, true
		}
	}
	return "", false
}

func canvasCenter(vr *render.Renderer) geom.Point {
	b := vr.Canvas().Bounds()
	return geom.Point{X: float64(b.Dx()) / 2, Y: float64(b.Dy()) / 2}
}

func trimLastRune(s string) string {
	rs := []rune(s)
	return string(rs[:len(rs)-1])
}
