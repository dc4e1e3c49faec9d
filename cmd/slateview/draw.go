package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/slateview/internal/annotation"
	"github.com/example/slateview/internal/clipboard"
	"github.com/example/slateview/internal/geom"
	"github.com/example/slateview/internal/render"
	"github.com/example/slateview/internal/theme"
)

// drawCmd stamps a single annotation onto an image without opening a window.
type drawCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool

	colorSpec  string
	fillSpec   string
	shadowSpec string
	lineStyle  string
	width      int
	textSize   float64
	shadowBlur int

	shape  annotation.Type
	coords []float64
	text   string

	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

// parseColor resolves an SVG color name or a #RRGGBB/#RRGGBBAA hex value.
func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") {
		return theme.ParseColor(spec)
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", "red", "stroke color name or hex value")
	fs.StringVar(&d.fillSpec, "fill", "", "fill color for rect and circle, empty for none")
	fs.StringVar(&d.shadowSpec, "shadow", "", "drop shadow color, empty for none")
	fs.IntVar(&d.shadowBlur, "shadow-blur", 3, "drop shadow blur radius in pixels")
	fs.StringVar(&d.lineStyle, "line-style", "solid", "stroke pattern: solid, dashed, or dotted")
	fs.IntVar(&d.width, "width", 2, "stroke width in pixels")
	fs.Float64Var(&d.textSize, "text-size", 16, "text size in points")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	positionals := fs.Args()
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.shape = annotation.Type(strings.ToLower(positionals[0]))
	if !annotation.KnownType(d.shape) {
		return nil, fmt.Errorf("unsupported shape %q", positionals[0])
	}
	remaining := positionals[1:]
	var err error
	switch d.shape {
	case annotation.TypeText:
		if len(remaining) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		d.coords, err = expectFloats(remaining[:2], 2, string(d.shape))
		if err != nil {
			return nil, err
		}
		d.text = strings.Join(remaining[2:], " ")
		if strings.TrimSpace(d.text) == "" {
			return nil, fmt.Errorf("text content cannot be empty")
		}
	default:
		d.coords, err = expectFloats(remaining, 4, string(d.shape))
		if err != nil {
			return nil, err
		}
	}

	switch annotation.LineStyle(d.lineStyle) {
	case annotation.LineSolid, annotation.LineDashed, annotation.LineDotted:
	default:
		return nil, fmt.Errorf("invalid line style %q", d.lineStyle)
	}

	if d.fromClipboard {
		if d.output == "" {
			if d.file != "" {
				d.output = d.file
			} else {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
		}
	} else {
		if d.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if d.output == "" {
			d.output = d.file
		}
	}
	if d.width < 1 {
		d.width = 1
	}
	if d.textSize <= 0 {
		d.textSize = 16
	}
	return d, nil
}

func expectFloats(args []string, n int, shape string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d coordinates", shape, n)
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", a)
		}
		out[i] = v
	}
	return out, nil
}

// buildAnnotation assembles the annotation described by the parsed flags.
func (d *drawCmd) buildAnnotation() (*annotation.Annotation, error) {
	style := annotation.DefaultStyle()
	stroke, err := parseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	style.StrokeColor = stroke
	style.StrokeWidth = d.width
	style.LineStyle = annotation.LineStyle(d.lineStyle)
	style.FontSize = d.textSize
	if d.fillSpec != "" {
		fill, err := parseColor(d.fillSpec)
		if err != nil {
			return nil, err
		}
		style.FillColor = fill
	}
	if d.shadowSpec != "" {
		shadow, err := parseColor(d.shadowSpec)
		if err != nil {
			return nil, err
		}
		style.ShadowColor = shadow
		style.ShadowBlur = d.shadowBlur
		style.ShadowOffset = geom.Point{X: 4, Y: 4}
	}

	a := &annotation.Annotation{
		ID:    "draw",
		Type:  d.shape,
		Style: style,
		Text:  d.text,
	}
	if d.shape == annotation.TypeText {
		a.Points = []geom.Point{{X: d.coords[0], Y: d.coords[1]}}
	} else {
		a.Points = []geom.Point{
			{X: d.coords[0], Y: d.coords[1]},
			{X: d.coords[2], Y: d.coords[3]},
		}
	}
	return a, nil
}

func (d *drawCmd) Run() error {
	src, err := d.loadSource()
	if err != nil {
		return err
	}
	a, err := d.buildAnnotation()
	if err != nil {
		return err
	}

	b := src.Bounds()
	r := render.New(render.Options{Width: b.Dx(), Height: b.Dy()})
	r.DrawImage(src)
	r.DrawAnnotation(a)
	rgba := r.Canvas()

	out, err := os.Create(d.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			log.Printf("error closing %q: %v", d.output, cerr)
		}
	}()
	if err := png.Encode(out, rgba); err != nil {
		return err
	}
	saved := d.output
	if abs, err := filepath.Abs(d.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	d.root.notifySave(saved)

	if d.toClipboard {
		if err := clipboard.WriteImage(rgba); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		d.root.notifyCopy(detail)
	}
	return nil
}

func (d *drawCmd) loadSource() (image.Image, error) {
	if d.fromClipboard {
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	return loadImageFile(d.file)
}
