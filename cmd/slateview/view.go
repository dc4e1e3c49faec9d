package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/example/slateview/internal/capture"
	"github.com/example/slateview/internal/viewer"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// viewCmd opens an image in the interactive viewer.
type viewCmd struct {
	file    string
	output  string
	compare string
	capture bool
	*root
	fs *flag.FlagSet
}

func (v *viewCmd) FlagSet() *flag.FlagSet {
	return v.fs
}

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	v := &viewCmd{root: r, fs: fs}
	fs.Usage = usageFunc(v)
	fs.StringVar(&v.file, "file", "", "image file to open")
	fs.StringVar(&v.output, "output", "", "output file for the annotated image")
	fs.StringVar(&v.compare, "compare", "", "before image for the comparison slider")
	fs.BoolVar(&v.capture, "capture", false, "capture the screen as the image to open")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if v.file == "" && fs.NArg() > 0 {
		v.file = fs.Arg(0)
	}
	if v.file == "" && !v.capture {
		return nil, &UsageError{of: v}
	}
	if v.file != "" && v.capture {
		return nil, fmt.Errorf("-capture cannot be used with an input file")
	}
	if v.output == "" {
		if v.capture {
			v.output = "capture-annotated.png"
		} else {
			v.output = trimExt(v.file) + "-annotated.png"
		}
	}
	return v, nil
}

func (v *viewCmd) Run() error {
	opts := []viewer.Option{
		viewer.WithOutput(v.output),
		viewer.WithConfig(v.root.config),
		viewer.WithTheme(v.root.activeTheme),
		viewer.WithNotifier(v.root.notifier),
	}
	if v.capture {
		img, err := captureScreenFn("", capture.Options{})
		if err != nil {
			return fmt.Errorf("failed to capture screen: %w", err)
		}
		opts = append(opts, viewer.WithImage(img))
	} else {
		opts = append(opts, viewer.WithImagePath(v.file))
	}
	if v.compare != "" {
		before, err := loadImageFile(v.compare)
		if err != nil {
			return fmt.Errorf("load compare image: %w", err)
		}
		opts = append(opts, viewer.WithCompareImage(before))
	}
	viewer.New(opts...).Run()
	return nil
}

// compareCmd opens two images side by side behind the comparison slider.
type compareCmd struct {
	before string
	after  string
	output string
	*root
	fs *flag.FlagSet
}

func (c *compareCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCompareCmd(args []string, r *root) (*compareCmd, error) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	c := &compareCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "output", "", "output file for the annotated image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, &UsageError{of: c}
	}
	c.before = fs.Arg(0)
	c.after = fs.Arg(1)
	if c.output == "" {
		c.output = trimExt(c.after) + "-annotated.png"
	}
	return c, nil
}

func (c *compareCmd) Run() error {
	before, err := loadImageFile(c.before)
	if err != nil {
		return fmt.Errorf("load before image: %w", err)
	}
	viewer.New(
		viewer.WithImagePath(c.after),
		viewer.WithCompareImage(before),
		viewer.WithOutput(c.output),
		viewer.WithConfig(c.root.config),
		viewer.WithTheme(c.root.activeTheme),
		viewer.WithNotifier(c.root.notifier),
	).Run()
	return nil
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	if cerr := f.Close(); cerr != nil {
		log.Printf("error closing %q: %v", path, cerr)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}
