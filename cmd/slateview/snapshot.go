package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/example/slateview/internal/capture"
	"github.com/example/slateview/internal/clipboard"
	"github.com/example/slateview/internal/viewer"
)

// Capture seams, replaceable in tests.
var (
	captureScreenFn = capture.Screen
	listMonitorsFn  = capture.ListMonitors
)

// snapshotCmd captures the screen and writes, copies or opens the result.
type snapshotCmd struct {
	output        string
	stdout        bool
	toClipboard   bool
	monitor       string
	interactive   bool
	includeCursor bool
	open          bool
	*root
	fs *flag.FlagSet
}

func (s *snapshotCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSnapshotCmd(args []string, r *root) (*snapshotCmd, error) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	s := &snapshotCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.output, "output", "screenshot.png", "write the capture to this file path")
	fs.BoolVar(&s.stdout, "stdout", false, "write PNG data to stdout")
	fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the capture to the clipboard")
	fs.BoolVar(&s.toClipboard, "to-clip", false, "copy the capture to the clipboard (alias)")
	fs.StringVar(&s.monitor, "monitor", "", "monitor selector: primary, an index like #2, or a name substring")
	fs.BoolVar(&s.interactive, "interactive", false, "let the desktop portal prompt for the capture area")
	fs.BoolVar(&s.includeCursor, "include-cursor", false, "embed the cursor in the capture when supported")
	fs.BoolVar(&s.open, "open", false, "open the capture in the viewer instead of exiting")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if s.toClipboard && s.stdout {
		return nil, fmt.Errorf("-stdout cannot be used with -to-clipboard")
	}
	return s, nil
}

func (s *snapshotCmd) Run() error {
	img, err := captureScreenFn(s.monitor, capture.Options{
		Interactive:   s.interactive,
		IncludeCursor: s.includeCursor,
	})
	if err != nil {
		return fmt.Errorf("failed to capture screen: %w", err)
	}

	if s.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied capture to clipboard")
		s.root.notifyCopy("screen capture")
	} else {
		var w io.Writer
		if s.stdout {
			w = os.Stdout
		} else {
			out, err := os.Create(s.output)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := out.Close(); cerr != nil {
					log.Printf("error closing %q: %v", s.output, cerr)
				}
			}()
			w = out
		}
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		if s.stdout {
			fmt.Fprintln(os.Stderr, "wrote PNG data to stdout")
		} else {
			fmt.Fprintf(os.Stderr, "saved %s\n", s.output)
		}
	}
	s.root.notifyCapture("screen", img)

	if s.open {
		viewer.New(
			viewer.WithImage(img),
			viewer.WithOutput(s.output),
			viewer.WithConfig(s.root.config),
			viewer.WithTheme(s.root.activeTheme),
			viewer.WithNotifier(s.root.notifier),
		).Run()
	}
	return nil
}

// monitorsCmd lists the monitors capture can target.
type monitorsCmd struct {
	*root
	fs *flag.FlagSet
}

func (m *monitorsCmd) FlagSet() *flag.FlagSet {
	return m.fs
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	m := &monitorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(m)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *monitorsCmd) Run() error {
	monitors, err := listMonitorsFn()
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	for _, mon := range monitors {
		marker := " "
		if mon.Primary {
			marker = "*"
		}
		b := mon.Rect
		fmt.Printf("%s #%d %s %dx%d+%d+%d\n", marker, mon.Index, mon.Name, b.Dx(), b.Dy(), b.Min.X, b.Min.Y)
	}
	return nil
}
