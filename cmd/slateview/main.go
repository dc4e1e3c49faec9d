package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/example/slateview/internal/config"
	"github.com/example/slateview/internal/notify"
	"github.com/example/slateview/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	notifier      *notify.Notifier
	config        *config.Config
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	themeName     string
	activeTheme   *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("slateview", flag.ExitOnError),
		program:  "slateview",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", cfg.Notify.Capture, "show a desktop notification after capturing a screenshot")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (light, dark, or a theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) loadTheme() {
	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("SLATEVIEW_THEME")
	}
	if themeName == "" {
		themeName = r.config.Theme
	}

	if cfgTheme, ok := r.config.Themes[themeName]; ok {
		r.activeTheme = cfgTheme
		return
	}
	t, err := theme.NewLoader().Load(themeName)
	if err != nil {
		if themeName != "" && themeName != "light" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme %q: %v, using default\n", themeName, err)
		}
		t = theme.Default()
	}
	r.activeTheme = t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventCapture, r.captureAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.loadTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "view":
		cmd, err = parseViewCmd(subArgs, r)
	case "compare":
		cmd, err = parseCompareCmd(subArgs, r)
	case "snapshot":
		cmd, err = parseSnapshotCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "monitors":
		cmd, err = parseMonitorsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifyCapture(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Capture(detail, img)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

func trimExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
