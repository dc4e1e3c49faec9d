package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

// HelpData is what a command must expose to render its usage text.
type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

// UsageError carries the command whose help should be printed.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string {
	return "root.txt"
}

func (v *viewCmd) Template() string {
	return "view.txt"
}

func (v *viewCmd) Program() string {
	return v.root.program + " view"
}

func (c *compareCmd) Template() string {
	return "compare.txt"
}

func (c *compareCmd) Program() string {
	return c.root.program + " compare"
}

func (s *snapshotCmd) Template() string {
	return "snapshot.txt"
}

func (s *snapshotCmd) Program() string {
	return s.root.program + " snapshot"
}

func (m *monitorsCmd) Template() string {
	return "monitors.txt"
}

func (m *monitorsCmd) Program() string {
	return m.root.program + " monitors"
}

func (d *drawCmd) Template() string {
	return "draw.txt"
}

func (d *drawCmd) Program() string {
	return d.root.program + " draw"
}

func (c *configCmd) Template() string {
	return "config.txt"
}

func (c *configCmd) Program() string {
	return c.root.program + " config"
}

func (v *versionCmd) Template() string {
	return "version.txt"
}
