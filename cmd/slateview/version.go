package main

import (
	"flag"
	"fmt"
)

type versionCmd struct{ r *root }

func (v *versionCmd) Run() error {
	out := fmt.Sprintf("%s version %s", v.r.program, version)
	if commit != "" {
		out += fmt.Sprintf(" (%s)", commit)
	}
	if date != "" {
		out += fmt.Sprintf(" built %s", date)
	}
	fmt.Println(out)
	return nil
}

func (v *versionCmd) Program() string { return v.r.program }

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }
