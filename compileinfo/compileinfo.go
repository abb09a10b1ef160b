// Package compileinfo reports how the running binary was built, so
// that run logs record exactly which commit produced a set of results.
package compileinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

type CompileInfo struct {
	Package    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary was built with %s at commit %v at time %v.%s", c.Package, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Masthead renders the banner written at the top of every run log: the
// tool name, build provenance, and the options the run was invoked
// with.
func (c CompileInfo) Masthead(tool string, options []string) string {
	b := strings.Builder{}
	line := strings.Repeat("*", 69)

	b.WriteString(line + "\n")
	b.WriteString("* " + tool + "\n")
	b.WriteString("* " + c.String() + "\n")
	b.WriteString(line + "\n")
	if len(options) > 0 {
		b.WriteString("Options:\n")
		for _, opt := range options {
			b.WriteString("  " + opt + "\n")
		}
	}

	return b.String()
}

func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
