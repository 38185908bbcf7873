// Package version reports what binary is running. Release builds stamp the
// variables with -ldflags "-X github.com/oukeidos/kozh/internal/version.Version=...";
// plain `go install` builds fall back to the VCS stamp Go embeds itself.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "0.1.0"
	Commit    = ""
	BuildDate = ""
)

var readBuildInfo = debug.ReadBuildInfo

// commitAndDate prefers the ldflags values and fills gaps from vcs.* settings.
func commitAndDate() (commit, date string, dirty bool) {
	commit, date = Commit, BuildDate
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit = s.Value
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return commit, date, dirty
}

// Short is the one-token form used in the user agent and log lines.
func Short() string {
	return "kozh/" + Version
}

// Info returns the multi-line text printed by `kozh version`.
func Info() string {
	commit, date, dirty := commitAndDate()
	if dirty {
		commit += " (modified)"
	}
	return fmt.Sprintf("kozh %s\ncommit: %s\nbuild: %s\ngo: %s %s/%s",
		Version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
