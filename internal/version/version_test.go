package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, settings ...debug.BuildSetting) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestInfoUsesVCSStamp(t *testing.T) {
	stubBuildInfo(t,
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		debug.BuildSetting{Key: "vcs.time", Value: "2026-10-01T09:00:00Z"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)
	info := Info()
	for _, want := range []string{"kozh " + Version, "commit: 0123456789ab (modified)", "build: 2026-10-01T09:00:00Z", "go: "} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() missing %q:\n%s", want, info)
		}
	}
}

func TestInfoPrefersLinkerValues(t *testing.T) {
	stubBuildInfo(t, debug.BuildSetting{Key: "vcs.revision", Value: "feedface"})
	origCommit, origDate := Commit, BuildDate
	Commit, BuildDate = "abc1234", "2026-09-30T00:00:00Z"
	t.Cleanup(func() { Commit, BuildDate = origCommit, origDate })

	info := Info()
	if !strings.Contains(info, "commit: abc1234\n") || !strings.Contains(info, "build: 2026-09-30T00:00:00Z") {
		t.Fatalf("linker values ignored:\n%s", info)
	}
}

func TestInfoUnknownWithoutStamp(t *testing.T) {
	stubBuildInfo(t)
	if info := Info(); !strings.Contains(info, "commit: unknown") || !strings.Contains(info, "build: unknown") {
		t.Fatalf("expected unknown placeholders:\n%s", info)
	}
}

func TestShort(t *testing.T) {
	if got := Short(); got != "kozh/"+Version {
		t.Fatalf("Short() = %q", got)
	}
}
