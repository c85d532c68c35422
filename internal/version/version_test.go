package version

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "", ""
	fromBuildInfo(&debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
	}}, true)

	if Commit != "0123456-dirty" {
		t.Fatalf("Commit = %q", Commit)
	}
	if Version != "dev-20260304" {
		t.Fatalf("Version = %q", Version)
	}
}

func TestFromBuildInfoKeepsLinkerValues(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "v1.0.0", "cafe"
	fromBuildInfo(&debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
	}}, true)
	if Version != "v1.0.0" || Commit != "cafe" {
		t.Fatalf("overwrote %q %q", Version, Commit)
	}
	if got := Full(); got != "v1.0.0 (commit: cafe)" {
		t.Fatalf("Full = %q", got)
	}
}
