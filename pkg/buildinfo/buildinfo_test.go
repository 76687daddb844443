package buildinfo

import (
	"fmt"
	"runtime/debug"
	"testing"

	. "src.movdino.sh/pkg/prog/progtest"
	"src.movdino.sh/pkg/tt"
)

func TestProgram(t *testing.T) {
	Test(t, &Program{},
		ThatMovdino("-version").WritesStdout(Value.Version+"\n"),
		ThatMovdino("-version", "-json").WritesStdout(mustToJSON(Value.Version)+"\n"),

		ThatMovdino("-buildinfo").WritesStdout(
			fmt.Sprintf(
				"Version: %v\nGo version: %v\n", Value.Version, Value.GoVersion)),
		ThatMovdino("-buildinfo", "-json").WritesStdout(mustToJSON(Value)+"\n"),

		ThatMovdino().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

// Calls devVersion with "1.0.0" as the next release.
func version(vcsOverride string, bi *debug.BuildInfo) string {
	return devVersion("1.0.0", vcsOverride, func() (*debug.BuildInfo, bool) {
		return bi, bi != nil
	})
}

func vcs(revision, time, modified string) *debug.BuildInfo {
	return &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: revision},
		{Key: "vcs.time", Value: time},
		{Key: "vcs.modified", Value: modified},
	}}
}

func TestDevVersion(t *testing.T) {
	const rev = "abcdef0123456789"
	tt.Test(t, tt.Fn("version", version), tt.Table{
		tt.Args("", nil).Rets("1.0.0-dev.unknown"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}).
			Rets("1.0.0-dev.unknown"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "v0.9.1"}}).
			Rets("0.9.1"),
		tt.Args("", vcs(rev, "2026-10-15T08:30:00Z", "false")).
			Rets("1.0.0-dev.0.20261015083000-abcdef012345"),
		tt.Args("", vcs(rev, "2026-10-15T08:30:00Z", "true")).
			Rets("1.0.0-dev.0.20261015083000-abcdef012345-dirty"),
		tt.Args("", vcs(rev, "mid October", "false")).Rets("1.0.0-dev.unknown"),
		tt.Args("", vcs("", "2026-10-15T08:30:00Z", "false")).Rets("1.0.0-dev.unknown"),
		tt.Args("20261015083000-abcdef012345", nil).
			Rets("1.0.0-dev.0.20261015083000-abcdef012345"),
	})
}
