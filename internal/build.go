package internal

import (
	"log/slog"
	"runtime/debug"
	"time"
)

// Build describes the build of the running binary. Values are read from
// the version control settings the go tool embeds.
type Build struct {
	Revision      string
	RevisionTime  time.Time
	LocalModified string
	GoVersion     string
}

// CurrentBuild is the build of the running binary.
var CurrentBuild = readBuild(debug.ReadBuildInfo)

func readBuild(read func() (*debug.BuildInfo, bool)) Build {
	b := Build{
		Revision:      "unknown",
		LocalModified: "unknown",
		GoVersion:     "unknown",
	}

	info, ok := read()
	if !ok {
		return b
	}

	b.GoVersion = info.GoVersion

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.Revision = setting.Value
		case "vcs.time":
			t, err := time.Parse(time.RFC3339, setting.Value)
			if err != nil {
				continue
			}
			b.RevisionTime = t
		case "vcs.modified":
			b.LocalModified = setting.Value
		}
	}

	return b
}

func (b Build) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("revision", b.Revision),
		slog.Time("revisionTime", b.RevisionTime),
		slog.String("localModified", b.LocalModified),
		slog.String("goVersion", b.GoVersion),
	)
}
