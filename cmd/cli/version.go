package cli

import (
	"context"
	"runtime/debug"
)

const (
	developmentVersionConstant  = "dev"
	develBuildVersionConstant   = "(devel)"
	vcsRevisionSettingConstant  = "vcs.revision"
	vcsModifiedSettingConstant  = "vcs.modified"
	vcsModifiedTrueConstant     = "true"
	dirtyVersionSuffixConstant  = "-dirty"
	shortRevisionLengthConstant = 7
)

var readBuildInfo = debug.ReadBuildInfo

// ResolveVersion reports the module version when installed with go install, the short VCS revision for local builds and "dev" otherwise.
func ResolveVersion(context.Context) string {
	buildInfo, available := readBuildInfo()
	if !available || buildInfo == nil {
		return developmentVersionConstant
	}
	if len(buildInfo.Main.Version) > 0 && buildInfo.Main.Version != develBuildVersionConstant {
		return buildInfo.Main.Version
	}

	revision := ""
	modified := false
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case vcsRevisionSettingConstant:
			revision = setting.Value
		case vcsModifiedSettingConstant:
			modified = setting.Value == vcsModifiedTrueConstant
		}
	}
	if len(revision) == 0 {
		return developmentVersionConstant
	}
	if len(revision) > shortRevisionLengthConstant {
		revision = revision[:shortRevisionLengthConstant]
	}
	if modified {
		return revision + dirtyVersionSuffixConstant
	}
	return revision
}
