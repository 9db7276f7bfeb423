package cli

import (
	"context"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveVersion(testInstance *testing.T) {
	testCases := []struct {
		name            string
		buildInfo       *debug.BuildInfo
		available       bool
		expectedVersion string
	}{
		{name: "no_build_info", expectedVersion: "dev"},
		{name: "module_version", available: true, buildInfo: &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}}, expectedVersion: "v0.3.0"},
		{
			name:      "clean_revision",
			available: true,
			buildInfo: &debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
			},
			expectedVersion: "0123456",
		},
		{
			name:      "dirty_revision",
			available: true,
			buildInfo: &debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}, {Key: "vcs.modified", Value: "true"}},
			},
			expectedVersion: "abc-dirty",
		},
		{name: "devel_without_revision", available: true, buildInfo: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, expectedVersion: "dev"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			originalReader := readBuildInfo
			subTest.Cleanup(func() { readBuildInfo = originalReader })
			readBuildInfo = func() (*debug.BuildInfo, bool) { return testCase.buildInfo, testCase.available }

			require.Equal(subTest, testCase.expectedVersion, ResolveVersion(context.Background()))
		})
	}
}
