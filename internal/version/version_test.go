package version

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	require.NotNil(t, info)
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestParseBuildTime(t *testing.T) {
	original := BuildTime
	t.Cleanup(func() { BuildTime = original })

	BuildTime = "unknown"
	assert.True(t, parseBuildTime().IsZero())

	BuildTime = "not-a-timestamp"
	assert.True(t, parseBuildTime().IsZero())

	BuildTime = "2026-08-27T12:00:00Z"
	assert.Equal(t, time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC), parseBuildTime())
}

func TestGetVersionPrefersLdflagsValue(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "1.2.3"
	assert.Equal(t, "1.2.3", GetVersion())
}
