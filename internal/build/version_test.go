package build_test

import (
	"testing"

	"github.com/rohmanhakim/consents/internal/build"
	"github.com/stretchr/testify/assert"
)

func setVersion(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	prevVersion, prevCommit, prevTime := build.Version, build.Commit, build.BuildTime
	t.Cleanup(func() {
		build.Version, build.Commit, build.BuildTime = prevVersion, prevCommit, prevTime
	})
	build.Version, build.Commit, build.BuildTime = version, commit, buildTime
}

func TestFullVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{name: "default values", version: "dev", commit: "none", want: "dev+none"},
		{name: "version with commit", version: "1.0.0", commit: "abc123", want: "1.0.0+abc123"},
		{name: "version with empty commit", version: "1.0.0", commit: "", want: "1.0.0+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVersion(t, tt.version, tt.commit, "unknown")

			assert.Equal(t, tt.want, build.FullVersion())
		})
	}
}

func TestUserAgent(t *testing.T) {
	setVersion(t, "0.3.1", "f00d", "unknown")

	assert.Equal(t, "consents/0.3.1+f00d", build.UserAgent())
}

func TestSummary(t *testing.T) {
	setVersion(t, "0.3.1", "f00d", "2026-10-01T00:00:00Z")

	assert.Equal(t, "consents 0.3.1+f00d\nbuilt: 2026-10-01T00:00:00Z", build.Summary())
}
