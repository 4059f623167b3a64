package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	t.Cleanup(func(v, c, b string) func() {
		return func() { Version, GitCommit, BuildTime = v, c, b }
	}(Version, GitCommit, BuildTime))

	assert.NotEmpty(t, Version)
	Version, GitCommit, BuildTime = "v1.2.3", "abc123", "2024-01-01"
	assert.Equal(t, "ralog v1.2.3 (commit abc123, built 2024-01-01)", String())
}
