package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	saved := []string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	assert.Equal(t, "dev (commit: none, built: unknown)", String())

	Version, Commit, Date = "v0.3.0", "abc1234", "2024-06-01"
	assert.Equal(t, "v0.3.0 (commit: abc1234, built: 2024-06-01)", String())
}
