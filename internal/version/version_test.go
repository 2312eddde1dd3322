package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)

	s := String()
	assert.True(t, strings.HasPrefix(s, "simplessg "+Version))
	assert.Contains(t, s, GitCommit)
}
