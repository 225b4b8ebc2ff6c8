// Test Type: Unit Test
// Description: Tests for the visit history

package walker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/rebackup/pkg/walker"
)

func TestHistory(t *testing.T) {
	h := walker.NewHistory()

	assert.False(t, h.Contains("/src/a"))
	assert.True(t, h.TryVisit("/src/a"), "first visit should register the path")
	assert.True(t, h.Contains("/src/a"))
	assert.False(t, h.TryVisit("/src/a"), "second visit should be refused")

	assert.True(t, h.TryVisit("/src/ab"))
	assert.Equal(t, 2, h.Len())
}
