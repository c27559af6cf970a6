package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// History Tests
// ============================================================================

func historyIDs(h History) []int64 {
	ids := make([]int64, len(h.Items))
	for i, p := range h.Items {
		ids[i] = p.ID
	}
	return ids
}

func TestHistory_PrependsAndCaps(t *testing.T) {
	var h History
	for id := int64(1); id <= 6; id++ {
		assert.True(t, h.Add(product(id, 100)))
	}

	assert.Equal(t, []int64{6, 5, 4, 3, 2}, historyIDs(h))
}

func TestHistory_ExistingIsNotReordered(t *testing.T) {
	var h History
	h.Add(product(1, 100))
	h.Add(product(2, 100))
	h.Add(product(3, 100))

	assert.False(t, h.Add(product(1, 100)))
	assert.Equal(t, []int64{3, 2, 1}, historyIDs(h))
}

func TestHistory_SnapshotIsCopy(t *testing.T) {
	var h History
	h.Add(product(1, 100))

	snap := h.Snapshot()
	snap[0].Name = "changed"
	assert.Equal(t, "p", h.Items[0].Name)
}
