package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/utilisation-board/store"
	"github.com/warp/utilisation-board/store/memory"
	"github.com/warp/utilisation-board/store/storetest"
)

func TestMemory_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.NewMemory()
	})
}

func TestMemory_ReadsAreCopies(t *testing.T) {
	// GIVEN: A stored dataset
	m := memory.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Replace(ctx, "default", storetest.Records()))

	// WHEN: The caller reorders the returned slice
	got, err := m.Records(ctx, "default")
	require.NoError(t, err)
	got[0], got[2] = got[2], got[0]

	// THEN: The stored order is untouched
	again, err := m.Records(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, storetest.Records(), again)
}
