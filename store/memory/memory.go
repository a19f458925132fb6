// Package memory provides an in-memory store.Store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/utilisation-board/store"
	"github.com/warp/utilisation-board/workforce"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	datasets map[string]entry
	now      func() time.Time
}

type entry struct {
	records   []workforce.SourceRecord
	updatedAt time.Time
}

var _ store.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		datasets: make(map[string]entry),
		now:      time.Now,
	}
}

// Replace overwrites the dataset. The slice is copied; records themselves are
// treated as immutable.
func (m *Memory) Replace(_ context.Context, name string, records []workforce.SourceRecord) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.datasets[name] = entry{
		records:   append([]workforce.SourceRecord(nil), records...),
		updatedAt: m.now().UTC(),
	}
	return nil
}

func (m *Memory) Records(_ context.Context, name string) ([]workforce.SourceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrDatasetNotFound, name)
	}
	out := make([]workforce.SourceRecord, len(e.records))
	copy(out, e.records)
	return out, nil
}

func (m *Memory) List(_ context.Context) ([]store.DatasetInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]store.DatasetInfo, 0, len(m.datasets))
	for name, e := range m.datasets {
		infos = append(infos, store.DatasetInfo{Name: name, Records: len(e.records), UpdatedAt: e.updatedAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.datasets[name]; !ok {
		return fmt.Errorf("%w: %s", store.ErrDatasetNotFound, name)
	}
	delete(m.datasets, name)
	return nil
}

func (m *Memory) Close() error { return nil }
