package contentstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Client. It backs the file-based source and tests.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Record)}
}

// Put appends records to the named collection.
func (m *Memory) Put(collection string, records ...Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		m.collections[collection] = append(m.collections[collection], record.Clone())
	}
}

// Replace swaps the full contents of a collection.
func (m *Memory) Replace(collection string, records []Record) {
	cloned := make([]Record, 0, len(records))
	for _, record := range records {
		cloned = append(cloned, record.Clone())
	}
	m.mu.Lock()
	m.collections[collection] = cloned
	m.mu.Unlock()
}

// Collections lists the collection names held by the store, sorted.
func (m *Memory) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Query implements Client.
func (m *Memory) Query(ctx context.Context, collection string, filters []Filter, orderBy []Order) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	source := m.collections[collection]
	out := make([]Record, 0, len(source))
	for _, record := range source {
		if Matches(record, filters) {
			out = append(out, record.Clone())
		}
	}
	m.mu.RUnlock()

	SortRecords(out, orderBy)
	return out, nil
}

// QueryOne implements Client.
func (m *Memory) QueryOne(ctx context.Context, collection string, filters []Filter) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.collections[collection] {
		if Matches(record, filters) {
			return record.Clone(), nil
		}
	}
	return nil, nil
}

// Matches reports whether record satisfies every equality filter.
func Matches(record Record, filters []Filter) bool {
	for _, f := range filters {
		value, ok := record[f.Field]
		if !ok || compareValues(value, f.Value) != 0 {
			return false
		}
	}
	return true
}

// SortRecords stably orders records. Records missing a sort field are placed
// after those that have it, whatever the direction.
func SortRecords(records []Record, orderBy []Order) {
	if len(orderBy) == 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		for _, o := range orderBy {
			a, aok := records[i][o.Field]
			b, bok := records[j][o.Field]
			if !aok || a == nil || !bok || b == nil {
				aPresent := aok && a != nil
				bPresent := bok && b != nil
				if aPresent != bPresent {
					return aPresent
				}
				continue
			}
			cmp := compareValues(a, b)
			if cmp == 0 {
				continue
			}
			if o.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b any) int {
	if an, ok := numeric(a); ok {
		if bn, ok := numeric(b); ok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return typeRank(a) - typeRank(b)
}

func numeric(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return toFloat(v)
}

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int, int32, int64, float32, float64:
		return 2
	case time.Time:
		return 3
	case string:
		return 4
	}
	return 5
}
