package contentstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededMemory() *Memory {
	store := NewMemory()
	store.Put("custom_pages",
		Record{"slug": "careers", "title": "Careers", "is_published": true, "show_in_menu": true, "menu_order": 5},
		Record{"slug": "tenders", "title": "Tenders", "is_published": true, "show_in_menu": true},
		Record{"slug": "draft", "title": "Draft", "is_published": false, "show_in_menu": true, "menu_order": 1},
		Record{"slug": "faq", "title": "FAQ", "is_published": true, "show_in_menu": false, "menu_order": int64(2)},
		Record{"slug": "visit", "title": "Visit", "is_published": true, "show_in_menu": true, "menu_order": 2.0},
	)
	return store
}

func TestMemoryQueryFiltersAndOrders(t *testing.T) {
	store := seededMemory()

	records, err := store.Query(context.Background(), "custom_pages",
		[]Filter{Eq("is_published", true), Eq("show_in_menu", true)},
		[]Order{Asc("menu_order")})
	require.NoError(t, err)

	slugs := make([]string, 0, len(records))
	for _, r := range records {
		slugs = append(slugs, r.String("slug"))
	}
	assert.Equal(t, []string{"visit", "careers", "tenders"}, slugs)
}

func TestMemoryQueryDescendingKeepsMissingLast(t *testing.T) {
	store := seededMemory()

	records, err := store.Query(context.Background(), "custom_pages", nil, []Order{Desc("menu_order")})
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "careers", records[0].String("slug"))
	assert.Equal(t, "tenders", records[4].String("slug"))
}

func TestMemoryQueryOne(t *testing.T) {
	store := seededMemory()
	ctx := context.Background()

	record, err := store.QueryOne(ctx, "custom_pages", []Filter{Eq("slug", "faq"), Eq("is_published", true)})
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "FAQ", record.String("title"))

	missing, err := store.QueryOne(ctx, "custom_pages", []Filter{Eq("slug", "draft"), Eq("is_published", true)})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryReturnsCopies(t *testing.T) {
	store := seededMemory()
	ctx := context.Background()

	record, err := store.QueryOne(ctx, "custom_pages", []Filter{Eq("slug", "faq")})
	require.NoError(t, err)
	record["title"] = "mutated"

	again, err := store.QueryOne(ctx, "custom_pages", []Filter{Eq("slug", "faq")})
	require.NoError(t, err)
	assert.Equal(t, "FAQ", again.String("title"))
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := seededMemory().Query(ctx, "custom_pages", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"count":   int64(7),
		"ratio":   "3",
		"flag":    true,
		"quoted":  "true",
		"when":    "2024-03-01",
		"links":   map[string]any{"facebook": "https://fb.example", "empty": " "},
		"missing": nil,
	}

	n, ok := r.Int("count")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	n, ok = r.Int("ratio")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = r.Int("missing")
	assert.False(t, ok)

	assert.True(t, r.Bool("flag"))
	assert.False(t, r.Bool("quoted"))
	assert.False(t, r.Bool("absent"))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.Time("when"))
	assert.Equal(t, map[string]string{"facebook": "https://fb.example"}, r.StringMap("links"))
}

func TestQuotedBooleanNeitherMatchesNorDecodes(t *testing.T) {
	store := NewMemory()
	store.Put("custom_pages",
		Record{"slug": "careers", "is_published": true},
		Record{"slug": "quoted", "is_published": "true"},
	)

	records, err := store.Query(context.Background(), "custom_pages", []Filter{Eq("is_published", true)}, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "careers", records[0]["slug"])

	all, err := store.Query(context.Background(), "custom_pages", nil, []Order{Asc("slug")})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, record := range all {
		assert.Equal(t, Matches(record, []Filter{Eq("is_published", true)}), record.Bool("is_published"), record["slug"])
	}
}
