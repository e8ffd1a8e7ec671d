package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableAliases(t *testing.T) {
	cases := map[string]PageID{
		"/":                  PageHome,
		"/agm":               PageInvestors,
		"/financial-reports": PageInvestors,
		"/investors":         PageInvestors,
		"/our-structure":     PageStructure,
		"/structure/":        PageStructure,
		"/award-recognition": PageAwards,
		"/news":              PageMedia,
		"/ZIPLINE":           PageProjects,
		"/contact":           PageContact,
	}
	for p, want := range cases {
		match, ok := Default.Match(p)
		require.True(t, ok, p)
		assert.Equal(t, want, match.Entry.PageID, p)
		assert.False(t, match.CatchAll, p)
	}
}

func TestDefaultTableParameterisedRoute(t *testing.T) {
	match, ok := Default.Match("/projects/cable-car")
	require.True(t, ok)
	assert.Equal(t, PageProjectDetail, match.Entry.PageID)
	assert.Equal(t, map[string]string{"slug": "cable-car"}, match.Params)
}

func TestDefaultTableCatchAll(t *testing.T) {
	match, ok := Default.Match("/careers")
	require.True(t, ok)
	assert.True(t, match.CatchAll)
	assert.Equal(t, PageCustom, match.Entry.PageID)
	assert.Equal(t, "careers", match.Params["slug"])
}

func TestDefaultTableNoMatchForDeepPaths(t *testing.T) {
	_, ok := Default.Match("/careers/engineering")
	assert.False(t, ok)
	_, ok = Default.Match("/projects/a/b")
	assert.False(t, ok)
}

func TestNewTableRejectsInvalidEntries(t *testing.T) {
	_, err := NewTable([]Entry{{"about", PageAbout}})
	assert.ErrorIs(t, err, ErrInvalidPattern)

	_, err = NewTable([]Entry{{"/x/{}", PageAbout}})
	assert.ErrorIs(t, err, ErrInvalidPattern)

	_, err = NewTable([]Entry{{"/about", PageAbout}, {"/About/", PageStructure}})
	assert.ErrorIs(t, err, ErrDuplicatePattern)

	_, err = NewTable([]Entry{{"/{slug}", PageCustom}, {"/about", PageAbout}})
	assert.ErrorIs(t, err, ErrCatchAllPosition)
}

func TestNewTableWithoutCatchAll(t *testing.T) {
	table, err := NewTable([]Entry{{"/", PageHome}})
	require.NoError(t, err)
	_, ok := table.Match("/anything")
	assert.False(t, ok)
}

func TestEntriesIsACopy(t *testing.T) {
	entries := Default.Entries()
	require.Equal(t, "/{slug}", entries[len(entries)-1].Pattern)
	entries[0].PageID = "changed"
	assert.Equal(t, PageHome, Default.Entries()[0].PageID)
}
