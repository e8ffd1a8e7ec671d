package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarksActiveBranch(t *testing.T) {
	rendered := Render(Build(Main, nil), "/csr")

	require.Equal(t, "Who We Are", rendered[0].Label)
	assert.True(t, rendered[0].Active)
	var csrActive bool
	for _, child := range rendered[0].Children {
		if child.Href == "/csr" {
			csrActive = child.Active
		} else {
			assert.False(t, child.Active, child.Href)
		}
	}
	assert.True(t, csrActive)
	assert.False(t, rendered[1].Active)
}

func TestRenderPrefixMatch(t *testing.T) {
	rendered := Render(Build(Main, nil), "/projects/cablecar")
	assert.True(t, rendered[1].Active)
	assert.False(t, rendered[0].Active)
}

func TestIsActive(t *testing.T) {
	assert.True(t, isActive("/", "/"))
	assert.False(t, isActive("/", "/about"))
	assert.True(t, isActive("/media", "/media"))
	assert.False(t, isActive("/media", "/media-kit"))
}

func TestBreadcrumbs(t *testing.T) {
	items := Build(Main, nil)

	crumbs := Breadcrumbs("/", items)
	require.Len(t, crumbs, 1)
	assert.True(t, crumbs[0].Active)

	crumbs = Breadcrumbs("/investors", items)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Financial Reports", crumbs[1].Label)
	assert.True(t, crumbs[1].Active)
	assert.False(t, crumbs[0].Active)

	crumbs = Breadcrumbs("projects/sky-cycling/", items)
	require.Len(t, crumbs, 3)
	assert.Equal(t, "/projects", crumbs[1].Href)
	assert.Equal(t, "Cablecar and Hotel", crumbs[1].Label)
	assert.Equal(t, "/projects/sky-cycling", crumbs[2].Href)
	assert.Equal(t, "Sky Cycling", crumbs[2].Label)
}
