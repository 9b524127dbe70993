package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/view"
)

func TestContentArea(t *testing.T) {
	r := geom.R(0, 10, 20, 30)
	field := view.NewNode("field", geom.R(0, 0, 100, 44))

	container := ContainerRect(r)
	got, ok := container.Rect()
	assert.True(t, ok)
	assert.Equal(t, r, got)
	assert.Nil(t, container.Descendant())

	rel := DescendantRect(&r, field)
	got, ok = rel.Rect()
	assert.True(t, ok)
	assert.Equal(t, r, got)
	assert.Same(t, field, rel.Descendant())

	whole := DescendantRect(nil, field)
	_, ok = whole.Rect()
	assert.False(t, ok)
}
