package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := Pagination{}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, 20, n.Limit)

	n = Pagination{Page: -3, Limit: 9999}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, 250, n.Limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())
}

func TestBuildPageInfo(t *testing.T) {
	info := BuildPageInfo(Pagination{Page: 1, Limit: 10}, 25)
	assert.True(t, info.HasMore)

	info = BuildPageInfo(Pagination{Page: 3, Limit: 10}, 25)
	assert.False(t, info.HasMore)
	assert.Equal(t, int64(25), info.Total)
}
