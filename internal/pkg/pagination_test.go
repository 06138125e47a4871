package pkg_test

import (
	"testing"

	"Hishab/internal/pkg"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePagination(t *testing.T) {
	t.Parallel()

	p := pkg.NormalizePagination(nil)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	p = pkg.NormalizePagination(&pkg.PaginationParams{Page: -3, Limit: 5000})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.Limit)

	p = pkg.NormalizePagination(&pkg.PaginationParams{Page: 4, Limit: 25})
	assert.Equal(t, 4, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 75, p.Offset())
}

func TestNewPaginatedResponse(t *testing.T) {
	t.Parallel()

	resp := pkg.NewPaginatedResponse([]string{"a", "b"}, 2, 10, 42)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PerPage)
}
