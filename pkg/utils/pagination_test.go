package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPaginationParams(t *testing.T) {
	p := GetPaginationParams(0, -5)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 0, p.Limit)

	p = GetPaginationParams(3, 20)
	require.Equal(t, 3, p.Page)
	require.Equal(t, 20, p.Limit)
}

func TestCalculateOffset(t *testing.T) {
	require.Equal(t, 0, PaginationParams{Page: 1, Limit: 10}.CalculateOffset())
	require.Equal(t, 20, PaginationParams{Page: 3, Limit: 10}.CalculateOffset())
	require.Equal(t, 0, PaginationParams{Page: 0, Limit: 10}.CalculateOffset())
}

func TestCalculateMeta(t *testing.T) {
	meta := CalculateMeta(25, 2, 10)
	require.Equal(t, 2, meta.Page)
	require.Equal(t, 10, meta.Limit)
	require.Equal(t, int64(25), meta.TotalCount)
	require.Equal(t, 3, meta.TotalPages)

	// limit <= 0 means everything on one page
	meta = CalculateMeta(7, 4, 0)
	require.Equal(t, 1, meta.Page)
	require.Equal(t, 7, meta.Limit)
	require.Equal(t, 1, meta.TotalPages)

	meta = CalculateMeta(0, 1, 10)
	require.Equal(t, 0, meta.TotalPages)
}
