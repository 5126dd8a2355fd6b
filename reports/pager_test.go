package reports_test

import (
	"testing"

	"github.com/jrsteele09/go-lab-console/reports"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPager(t *testing.T) {
	p := reports.NewPager(seq(23), 10)
	require.Equal(t, 3, p.TotalPages())
	require.Equal(t, []int{1, 2, 3}, p.PageNumbers())
	require.Equal(t, seq(10), p.Page())

	require.True(t, p.Next())
	require.True(t, p.Next())
	require.Equal(t, []int{21, 22, 23}, p.Page())
	require.False(t, p.Next())
	require.Equal(t, 3, p.Current())

	require.False(t, p.SetPage(0))
	require.False(t, p.SetPage(4))
	require.Equal(t, 3, p.Current())

	require.True(t, p.Prev())
	require.Equal(t, 2, p.Current())
}

func TestPagerReset(t *testing.T) {
	p := reports.NewPager(seq(30), 10)
	require.True(t, p.SetPage(3))

	p.Reset(seq(15))
	require.Equal(t, 2, p.Current())
	require.Equal(t, []int{11, 12, 13, 14, 15}, p.Page())

	p.Reset(seq(40))
	require.Equal(t, 2, p.Current())

	p.Reset(nil)
	require.Equal(t, 0, p.TotalPages())
	require.Equal(t, 1, p.Current())
	require.Empty(t, p.Page())
	require.Empty(t, p.PageNumbers())
}

func TestPagerDefaultSize(t *testing.T) {
	p := reports.NewPager(seq(11), 0)
	require.Equal(t, reports.DefaultPageSize, p.PageSize())
	require.Equal(t, 2, p.TotalPages())
	require.Equal(t, 11, p.Len())
}
