package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShrinkToHeader(t *testing.T) {
	grid := NewGrid([][]string{
		{"Отчет за год", "", "", ""},
		{"", "МНН", "Дозировка", "УНРЗ"},
		{"", "Препарат А", "100 мг", "1001"},
		{"", "", "200 мг", "1002"},
	})

	out := ShrinkToHeader(grid, HeaderLocation{Row: 1, StartCol: 1, EndCol: 3})

	assert.Equal(t, []string{"МНН", "Дозировка", "УНРЗ"}, out.Columns())
	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, []string{"Препарат А", "100 мг", "1001"}, out.Row(0))
	assert.Equal(t, []string{"", "200 мг", "1002"}, out.Row(1))
}

func TestShrinkToHeader_ShapeLaw(t *testing.T) {
	// Column count equals EndCol-StartCol+1; row count equals the number of
	// grid rows below the header row.
	grid := NewGrid([][]string{
		{"", "", "", "", ""},
		{"", "a", "b", "c", ""},
		{"", "1", "2", "3", ""},
		{"", "4", "5", "6", ""},
		{"", "7", "8", "9", ""},
	})
	loc := HeaderLocation{Row: 1, StartCol: 1, EndCol: 3}

	out := ShrinkToHeader(grid, loc)

	assert.Equal(t, loc.EndCol-loc.StartCol+1, out.NumCols())
	assert.Equal(t, grid.NumRows()-loc.Row-1, out.NumRows())
}

func TestShrinkToHeader_HeaderOnLastRow(t *testing.T) {
	grid := NewGrid([][]string{
		{"", ""},
		{"a", "b"},
	})

	out := ShrinkToHeader(grid, HeaderLocation{Row: 1, StartCol: 0, EndCol: 1})

	assert.Equal(t, []string{"a", "b"}, out.Columns())
	assert.Equal(t, 0, out.NumRows())
}

func TestLocateAndShrink(t *testing.T) {
	// End-to-end: the widest run is promoted, everything above and outside
	// the span is discarded.
	grid := NewGrid([][]string{
		{"x", "", "", ""},
		{"", "y", "z", ""},
		{"a", "", "", "b"},
	})

	loc, err := LocateHeader(grid, 3)
	require.NoError(t, err)
	assert.Equal(t, HeaderLocation{Row: 1, StartCol: 1, EndCol: 2}, loc)

	out := ShrinkToHeader(grid, loc)

	assert.Equal(t, []string{"y", "z"}, out.Columns())
	require.Equal(t, 1, out.NumRows())
	assert.Equal(t, []string{"", ""}, out.Row(0))
}
