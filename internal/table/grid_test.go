package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGrid_PadsShortRows(t *testing.T) {
	grid := NewGrid([][]string{
		{"a", "b", "c"},
		{"d"},
		{},
	})

	assert.Equal(t, 3, grid.NumRows())
	assert.Equal(t, 3, grid.NumCols())
	assert.Equal(t, []string{"d", "", ""}, grid.Row(1))
	assert.Equal(t, []string{"", "", ""}, grid.Row(2))
}

func TestNewGrid_Empty(t *testing.T) {
	grid := NewGrid(nil)

	assert.Equal(t, 0, grid.NumRows())
	assert.Equal(t, 0, grid.NumCols())
}

func TestNewGrid_CopiesInput(t *testing.T) {
	source := [][]string{{"a", "b"}}
	grid := NewGrid(source)

	source[0][0] = "mutated"

	assert.Equal(t, "a", grid.Cell(0, 0))
}

func TestGrid_RowReturnsCopy(t *testing.T) {
	grid := NewGrid([][]string{{"a", "b"}})

	row := grid.Row(0)
	row[0] = "mutated"

	assert.Equal(t, "a", grid.Cell(0, 0))
}

func TestIsEmptyCell(t *testing.T) {
	tests := []struct {
		name  string
		value string
		empty bool
	}{
		{"empty string", "", true},
		{"spaces only", "   ", true},
		{"tab and newline", "\t\n", true},
		{"plain value", "x", false},
		{"value with padding", "  x  ", false},
		{"zero", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, isEmptyCell(tt.value))
		})
	}
}
