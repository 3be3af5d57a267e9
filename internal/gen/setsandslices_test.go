//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueInOrder(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueInOrder([]string{"a", "a", "b", "a", "c"}))
	assert.Nil(t, UniqueInOrder([]string{}))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"2023", "2024", "2025"}, SortedKeys(map[string]int{"2025": 1, "2023": 2, "2024": 3}))
}

func TestChunkSlice(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, ChunkSlice([]int{1, 2, 3, 4, 5}, 2))
}

func TestArgMaxTiesGoLow(t *testing.T) {
	assert.Equal(t, 1, ArgMax([]float64{0.1, 0.4, 0.4, 0.1}))
	assert.Equal(t, -1, ArgMax([]float64{}))
}

func TestFirstN(t *testing.T) {
	assert.Equal(t, []int{1, 2}, FirstN([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1, 2, 3}, FirstN([]int{1, 2, 3}, 10))
}
