package skiplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFatInsertSearch(t *testing.T) {
	f := NewFat[int, string](16, 0.5)

	assert.True(t, f.Insert(10, "ten"))
	assert.True(t, f.Insert(20, "twenty"))
	assert.True(t, f.Insert(5, "five"))

	v, found := f.Search(10)
	require.True(t, found)
	assert.Equal(t, "ten", v)

	_, found = f.Search(15)
	assert.False(t, found)
}

func TestFatInsertDuplicateOverwritesButReportsFalse(t *testing.T) {
	f := NewFat[int, string](16, 0.5)

	require.True(t, f.Insert(100, "100"))
	assert.False(t, f.Insert(100, "101"), "Fat reports false on a duplicate key, same as Locked")

	v, found := f.Search(100)
	require.True(t, found)
	assert.Equal(t, "101", v, "unlike Locked, Fat overwrites the value on a duplicate insert")
}

func TestFatRemove(t *testing.T) {
	f := NewFat[int, string](16, 0.5)
	require.True(t, f.Insert(10, "ten"))

	v, removed := f.Remove(10)
	assert.True(t, removed)
	assert.Equal(t, "ten", v)

	_, found := f.Search(10)
	assert.False(t, found)

	_, removed = f.Remove(10)
	assert.False(t, removed)
}

func TestFatEmptyList(t *testing.T) {
	f := NewFat[int, string](16, 0.5)

	_, removed := f.Remove(50)
	assert.False(t, removed)

	v, found := f.Search(50)
	assert.False(t, found)
	assert.Equal(t, "", v)
}

func TestFatForEachSorted(t *testing.T) {
	f := NewFat[int, int](16, 0.5)
	keys := []int{37, 2, 18, 4, 91, 1, 56, 23}
	for _, k := range keys {
		require.True(t, f.Insert(k, k*10))
	}

	var seen []int
	f.ForEach(func(k, v int) {
		seen = append(seen, k)
		assert.Equal(t, k*10, v)
	})

	assert.True(t, sortedAscending(seen))
	assert.Len(t, seen, len(keys))
}

func TestFatCurLevelShrinksAfterRemovingTallestNode(t *testing.T) {
	f := NewFat[int, int](16, 0.999) // near-1 p pushes most nodes toward maxLevel
	for i := 0; i < 50; i++ {
		f.Insert(i, i)
	}
	for i := 0; i < 50; i++ {
		f.Remove(i)
	}
	assert.Equal(t, 0, f.curLevel)

	var count int
	f.ForEach(func(int, int) { count++ })
	assert.Zero(t, count)
}

func TestFatRandomUniformKeysStaySorted(t *testing.T) {
	f := NewFat[int, int](16, 0.5)
	keys := map[int]struct{}{}
	for i := 0; i < 10000; i++ {
		k := (i * 7919) % 20000
		keys[k] = struct{}{}
		f.Insert(k, k)
	}

	var prev int
	first := true
	f.ForEach(func(k, _ int) {
		if !first {
			assert.Less(t, prev, k)
		}
		first = false
		prev = k
	})
}
