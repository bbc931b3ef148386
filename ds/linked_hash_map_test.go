package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkedHashMap_KeepsInsertionOrder(t *testing.T) {
	lhm := NewLinkedHashMap[string, int]()
	lhm.Put("c", 3)
	lhm.Put("a", 1)
	lhm.Put("b", 2)

	assert.Equal(t, []string{"c", "a", "b"}, lhm.Keys())
	assert.Equal(t, 3, lhm.Len())
}

func TestLinkedHashMap_PutExistingKeepsPosition(t *testing.T) {
	lhm := NewLinkedHashMap[string, int]()
	lhm.Put("a", 1)
	lhm.Put("b", 2)
	lhm.Put("a", 10)

	assert.Equal(t, []string{"a", "b"}, lhm.Keys())
	value, ok := lhm.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, value)
}

func TestLinkedHashMap_GetMissing(t *testing.T) {
	lhm := NewLinkedHashMap[string, int]()
	_, ok := lhm.Get("nope")
	assert.False(t, ok)
}
