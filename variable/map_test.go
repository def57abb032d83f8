package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableMapSetGet(t *testing.T) {
	m := NewMap[string]()
	v0 := New(0)
	v1 := New(1)

	_, ok := m.Get(v0)
	require.False(t, ok)

	m.Set(v0, "zero")
	m.Set(v1, "one")

	val, ok := m.Get(v0)
	require.True(t, ok)
	assert.Equal(t, "zero", val)

	val, ok = m.Get(v1)
	require.True(t, ok)
	assert.Equal(t, "one", val)

	assert.Equal(t, 2, m.Len())
}

func TestVariableMapOverwrite(t *testing.T) {
	m := NewMap[int]()
	v := New(5)
	m.Set(v, 1)
	m.Set(v, 2)

	val, ok := m.Get(v)
	require.True(t, ok)
	assert.Equal(t, 2, val)
	assert.Equal(t, 1, m.Len())
}

func TestVariableMapHasHoles(t *testing.T) {
	m := NewMap[int]()
	assert.False(t, m.HasHoles(), "empty map has no holes")

	m.Set(New(0), 0)
	m.Set(New(1), 1)
	m.Set(New(2), 2)
	assert.False(t, m.HasHoles())

	m.Set(New(4), 4)
	assert.True(t, m.HasHoles(), "gap at 3 should be detected")
}

func TestVariableMapDelete(t *testing.T) {
	m := NewMap[int]()
	v := New(3)
	m.Set(v, 9)
	require.True(t, m.Contains(v))

	m.Delete(v)
	assert.False(t, m.Contains(v))
	assert.Equal(t, 0, m.Len())
}

func TestVariableMapEntriesAscending(t *testing.T) {
	m := NewMap[int]()
	m.Set(New(3), 30)
	m.Set(New(1), 10)
	m.Set(New(2), 20)

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Variable.Number())
	assert.Equal(t, 2, entries[1].Variable.Number())
	assert.Equal(t, 3, entries[2].Variable.Number())
}

func TestVariableSetBasics(t *testing.T) {
	s := NewSet()
	s.Add(New(0))
	s.Add(New(1))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(New(0)))

	s.Remove(New(0))
	assert.False(t, s.Contains(New(0)))
	assert.Equal(t, 1, s.Len())
}

func TestVariableSetSparseTolerance(t *testing.T) {
	s := NewSet()
	s.Add(New(MaxNumber))
	assert.True(t, s.Contains(New(MaxNumber)))
	assert.True(t, s.HasHoles())
}

func TestStackPushPopTop(t *testing.T) {
	s := NewStack[int]()
	assert.True(t, s.IsEmpty())

	s.Push(1)
	s.Push(2)
	assert.Equal(t, 2, *s.Top())

	*s.Top() = 99
	assert.Equal(t, 99, s.Pop())
	assert.Equal(t, 1, s.Pop())
	assert.True(t, s.IsEmpty())
}

func TestVariableNumberOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { New(-1) })
	assert.Panics(t, func() { New(MaxNumber + 1) })
}
