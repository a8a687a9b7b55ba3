package yum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInsertRoundTrips(t *testing.T) {
	a := newArena(4)

	got := a.insert("hello")
	assert.Equal(t, "hello", got)

	got2 := a.insert("world")
	assert.Equal(t, "world", got2)
	assert.Equal(t, "hello", got, "earlier insert must survive later growth")
}

func TestArenaInsertEmptyString(t *testing.T) {
	a := newArena(0)
	assert.Equal(t, "", a.insert(""))
	assert.Equal(t, "", a.insertBytes(nil))
}

func TestArenaSurvivesManyReallocations(t *testing.T) {
	a := newArena(1)
	var got []string
	for i := 0; i < 256; i++ {
		got = append(got, a.insert("x"))
	}
	for _, s := range got {
		require.Equal(t, "x", s)
	}
}
