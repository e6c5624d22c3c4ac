package vtscreen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func row(tag rune) []Cell { return []Cell{{Ch: tag}} }

func TestRing_PushAndGet(t *testing.T) {
	r := newRing(3)
	r.push(row('a'))
	r.push(row('b'))

	assert.Equal(t, 2, r.len())
	assert.Equal(t, 'a', r.get(0)[0].Ch)
	assert.Equal(t, 'b', r.get(1)[0].Ch)
}

func TestRing_CapEvictsOldest(t *testing.T) {
	r := newRing(2)
	r.push(row('a'))
	r.push(row('b'))
	r.push(row('c'))

	assert.Equal(t, 2, r.len())
	assert.Equal(t, 'b', r.get(0)[0].Ch)
	assert.Equal(t, 'c', r.get(1)[0].Ch)
}

func TestRing_GetOutOfRange(t *testing.T) {
	r := newRing(2)
	r.push(row('a'))

	assert.Nil(t, r.get(-1))
	assert.Nil(t, r.get(5))
}

func TestRing_Clear(t *testing.T) {
	r := newRing(2)
	r.push(row('a'))
	r.clear()

	assert.Equal(t, 0, r.len())
	assert.Nil(t, r.get(0))
}

func TestRing_ZeroCapacityFallsBackToDefault(t *testing.T) {
	r := newRing(0)
	assert.Equal(t, 1000, r.capacity)
}
