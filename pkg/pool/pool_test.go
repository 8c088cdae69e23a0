package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_GetPut(t *testing.T) {
	p := New(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) { b.Reset() },
	)

	buf := p.Get()
	buf.WriteString("hello")
	p.Put(buf)

	again := p.Get()
	assert.Equal(t, 0, again.Len(), "Put resets objects")
	p.Put(again)

	allocated, inUse, gets, dropped := p.Stats()
	assert.GreaterOrEqual(t, allocated, int64(1))
	assert.Equal(t, int64(0), inUse)
	assert.Equal(t, int64(2), gets)
	assert.Equal(t, int64(0), dropped)
}

func TestPool_WithLimit(t *testing.T) {
	resets := 0
	p := New(
		func() []byte { return make([]byte, 0, 8) },
		func([]byte) { resets++ },
	).WithLimit(func(b []byte) bool { return cap(b) <= 16 })

	p.Put(make([]byte, 0, 64))
	p.Put(make([]byte, 0, 8))

	_, inUse, _, dropped := p.Stats()
	assert.Equal(t, int64(1), dropped)
	assert.Equal(t, 1, resets)
	assert.Equal(t, int64(-2), inUse)
}
