package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamWriteConsumePartial(t *testing.T) {
	assert := assert.New(t)

	s := NewStream[int](4)

	n := s.Write([]int{1, 2, 3, 4, 5, 6})
	assert.Equal(4, n, "write should be capped at capacity")
	assert.Equal([]int{1, 2, 3, 4}, s.Peek())

	assert.Equal(0, s.Room())

	s.Consume(2)
	assert.Equal([]int{3, 4}, s.Peek())
	assert.Equal(2, s.Room())

	n = s.Write([]int{5, 6, 7})
	assert.Equal(2, n)
	assert.Equal([]int{3, 4, 5, 6}, s.Peek())
}

func TestStreamFinishDrained(t *testing.T) {
	assert := assert.New(t)

	s := NewStream[int](2)
	s.Write([]int{1})
	assert.False(s.Drained())

	s.Finish()
	assert.True(s.Finished())
	assert.False(s.Drained(), "not drained until the buffer empties too")

	s.Consume(1)
	assert.True(s.Drained())
}

func TestMessagePortOrdering(t *testing.T) {
	assert := assert.New(t)

	var got []Msg
	p := &MessagePort{}
	p.Subscribe(func(m Msg) { got = append(got, m) })

	p.Post([]byte("a"))
	p.Post([]byte("b"))
	p.Post(nil)

	assert.Len(got, 3)
	assert.Equal([]byte("a"), got[0])
	assert.Equal([]byte("b"), got[1])
	assert.Nil(got[2])
}
