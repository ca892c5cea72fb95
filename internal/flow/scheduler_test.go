package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunDrivesWorkUntilFinished(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	r := &Runner{
		Name: "counter",
		Work: func() (bool, error) {
			calls++
			return calls >= 3, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	Run(ctx, []*Runner{r})
	assert.Equal(3, calls)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	assert := assert.New(t)

	r := &Runner{
		Name: "forever",
		Work: func() (bool, error) { return false, nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		Run(ctx, []*Runner{r})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run never returned after context cancellation")
	}
}

func TestRunWakesOnStreamEdge(t *testing.T) {
	assert := assert.New(t)

	s := NewStream[int](4)
	produced := 0
	r := &Runner{
		Name:  "producer",
		Wakes: []<-chan struct{}{s.Wake()},
		Work: func() (bool, error) {
			if s.Room() == 0 {
				return false, nil
			}
			s.Write([]int{1})
			produced++
			return produced >= 2, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	Run(ctx, []*Runner{r})

	assert.Equal(2, produced)
}
