package flow

import (
	"context"
	"log"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// WorkFunc is the per-block function the scheduler drives. It should do as
// much work as is currently available — consuming input and producing
// output until one side is exhausted — and report whether the block has
// reached end of stream and may be retired.
type WorkFunc func() (finished bool, err error)

// Runner drives a single block's WorkFunc as a cooperative task: the
// scheduler never calls a Runner's WorkFunc concurrently with itself, and
// calls it again once one of its registered wake channels has fired or
// pollInterval has elapsed, whichever comes first. A block with nothing
// to read and nowhere to write is therefore still called once per
// pollInterval; each WorkFunc checks its own edges and returns early when
// there is nothing to do.
type Runner struct {
	// ID uniquely identifies this block instance for logs/metrics,
	// assigned lazily by Run if left zero.
	ID    uuid.UUID
	Name  string
	Work  WorkFunc
	Wakes []<-chan struct{}
}

// Run starts the scheduler's run loop for the given blocks and blocks
// until every one of them reports finished or ctx is cancelled. Distinct
// blocks run as distinct goroutines. When every block finishes, Run
// returns after all have stopped; when ctx is cancelled, it returns at
// once, without waiting for the blocks' goroutines to exit.
func Run(ctx context.Context, runners []*Runner) {
	done := make(chan struct{}, len(runners))

	for _, r := range runners {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		go runOne(ctx, r, done)
	}

	for range runners {
		select {
		case <-done:
		case <-ctx.Done():
			return
		}
	}
}

// pollInterval is the safety-net re-poll period: it guards against a wake
// signal racing with the Consume/Write that produced it, at negligible
// cost relative to DSP throughput.
const pollInterval = 50 * time.Millisecond

func runOne(ctx context.Context, r *Runner, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()

	cases := make([]reflect.SelectCase, 0, len(r.Wakes)+2)
	cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())})
	for _, w := range r.Wakes {
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(w)})
	}
	timerCaseIdx := len(cases)
	cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv})

	for {
		finished, err := r.Work()
		if err != nil {
			log.Printf("flow: block %q (%s): %v", r.Name, r.ID, err)
			return
		}
		if finished {
			return
		}

		cases[timerCaseIdx].Chan = reflect.ValueOf(time.After(pollInterval))
		chosen, _, _ := reflect.Select(cases)
		if chosen == 0 {
			return // ctx.Done()
		}
	}
}
