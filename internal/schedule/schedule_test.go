package schedule

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"solmev/internal/action"
	"solmev/internal/classify"
	"solmev/internal/label"
	"solmev/internal/metrics"
	"solmev/internal/rpcblock"
)

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func minimalBlock() rpcblock.Block {
	blockTime := int64(1_700_000_000)
	return rpcblock.Block{ParentSlot: 5, BlockTime: &blockTime}
}

func TestSchedulerClassifiesSubmittedBlock(t *testing.T) {
	s := New(1, 1, classify.NewRegistry(), label.Config{}, nil, silentLogger(), 0, metrics.New())
	defer s.Stop()

	result, err := s.Submit(context.Background(), 77, minimalBlock())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	act, ok := result.Tree.Get(result.RootID)
	if !ok {
		t.Fatalf("expected root node %d to exist", result.RootID)
	}
	blk, ok := act.(*action.Block)
	if !ok {
		t.Fatalf("expected *action.Block root, got %T", act)
	}
	if blk.Slot != 77 {
		t.Fatalf("expected slot 77, got %d", blk.Slot)
	}
}

func TestSchedulerSubmitRespectsCancelledContext(t *testing.T) {
	// workerCount=0 and an unbuffered mailbox mean the send half of Submit
	// can never become ready; the only ready case is the already-cancelled
	// context, so this is deterministic rather than a timing race.
	s := New(0, 0, classify.NewRegistry(), label.Config{}, nil, silentLogger(), 0, nil)
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Submit(ctx, 1, minimalBlock()); err == nil {
		t.Fatalf("expected an error submitting against a cancelled context")
	}
}

func TestSchedulerSubmitTimesOut(t *testing.T) {
	s := New(0, 0, classify.NewRegistry(), label.Config{}, nil, silentLogger(), 10*time.Millisecond, nil)
	defer s.Stop()

	if _, err := s.Submit(context.Background(), 1, minimalBlock()); err == nil {
		t.Fatalf("expected a timeout error submitting to a mailbox no worker drains")
	}
}

func TestSchedulerStopIsIdempotentAndUnblocksWaiters(t *testing.T) {
	s := New(0, 1, classify.NewRegistry(), label.Config{}, nil, silentLogger(), time.Minute, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), 1, minimalBlock())
		errCh <- err
	}()

	// Give the goroutine a chance to enqueue its job before stopping; the
	// assertion below doesn't depend on this actually having happened, only
	// on Stop() eventually unblocking the waiter if it has.
	time.Sleep(10 * time.Millisecond)

	s.Stop()
	s.Stop() // must be safe to call twice

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatalf("expected the pending Submit to fail once the scheduler stopped")
		}
	case <-time.After(time.Second):
		t.Fatalf("Stop() did not unblock the pending Submit in time")
	}
}

// TestSchedulerDuplicateSlotRequestsShareOneClassification exercises the
// Scheduler's own singleflight.Group directly (this test lives in package
// schedule) rather than racing two Submit calls against the real worker
// pipeline, whose classification can finish before a second caller even
// starts -- a race that would make the dedup assertion flaky. Gating the
// flight function on a channel makes the overlap deterministic: the second
// Do call is only issued once the first is known to be in flight.
func TestSchedulerDuplicateSlotRequestsShareOneClassification(t *testing.T) {
	s := New(0, 0, classify.NewRegistry(), label.Config{}, nil, silentLogger(), 0, nil)
	defer s.Stop()

	entered := make(chan struct{})
	release := make(chan struct{})
	var enterOnce sync.Once
	var calls int32

	fn := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		enterOnce.Do(func() { close(entered) })
		<-release
		return &action.Tree{}, nil
	}

	type doResult struct {
		v   any
		err error
	}
	results := make(chan doResult, 2)

	go func() {
		v, err, _ := s.sf.Do("42", fn)
		results <- doResult{v, err}
	}()
	<-entered // first call is registered and running fn

	go func() {
		v, err, _ := s.sf.Do("42", fn)
		results <- doResult{v, err}
	}()
	time.Sleep(10 * time.Millisecond) // let the second Do land on the shared flight
	close(release)

	first := <-results
	second := <-results
	if first.err != nil || second.err != nil {
		t.Fatalf("unexpected errors: %v, %v", first.err, second.err)
	}
	if first.v != second.v {
		t.Fatalf("expected duplicate keys to share one result, got distinct values %v and %v", first.v, second.v)
	}
	if calls != 1 {
		t.Fatalf("expected the flight function to run exactly once, ran %d times", calls)
	}
}
