package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveBlockSuccessIncrementsCounterAndHistogram(t *testing.T) {
	r := New()
	r.ObserveBlockSuccess(5 * time.Millisecond)

	if got := testutil.ToFloat64(r.blocksProcessed); got != 1 {
		t.Fatalf("expected blocks_processed=1, got %v", got)
	}
	if got := testutil.ToFloat64(r.blocksFailed); got != 0 {
		t.Fatalf("expected blocks_failed=0, got %v", got)
	}
}

func TestObserveBlockFailureIncrementsFailedCounter(t *testing.T) {
	r := New()
	r.ObserveBlockFailure()
	r.ObserveBlockFailure()

	if got := testutil.ToFloat64(r.blocksFailed); got != 2 {
		t.Fatalf("expected blocks_failed=2, got %v", got)
	}
}

func TestObserveRecoverableErrorIncrementsCounter(t *testing.T) {
	r := New()
	r.ObserveRecoverableError()

	if got := testutil.ToFloat64(r.recoverableTxErrors); got != 1 {
		t.Fatalf("expected recoverable_transaction_errors=1, got %v", got)
	}
}

func TestRegistryGathersAllMetrics(t *testing.T) {
	r := New()
	r.ObserveBlockSuccess(time.Millisecond)

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"solmev_blocks_processed_total",
		"solmev_blocks_failed_total",
		"solmev_recoverable_transaction_errors_total",
		"solmev_block_process_duration_seconds",
	} {
		if !names[want] {
			t.Fatalf("expected metric family %q to be registered, got %v", want, names)
		}
	}
}
