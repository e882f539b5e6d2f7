// Package schedule implements the §5 concurrency model: a bounded mailbox
// of (slot, block) pairs drained by a fixed pool of workers, each of which
// runs one block end-to-end (C1 -> C6 -> C7) without suspending, plus
// one-shot result delivery and duplicate-slot request collapsing.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"solmev/internal/block"
	"solmev/internal/classify"
	"solmev/internal/label"
	"solmev/internal/metrics"
	"solmev/internal/rpcblock"
	"solmev/internal/store"
)

// job is one mailbox entry: a block awaiting classification and the
// one-shot channel its submitter is waiting on.
type job struct {
	slot     uint64
	raw      rpcblock.Block
	resultCh chan jobResult
}

type jobResult struct {
	result *block.Result
	err    error
}

// Scheduler owns the mailbox and worker pool. Each worker processes one
// block at a time, synchronously, on its own goroutine; concurrency comes
// entirely from running multiple workers, never from suspending within a
// block (spec §5: "no operation in the core suspends or yields").
type Scheduler struct {
	mailbox      chan *job
	registry     *classify.Registry
	labelCfg     label.Config
	bundleLookup store.BundleLookup
	log          *logrus.Logger
	timeout      time.Duration
	metrics      *metrics.Registry

	sf       singleflight.Group
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New starts a Scheduler with workerCount workers draining a mailbox of
// capacity mailboxSize. timeout bounds how long Submit waits for mailbox
// space and for a result; zero means wait indefinitely (Submit still
// respects ctx). metricsReg may be nil, in which case no metrics are
// recorded.
func New(workerCount, mailboxSize int, registry *classify.Registry, labelCfg label.Config, bundleLookup store.BundleLookup, log *logrus.Logger, timeout time.Duration, metricsReg *metrics.Registry) *Scheduler {
	s := &Scheduler{
		mailbox:      make(chan *job, mailboxSize),
		registry:     registry,
		labelCfg:     labelCfg,
		bundleLookup: bundleLookup,
		log:          log,
		timeout:      timeout,
		metrics:      metricsReg,
		stop:         make(chan struct{}),
	}
	for i := 0; i < workerCount; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case j := <-s.mailbox:
			result, err := s.classify(j.slot, j.raw)
			j.resultCh <- jobResult{result: result, err: err}
		}
	}
}

func (s *Scheduler) classify(slot uint64, raw rpcblock.Block) (*block.Result, error) {
	start := time.Now()

	result, err := block.Assemble(s.registry, s.log, slot, raw)
	if err != nil {
		s.observeFailure()
		return nil, fmt.Errorf("schedule: assemble slot %d: %w", slot, err)
	}
	if err := label.Run(s.log, result.Tree, result.RootID, s.labelCfg, s.bundleLookup); err != nil {
		s.observeFailure()
		return nil, fmt.Errorf("schedule: label slot %d: %w", slot, err)
	}

	if s.metrics != nil {
		s.metrics.ObserveBlockSuccess(time.Since(start))
		for i := 0; i < result.RecoveredErrors; i++ {
			s.metrics.ObserveRecoverableError()
		}
	}
	return result, nil
}

func (s *Scheduler) observeFailure() {
	if s.metrics != nil {
		s.metrics.ObserveBlockFailure()
	}
}

// Submit enqueues (slot, raw) for classification and blocks until a result
// is ready, ctx is cancelled, or the scheduler's configured timeout
// elapses. Concurrent Submit calls for the same slot share a single
// classification (spec §5: "duplicate slot requests share a single
// classification") via singleflight, keyed on slot.
func (s *Scheduler) Submit(ctx context.Context, slot uint64, raw rpcblock.Block) (*block.Result, error) {
	key := strconv.FormatUint(slot, 10)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.submitOnce(ctx, slot, raw)
	})
	if err != nil {
		return nil, err
	}
	return v.(*block.Result), nil
}

func (s *Scheduler) submitOnce(ctx context.Context, slot uint64, raw rpcblock.Block) (*block.Result, error) {
	waitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	j := &job{slot: slot, raw: raw, resultCh: make(chan jobResult, 1)}

	select {
	case s.mailbox <- j:
	case <-waitCtx.Done():
		return nil, fmt.Errorf("schedule: mailbox full submitting slot %d: %w", slot, waitCtx.Err())
	case <-s.stop:
		return nil, fmt.Errorf("schedule: scheduler stopped before slot %d could be submitted", slot)
	}

	select {
	case r := <-j.resultCh:
		return r.result, r.err
	case <-waitCtx.Done():
		return nil, fmt.Errorf("schedule: timed out waiting for slot %d: %w", slot, waitCtx.Err())
	case <-s.stop:
		return nil, fmt.Errorf("schedule: scheduler stopped while waiting for slot %d", slot)
	}
}

// Stop signals every worker to exit and waits for them to drain. Jobs
// already in the mailbox are abandoned; their Submit callers will observe
// a timeout or a stopped-scheduler error.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}
