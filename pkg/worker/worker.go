package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	intctx "github.com/jdziat/simple-serial-queue/pkg/internal/context"
)

// errSuperseded ends a run whose handle is no longer the active one.
var errSuperseded = errors.New("worker run superseded")

// Worker drains one store, one item at a time. Each call to Launch starts a
// run on its own goroutine; State guarantees at most one run is active.
type Worker struct {
	state    *State
	store    core.Store
	consumer core.Consumer
	config   WorkerConfig
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewWorker creates a worker for store driven by consumer.
func NewWorker(state *State, store core.Store, consumer core.Consumer, opts ...WorkerOption) *Worker {
	var config WorkerConfig
	for _, opt := range opts {
		opt.ApplyWorker(&config)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		state:    state,
		store:    store,
		consumer: consumer,
		config:   config,
		logger:   logger.With("store", store.Name()),
	}
}

// Launch starts a new run. It must be called inside state.Do with the Txn it
// was given. A run that is still registered as active is a stale handle: it
// is interrupted and detached before the new one starts.
func (w *Worker) Launch(parent context.Context, t *Txn) *Handle {
	if stale := t.Active(); stale != nil {
		w.logger.Warn("worker already active, interrupting it", "run_id", stale.ID, "phase", t.Phase().String())
		stale.Interrupt()
		t.Detach(stale)
	}

	h := newHandle(parent)
	t.StartWorker(h)

	w.wg.Add(1)
	go w.run(h)
	return h
}

// Wait blocks until every launched run has returned.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(h *Handle) {
	defer w.wg.Done()
	defer close(h.done)
	defer h.cancel()

	log := w.logger.With("run_id", h.ID)
	// Store writes must land even if the run is being interrupted.
	storeCtx := context.WithoutCancel(h.ctx)

	if err := w.begin(storeCtx, h, log); err != nil {
		w.finish(h, err, log)
		return
	}

	for {
		if h.Interrupted() {
			_ = w.state.Do(func(t *Txn) error {
				t.Detach(h)
				return nil
			})
			log.Info("worker interrupted, remaining items stay queued")
			return
		}

		done, err := w.step(storeCtx, h, log)
		if err != nil {
			w.finish(h, err, log)
			return
		}
		if done {
			return
		}
	}
}

func (w *Worker) begin(ctx context.Context, h *Handle, log *slog.Logger) error {
	return w.state.Do(func(t *Txn) error {
		if !t.Owns(h) {
			return errSuperseded
		}
		pending, err := w.store.Count(ctx)
		if err != nil {
			return err
		}
		Notify(log, "OnQueueStarting", w.consumer.OnQueueStarting)
		w.emit(&core.QueueStarted{Store: w.store.Name(), RunID: h.ID, Pending: pending, Timestamp: time.Now()})
		log.Info("worker started", "pending", pending)
		return nil
	})
}

// step handles the earliest item. It reports done when the run has ended.
func (w *Worker) step(ctx context.Context, h *Handle, log *slog.Logger) (bool, error) {
	var (
		item    *core.WorkItem
		payload any
		done    bool
	)

	err := w.state.Do(func(t *Txn) error {
		if !t.Owns(h) {
			return errSuperseded
		}

		var err error
		item, err = w.store.PeekEarliest(ctx)
		if err != nil {
			return err
		}
		if item == nil {
			Notify(log, "OnQueueEnded", func() { w.consumer.OnQueueEnded(true) })
			t.Complete(h)
			w.emit(&core.QueueEnded{Store: w.store.Name(), RunID: h.ID, AllProcessed: true, Timestamp: time.Now()})
			log.Info("queue drained")
			done = true
			return nil
		}

		p, ok := w.deserialize(log, item)
		if !ok {
			if err := w.store.Remove(ctx, item.ID); err != nil {
				return err
			}
			w.emit(&core.ItemSkipped{Store: w.store.Name(), ItemID: item.ID, Reason: "invalid", Timestamp: time.Now()})
			log.Debug("skipped item that failed to deserialize", "item_id", item.ID)
			item = nil
			return nil
		}
		payload = p
		return nil
	})
	if err != nil || done || item == nil {
		return done, err
	}

	start := time.Now()
	directive := w.process(h, item, payload, log)
	duration := time.Since(start)

	err = w.state.Do(func(t *Txn) error {
		if !t.Owns(h) {
			return errSuperseded
		}
		w.emit(&core.ItemProcessed{
			Store:     w.store.Name(),
			RunID:     h.ID,
			Item:      item,
			Directive: directive,
			Duration:  duration,
			Timestamp: time.Now(),
		})
		log.Debug("item processed", "item_id", item.ID, "directive", directive.String(), "duration", duration)

		switch directive {
		case core.Pause:
			t.RequestPause(h)
			Notify(log, "OnQueuePausing", func() { w.consumer.OnQueuePausing(payload) })
			w.emit(&core.QueuePaused{Store: w.store.Name(), RunID: h.ID, ItemID: item.ID, Timestamp: time.Now()})
			log.Info("queue paused", "item_id", item.ID)
			done = true
			return nil

		case core.Stop:
			discarded, err := w.store.Count(ctx)
			if err != nil {
				return err
			}
			Notify(log, "OnQueueEnded", func() { w.consumer.OnQueueEnded(false) })
			if err := w.store.Clear(ctx); err != nil {
				return err
			}
			t.RequestStop(h)
			w.emit(&core.QueueEnded{Store: w.store.Name(), RunID: h.ID, Discarded: discarded, Timestamp: time.Now()})
			log.Info("queue stopped", "discarded", discarded)
			done = true
			return nil

		default:
			return w.store.Remove(ctx, item.ID)
		}
	})
	return done, err
}

// process calls Process outside the critical section. A panic or an
// unknown directive pauses the queue with the item retained.
func (w *Worker) process(h *Handle, item *core.WorkItem, payload any, log *slog.Logger) (d core.Directive) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("process panicked, pausing queue", "item_id", item.ID, "panic", r)
			d = core.Pause
		}
	}()

	ctx := intctx.WithItemContext(h.ctx, &intctx.ItemContext{
		Item:  item,
		Store: w.store.Name(),
		RunID: h.ID,
	})

	d = w.consumer.Process(ctx, payload)
	switch d {
	case core.Continue, core.Pause, core.Stop:
		return d
	default:
		log.Error("process returned an unknown directive, pausing queue",
			"item_id", item.ID, "directive", int(d), "error", core.ErrInvalidDirective)
		return core.Pause
	}
}

func (w *Worker) deserialize(log *slog.Logger, item *core.WorkItem) (payload any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("deserialize panicked", "item_id", item.ID, "panic", r)
			payload, ok = nil, false
		}
	}()
	return w.consumer.Deserialize(item.Payload)
}

// finish ends a run that hit an error. A storage failure detaches the run
// and leaves the phase alone so the next data request starts a new one.
func (w *Worker) finish(h *Handle, err error, log *slog.Logger) {
	if errors.Is(err, errSuperseded) {
		log.Debug("worker run superseded")
		return
	}

	_ = w.state.Do(func(t *Txn) error {
		t.Detach(h)
		return nil
	})
	log.Error("worker run failed", "error", err)
	w.emit(&core.WorkerFailed{Store: w.store.Name(), RunID: h.ID, Error: err, Timestamp: time.Now()})
	if w.config.OnError != nil {
		w.config.OnError(err)
	}
}

func (w *Worker) emit(e core.Event) {
	if w.config.Emit != nil {
		w.config.Emit(e)
	}
}

// Notify runs a consumer lifecycle callback and recovers a panic from it.
func Notify(log *slog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("lifecycle callback panicked", "callback", name, "panic", r)
		}
	}()
	fn()
}
